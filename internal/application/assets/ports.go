package assets

import (
	"context"

	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que activo, movimiento, auditoría,
// evidencia y correlativo confirmen juntos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		assetRepo repository.AssetRepository,
		movRepo repository.MovementRepository,
		auditRepo repository.AuditRepository,
		evidenceRepo repository.EvidenceRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}
