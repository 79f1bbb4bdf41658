package purge

import (
	"context"

	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

// TxRunner transacciones del planificador: desactivación en cascada
// (establecimiento + dependencias) y purga física ordenada. Falla parcial
// revierte todo.
type TxRunner interface {
	RunOrg(ctx context.Context, fn func(
		estRepo repository.EstablishmentRepository,
		depRepo repository.DependencyRepository,
	) error) error
	RunPurge(ctx context.Context, fn func(purgeRepo repository.PurgeRepository) error) error
}
