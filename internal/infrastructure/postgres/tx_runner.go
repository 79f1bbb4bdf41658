package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/activos-cl/patrimonio-api/internal/application/assets"
	"github.com/activos-cl/patrimonio-api/internal/application/purge"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

// Ensure TxRunner implements assets.TxRunner and purge.TxRunner.
var _ assets.TxRunner = (*TxRunner)(nil)
var _ purge.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos del ciclo de vida del
// activo atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	assetRepo repository.AssetRepository,
	movRepo repository.MovementRepository,
	auditRepo repository.AuditRepository,
	evidenceRepo repository.EvidenceRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	assetRepo := NewAssetRepository(tx)
	movRepo := NewMovementRepository(tx)
	auditRepo := NewAuditRepository(tx)
	evidenceRepo := NewEvidenceRepository(tx)
	seqRepo := NewSequenceRepository(tx)

	if err := fn(assetRepo, movRepo, auditRepo, evidenceRepo, seqRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunOrg inicia una transacción con los repos organizacionales (para la
// desactivación en cascada de establecimiento y dependencias).
func (r *TxRunner) RunOrg(ctx context.Context, fn func(
	estRepo repository.EstablishmentRepository,
	depRepo repository.DependencyRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	estRepo := NewEstablishmentRepository(tx)
	depRepo := NewDependencyRepository(tx)

	if err := fn(estRepo, depRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunPurge inicia la transacción de purga física ordenada.
func (r *TxRunner) RunPurge(ctx context.Context, fn func(purgeRepo repository.PurgeRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewPurgeRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
