package postgres

import (
	"context"
	"fmt"

	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación del rastro de auditoría sobre PostgreSQL (usable
// con pool o tx). Solo inserción y lectura.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create persiste una entrada de auditoría.
func (r *AuditRepo) Create(audit *entity.AssetAudit) error {
	query := `
		INSERT INTO asset_audits (id, asset_id, action, before_snapshot, after_snapshot, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		audit.ID, audit.AssetID, audit.Action, audit.Before, audit.After, audit.UserID, audit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListByAsset lista el rastro de un activo, más reciente primero.
func (r *AuditRepo) ListByAsset(assetID string, limit, offset int) ([]*entity.AssetAudit, error) {
	query := `
		SELECT id, asset_id, action, before_snapshot, after_snapshot, user_id, created_at
		FROM asset_audits WHERE asset_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, assetID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit by asset: %w", err)
	}
	defer rows.Close()
	var list []*entity.AssetAudit
	for rows.Next() {
		var a entity.AssetAudit
		if err := rows.Scan(&a.ID, &a.AssetID, &a.Action, &a.Before, &a.After, &a.UserID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
