package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

var _ repository.EvidenceRepository = (*EvidenceRepo)(nil)

// EvidenceRepo implementación del puerto EvidenceRepository sobre PostgreSQL
// (usable con pool o tx). El contenido binario vive en la misma fila; los
// listados nunca lo cargan.
type EvidenceRepo struct {
	q Querier
}

// NewEvidenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEvidenceRepository(q Querier) *EvidenceRepo {
	return &EvidenceRepo{q: q}
}

// Create persiste una evidencia con su contenido.
func (r *EvidenceRepo) Create(evidence *entity.AssetEvidence) error {
	query := `
		INSERT INTO asset_evidences (id, asset_id, movement_id, doc_type, mime_type, file_name, size_bytes, content, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		evidence.ID, evidence.AssetID, evidence.MovementID, evidence.DocType,
		evidence.MimeType, evidence.FileName, evidence.SizeBytes, evidence.Content,
		evidence.UploadedBy, evidence.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert evidence: %w", err)
	}
	return nil
}

// GetByID obtiene una evidencia con su contenido.
func (r *EvidenceRepo) GetByID(id string) (*entity.AssetEvidence, error) {
	query := `
		SELECT id, asset_id, movement_id, doc_type, mime_type, file_name, size_bytes, content, uploaded_by, created_at
		FROM asset_evidences WHERE id = $1`
	var e entity.AssetEvidence
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.AssetID, &e.MovementID, &e.DocType, &e.MimeType,
		&e.FileName, &e.SizeBytes, &e.Content, &e.UploadedBy, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get evidence: %w", err)
	}
	return &e, nil
}

// ListByAsset lista los metadatos de evidencia de un activo (sin contenido).
func (r *EvidenceRepo) ListByAsset(assetID string) ([]*entity.AssetEvidence, error) {
	query := `
		SELECT id, asset_id, movement_id, doc_type, mime_type, file_name, size_bytes, uploaded_by, created_at
		FROM asset_evidences WHERE asset_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, assetID)
	if err != nil {
		return nil, fmt.Errorf("list evidence by asset: %w", err)
	}
	defer rows.Close()
	var list []*entity.AssetEvidence
	for rows.Next() {
		var e entity.AssetEvidence
		if err := rows.Scan(&e.ID, &e.AssetID, &e.MovementID, &e.DocType, &e.MimeType,
			&e.FileName, &e.SizeBytes, &e.UploadedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan evidence: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
