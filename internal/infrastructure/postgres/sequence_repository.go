package postgres

import (
	"context"
	"fmt"

	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contador de correlativos internos por institución sobre
// PostgreSQL (usable con pool o tx). El upsert toma el row lock de la fila
// del contador, serializando las altas concurrentes de la misma institución.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa el contador de la institución y devuelve el nuevo valor.
// Si no existe fila, la crea partiendo de 1.
func (r *SequenceRepo) Next(institutionID string) (int, error) {
	query := `
		INSERT INTO asset_sequences (institution_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (institution_id)
		DO UPDATE SET last_number = asset_sequences.last_number + 1
		RETURNING last_number`
	var n int
	if err := r.q.QueryRow(context.Background(), query, institutionID).Scan(&n); err != nil {
		return 0, fmt.Errorf("next internal code: %w", err)
	}
	return n, nil
}

// Reseed fija el contador en un valor concreto (recuperación tras colisión).
func (r *SequenceRepo) Reseed(institutionID string, value int) error {
	query := `
		INSERT INTO asset_sequences (institution_id, last_number)
		VALUES ($1, $2)
		ON CONFLICT (institution_id)
		DO UPDATE SET last_number = EXCLUDED.last_number`
	if _, err := r.q.Exec(context.Background(), query, institutionID, value); err != nil {
		return fmt.Errorf("reseed internal code: %w", err)
	}
	return nil
}
