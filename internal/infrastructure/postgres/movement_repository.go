package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Solo INSERT y SELECT: las filas son inmutables.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, asset_id, type, reason_code, from_dependency_id, to_dependency_id, user_id, created_at`

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(&m.ID, &m.AssetID, &m.Type, &m.ReasonCode, &m.FromDependencyID, &m.ToDependencyID, &m.UserID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste una fila del libro de movimientos.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.AssetID, movement.Type, movement.ReasonCode,
		movement.FromDependencyID, movement.ToDependencyID, movement.UserID, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByAsset lista la historia de movimientos de un activo, más reciente primero.
func (r *MovementRepo) ListByAsset(assetID string, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements WHERE asset_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, assetID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by asset: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// List lista movimientos según el filtro. El filtro por establecimiento se
// resuelve contra la ubicación actual del activo.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT m.id, m.asset_id, m.type, m.reason_code, m.from_dependency_id, m.to_dependency_id, m.user_id, m.created_at
		FROM movements m
		JOIN assets a ON a.id = m.asset_id
		WHERE 1=1`)
	var args []any
	pos := 1

	if filter.InstitutionID != "" {
		sb.WriteString(fmt.Sprintf(` AND a.institution_id = $%d`, pos))
		args = append(args, filter.InstitutionID)
		pos++
	}
	if filter.AssetID != "" {
		sb.WriteString(fmt.Sprintf(` AND m.asset_id = $%d`, pos))
		args = append(args, filter.AssetID)
		pos++
	}
	if filter.EstablishmentID != "" {
		sb.WriteString(fmt.Sprintf(` AND a.establishment_id = $%d`, pos))
		args = append(args, filter.EstablishmentID)
		pos++
	}
	if filter.Type != "" {
		sb.WriteString(fmt.Sprintf(` AND m.type = $%d`, pos))
		args = append(args, filter.Type)
		pos++
	}
	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(` AND m.created_at >= $%d`, pos))
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(` AND m.created_at <= $%d`, pos))
		args = append(args, *filter.To)
		pos++
	}
	sb.WriteString(fmt.Sprintf(` ORDER BY m.created_at DESC LIMIT $%d OFFSET $%d`, pos, pos+1))
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
