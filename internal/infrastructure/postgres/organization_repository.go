package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

var _ repository.InstitutionRepository = (*InstitutionRepo)(nil)
var _ repository.EstablishmentRepository = (*EstablishmentRepo)(nil)
var _ repository.DependencyRepository = (*DependencyRepo)(nil)

// InstitutionRepo implementación del puerto InstitutionRepository sobre
// PostgreSQL (usable con pool o tx).
type InstitutionRepo struct {
	q Querier
}

// NewInstitutionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInstitutionRepository(q Querier) *InstitutionRepo {
	return &InstitutionRepo{q: q}
}

// Create persiste una institución.
func (r *InstitutionRepo) Create(institution *entity.Institution) error {
	query := `
		INSERT INTO institutions (id, name, rut, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		institution.ID, institution.Name, institution.RUT, institution.IsActive,
		institution.CreatedAt, institution.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert institution: %w", err)
	}
	return nil
}

// GetByID obtiene una institución por ID.
func (r *InstitutionRepo) GetByID(id string) (*entity.Institution, error) {
	query := `SELECT id, name, rut, is_active, created_at, updated_at FROM institutions WHERE id = $1`
	var i entity.Institution
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&i.ID, &i.Name, &i.RUT, &i.IsActive, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get institution: %w", err)
	}
	return &i, nil
}

// List lista instituciones con paginación.
func (r *InstitutionRepo) List(limit, offset int) ([]*entity.Institution, error) {
	query := `
		SELECT id, name, rut, is_active, created_at, updated_at
		FROM institutions ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list institutions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Institution
	for rows.Next() {
		var i entity.Institution
		if err := rows.Scan(&i.ID, &i.Name, &i.RUT, &i.IsActive, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan institution: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}

// SetActive activa o desactiva la institución.
func (r *InstitutionRepo) SetActive(id string, active bool) error {
	query := `UPDATE institutions SET is_active = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, id, active, time.Now()); err != nil {
		return fmt.Errorf("set institution active: %w", err)
	}
	return nil
}

// CountActiveEstablishments cuenta establecimientos activos de la institución.
func (r *InstitutionRepo) CountActiveEstablishments(institutionID string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM establishments WHERE institution_id = $1 AND is_active = TRUE`
	if err := r.q.QueryRow(context.Background(), query, institutionID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active establishments: %w", err)
	}
	return n, nil
}

// EstablishmentRepo implementación del puerto EstablishmentRepository sobre
// PostgreSQL (usable con pool o tx).
type EstablishmentRepo struct {
	q Querier
}

// NewEstablishmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEstablishmentRepository(q Querier) *EstablishmentRepo {
	return &EstablishmentRepo{q: q}
}

// Create persiste un establecimiento.
func (r *EstablishmentRepo) Create(establishment *entity.Establishment) error {
	query := `
		INSERT INTO establishments (id, institution_id, name, address, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		establishment.ID, establishment.InstitutionID, establishment.Name, establishment.Address,
		establishment.IsActive, establishment.CreatedAt, establishment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert establishment: %w", err)
	}
	return nil
}

// GetByID obtiene un establecimiento por ID.
func (r *EstablishmentRepo) GetByID(id string) (*entity.Establishment, error) {
	query := `
		SELECT id, institution_id, name, address, is_active, created_at, updated_at
		FROM establishments WHERE id = $1`
	var e entity.Establishment
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.InstitutionID, &e.Name, &e.Address, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get establishment: %w", err)
	}
	return &e, nil
}

// ListByInstitution lista establecimientos de la institución.
func (r *EstablishmentRepo) ListByInstitution(institutionID string, limit, offset int) ([]*entity.Establishment, error) {
	query := `
		SELECT id, institution_id, name, address, is_active, created_at, updated_at
		FROM establishments WHERE institution_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, institutionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list establishments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Establishment
	for rows.Next() {
		var e entity.Establishment
		if err := rows.Scan(&e.ID, &e.InstitutionID, &e.Name, &e.Address, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan establishment: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// SetActive activa o desactiva el establecimiento.
func (r *EstablishmentRepo) SetActive(id string, active bool) error {
	query := `UPDATE establishments SET is_active = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, id, active, time.Now()); err != nil {
		return fmt.Errorf("set establishment active: %w", err)
	}
	return nil
}

// DependencyRepo implementación del puerto DependencyRepository sobre
// PostgreSQL (usable con pool o tx).
type DependencyRepo struct {
	q Querier
}

// NewDependencyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDependencyRepository(q Querier) *DependencyRepo {
	return &DependencyRepo{q: q}
}

// Create persiste una dependencia.
func (r *DependencyRepo) Create(dependency *entity.Dependency) error {
	query := `
		INSERT INTO dependencies (id, establishment_id, name, floor, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		dependency.ID, dependency.EstablishmentID, dependency.Name, dependency.Floor,
		dependency.IsActive, dependency.CreatedAt, dependency.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert dependency: %w", err)
	}
	return nil
}

// GetByID obtiene una dependencia por ID.
func (r *DependencyRepo) GetByID(id string) (*entity.Dependency, error) {
	query := `
		SELECT id, establishment_id, name, floor, is_active, created_at, updated_at
		FROM dependencies WHERE id = $1`
	var d entity.Dependency
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.EstablishmentID, &d.Name, &d.Floor, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dependency: %w", err)
	}
	return &d, nil
}

// ListByEstablishment lista dependencias del establecimiento.
func (r *DependencyRepo) ListByEstablishment(establishmentID string, limit, offset int) ([]*entity.Dependency, error) {
	query := `
		SELECT id, establishment_id, name, floor, is_active, created_at, updated_at
		FROM dependencies WHERE establishment_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, establishmentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list dependencies: %w", err)
	}
	defer rows.Close()
	return scanDependencies(rows)
}

// ListActiveByEstablishment lista solo las dependencias activas del
// establecimiento (para la desactivación en cascada).
func (r *DependencyRepo) ListActiveByEstablishment(establishmentID string) ([]*entity.Dependency, error) {
	query := `
		SELECT id, establishment_id, name, floor, is_active, created_at, updated_at
		FROM dependencies WHERE establishment_id = $1 AND is_active = TRUE ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, establishmentID)
	if err != nil {
		return nil, fmt.Errorf("list active dependencies: %w", err)
	}
	defer rows.Close()
	return scanDependencies(rows)
}

func scanDependencies(rows pgx.Rows) ([]*entity.Dependency, error) {
	var list []*entity.Dependency
	for rows.Next() {
		var d entity.Dependency
		if err := rows.Scan(&d.ID, &d.EstablishmentID, &d.Name, &d.Floor, &d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan dependency: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// SetActive activa o desactiva la dependencia.
func (r *DependencyRepo) SetActive(id string, active bool) error {
	query := `UPDATE dependencies SET is_active = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, id, active, time.Now()); err != nil {
		return fmt.Errorf("set dependency active: %w", err)
	}
	return nil
}
