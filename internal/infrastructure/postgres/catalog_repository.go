package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lectura de catálogos cerrados sobre PostgreSQL (usable con
// pool o tx). Los catálogos se siembran por migraciones y no tienen escritura
// en runtime.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// GetAssetTypeByID obtiene un tipo de activo.
func (r *CatalogRepo) GetAssetTypeByID(id string) (*entity.AssetType, error) {
	var t entity.AssetType
	err := r.q.QueryRow(context.Background(), `SELECT id, name FROM asset_types WHERE id = $1`, id).Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get asset type: %w", err)
	}
	return &t, nil
}

// GetAssetStateByID obtiene un estado de activo.
func (r *CatalogRepo) GetAssetStateByID(id string) (*entity.AssetState, error) {
	var s entity.AssetState
	err := r.q.QueryRow(context.Background(), `SELECT id, code, name FROM asset_states WHERE id = $1`, id).Scan(&s.ID, &s.Code, &s.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get asset state: %w", err)
	}
	return &s, nil
}

// GetAssetStateByCode obtiene un estado por su código canónico (BUENO, BAJA, ...).
func (r *CatalogRepo) GetAssetStateByCode(code string) (*entity.AssetState, error) {
	var s entity.AssetState
	err := r.q.QueryRow(context.Background(), `SELECT id, code, name FROM asset_states WHERE code = $1`, code).Scan(&s.ID, &s.Code, &s.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get asset state by code: %w", err)
	}
	return &s, nil
}

// GetCatalogItemByID obtiene una entrada del catálogo institucional de bienes.
func (r *CatalogRepo) GetCatalogItemByID(id string) (*entity.CatalogItem, error) {
	var c entity.CatalogItem
	err := r.q.QueryRow(context.Background(), `SELECT id, name, sku FROM catalog_items WHERE id = $1`, id).Scan(&c.ID, &c.Name, &c.SKU)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog item: %w", err)
	}
	return &c, nil
}

// ListAssetTypes lista los tipos de activo.
func (r *CatalogRepo) ListAssetTypes() ([]*entity.AssetType, error) {
	rows, err := r.q.Query(context.Background(), `SELECT id, name FROM asset_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list asset types: %w", err)
	}
	defer rows.Close()
	var list []*entity.AssetType
	for rows.Next() {
		var t entity.AssetType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan asset type: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// ListAssetStates lista los estados de activo.
func (r *CatalogRepo) ListAssetStates() ([]*entity.AssetState, error) {
	rows, err := r.q.Query(context.Background(), `SELECT id, code, name FROM asset_states ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list asset states: %w", err)
	}
	defer rows.Close()
	var list []*entity.AssetState
	for rows.Next() {
		var s entity.AssetState
		if err := rows.Scan(&s.ID, &s.Code, &s.Name); err != nil {
			return nil, fmt.Errorf("scan asset state: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
