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

var _ repository.AssetRepository = (*AssetRepo)(nil)

// AssetRepo implementación del puerto AssetRepository sobre PostgreSQL
// (usable con pool o tx).
type AssetRepo struct {
	q Querier
}

// NewAssetRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAssetRepository(q Querier) *AssetRepo {
	return &AssetRepo{q: q}
}

const assetColumns = `
	id, institution_id, internal_code, name, quantity, brand, model, serial_number,
	accounting_code, analytic_code, cost_center,
	responsible_name, responsible_rut, responsible_role,
	acquisition_value, acquisition_date,
	asset_type_id, asset_state_id, establishment_id, dependency_id, catalog_item_id,
	is_deleted, deleted_at, deleted_by, created_at, updated_at, created_by`

func scanAsset(row pgx.Row) (*entity.Asset, error) {
	var a entity.Asset
	err := row.Scan(
		&a.ID, &a.InstitutionID, &a.InternalCode, &a.Name, &a.Quantity,
		&a.Brand, &a.Model, &a.SerialNumber,
		&a.AccountingCode, &a.AnalyticCode, &a.CostCenter,
		&a.ResponsibleName, &a.ResponsibleRUT, &a.ResponsibleRole,
		&a.AcquisitionValue, &a.AcquisitionDate,
		&a.AssetTypeID, &a.AssetStateID, &a.EstablishmentID, &a.DependencyID, &a.CatalogItemID,
		&a.IsDeleted, &a.DeletedAt, &a.DeletedBy, &a.CreatedAt, &a.UpdatedAt, &a.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste un nuevo activo. Las violaciones 23505 se traducen al error
// de dominio del constraint golpeado (correlativo o tríada de identidad).
func (r *AssetRepo) Create(asset *entity.Asset) error {
	query := `
		INSERT INTO assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`
	_, err := r.q.Exec(context.Background(), query,
		asset.ID, asset.InstitutionID, asset.InternalCode, asset.Name, asset.Quantity,
		asset.Brand, asset.Model, asset.SerialNumber,
		asset.AccountingCode, asset.AnalyticCode, asset.CostCenter,
		asset.ResponsibleName, asset.ResponsibleRUT, asset.ResponsibleRole,
		asset.AcquisitionValue, asset.AcquisitionDate,
		asset.AssetTypeID, asset.AssetStateID, asset.EstablishmentID, asset.DependencyID, asset.CatalogItemID,
		asset.IsDeleted, asset.DeletedAt, asset.DeletedBy, asset.CreatedAt, asset.UpdatedAt, asset.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return mapAssetUniqueViolation(err)
		}
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

// GetByID obtiene un activo por ID (incluye dados de baja).
func (r *AssetRepo) GetByID(id string) (*entity.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`
	a, err := scanAsset(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get asset by id: %w", err)
	}
	return a, nil
}

// Update actualiza todos los campos mutables del activo.
func (r *AssetRepo) Update(asset *entity.Asset) error {
	query := `
		UPDATE assets SET
			name = $2, quantity = $3, brand = $4, model = $5, serial_number = $6,
			accounting_code = $7, analytic_code = $8, cost_center = $9,
			responsible_name = $10, responsible_rut = $11, responsible_role = $12,
			acquisition_value = $13, acquisition_date = $14,
			asset_type_id = $15, asset_state_id = $16,
			establishment_id = $17, dependency_id = $18, catalog_item_id = $19,
			is_deleted = $20, deleted_at = $21, deleted_by = $22, updated_at = $23
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		asset.ID,
		asset.Name, asset.Quantity, asset.Brand, asset.Model, asset.SerialNumber,
		asset.AccountingCode, asset.AnalyticCode, asset.CostCenter,
		asset.ResponsibleName, asset.ResponsibleRUT, asset.ResponsibleRole,
		asset.AcquisitionValue, asset.AcquisitionDate,
		asset.AssetTypeID, asset.AssetStateID,
		asset.EstablishmentID, asset.DependencyID, asset.CatalogItemID,
		asset.IsDeleted, asset.DeletedAt, asset.DeletedBy, asset.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return mapAssetUniqueViolation(err)
		}
		return fmt.Errorf("update asset: %w", err)
	}
	return nil
}

// FindActiveByIdentity busca otro activo vigente con la misma tríada
// serie+marca+modelo (case-insensitive) en la institución.
func (r *AssetRepo) FindActiveByIdentity(institutionID, serial, brand, model, excludeID string) (*entity.Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE institution_id = $1
		  AND is_deleted = FALSE
		  AND lower(serial_number) = lower($2)
		  AND lower(brand) = lower($3)
		  AND lower(model) = lower($4)
		  AND id <> $5
		LIMIT 1`
	a, err := scanAsset(r.q.QueryRow(context.Background(), query, institutionID, serial, brand, model, excludeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find asset by identity: %w", err)
	}
	return a, nil
}

// MaxInternalCode devuelve el mayor correlativo ya usado en la institución (0 si ninguno).
func (r *AssetRepo) MaxInternalCode(institutionID string) (int, error) {
	var max int
	query := `SELECT COALESCE(MAX(internal_code), 0) FROM assets WHERE institution_id = $1`
	if err := r.q.QueryRow(context.Background(), query, institutionID).Scan(&max); err != nil {
		return 0, fmt.Errorf("max internal code: %w", err)
	}
	return max, nil
}

// List lista activos según el filtro. Search se asume ya normalizado y se
// compara contra la versión en minúsculas sin tildes de nombre, marca,
// modelo y serie.
func (r *AssetRepo) List(filter repository.AssetFilter) ([]*entity.Asset, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + assetColumns + ` FROM assets WHERE institution_id = $1`)
	args := []any{filter.InstitutionID}
	pos := 2

	if !filter.IncludeDeleted {
		sb.WriteString(` AND is_deleted = FALSE`)
	}
	if filter.EstablishmentID != "" {
		sb.WriteString(fmt.Sprintf(` AND establishment_id = $%d`, pos))
		args = append(args, filter.EstablishmentID)
		pos++
	}
	if filter.DependencyID != "" {
		sb.WriteString(fmt.Sprintf(` AND dependency_id = $%d`, pos))
		args = append(args, filter.DependencyID)
		pos++
	}
	if filter.AssetStateID != "" {
		sb.WriteString(fmt.Sprintf(` AND asset_state_id = $%d`, pos))
		args = append(args, filter.AssetStateID)
		pos++
	}
	if filter.Search != "" {
		sb.WriteString(fmt.Sprintf(
			` AND (immutable_unaccent(lower(name)) LIKE '%%' || $%d || '%%'
			   OR immutable_unaccent(lower(brand)) LIKE '%%' || $%d || '%%'
			   OR immutable_unaccent(lower(model)) LIKE '%%' || $%d || '%%'
			   OR lower(serial_number) LIKE '%%' || $%d || '%%')`, pos, pos, pos, pos))
		args = append(args, filter.Search)
		pos++
	}
	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(` AND acquisition_date >= $%d`, pos))
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(` AND acquisition_date <= $%d`, pos))
		args = append(args, *filter.To)
		pos++
	}
	sb.WriteString(fmt.Sprintf(` ORDER BY internal_code LIMIT $%d OFFSET $%d`, pos, pos+1))
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()
	var list []*entity.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// CountActiveByEstablishment cuenta activos vigentes del establecimiento.
func (r *AssetRepo) CountActiveByEstablishment(establishmentID string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM assets WHERE establishment_id = $1 AND is_deleted = FALSE`
	if err := r.q.QueryRow(context.Background(), query, establishmentID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count assets by establishment: %w", err)
	}
	return n, nil
}

// CountActiveByDependency cuenta activos vigentes custodiados por la dependencia.
func (r *AssetRepo) CountActiveByDependency(dependencyID string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM assets WHERE dependency_id = $1 AND is_deleted = FALSE`
	if err := r.q.QueryRow(context.Background(), query, dependencyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count assets by dependency: %w", err)
	}
	return n, nil
}
