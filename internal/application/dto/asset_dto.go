package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
)

// CreateAssetRequest body (parte JSON del multipart) para POST /api/assets.
type CreateAssetRequest struct {
	Name             string          `json:"name" validate:"required,min=1,max=200"`
	Quantity         int             `json:"quantity" validate:"required,min=1"`
	Brand            string          `json:"brand,omitempty"`
	Model            string          `json:"model,omitempty"`
	SerialNumber     string          `json:"serial_number,omitempty"`
	AccountingCode   string          `json:"accounting_code,omitempty"`
	AnalyticCode     string          `json:"analytic_code,omitempty"`
	CostCenter       string          `json:"cost_center,omitempty"`
	ResponsibleName  string          `json:"responsible_name,omitempty"`
	ResponsibleRUT   string          `json:"responsible_rut,omitempty"`
	ResponsibleRole  string          `json:"responsible_role,omitempty"`
	AcquisitionValue decimal.Decimal `json:"acquisition_value"`
	AcquisitionDate  string          `json:"acquisition_date" validate:"required"` // YYYY-MM-DD
	AssetTypeID      string          `json:"asset_type_id" validate:"required,uuid"`
	AssetStateID     string          `json:"asset_state_id" validate:"required,uuid"`
	EstablishmentID  string          `json:"establishment_id" validate:"required,uuid"`
	DependencyID     string          `json:"dependency_id" validate:"required,uuid"`
	CatalogItemID    *string         `json:"catalog_item_id,omitempty" validate:"omitempty,uuid"`
}

// UpdateAssetRequest body para PUT /api/assets/:id. Campos nil no se tocan.
type UpdateAssetRequest struct {
	Name             *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Quantity         *int             `json:"quantity,omitempty" validate:"omitempty,min=1"`
	Brand            *string          `json:"brand,omitempty"`
	Model            *string          `json:"model,omitempty"`
	SerialNumber     *string          `json:"serial_number,omitempty"`
	AccountingCode   *string          `json:"accounting_code,omitempty"`
	AnalyticCode     *string          `json:"analytic_code,omitempty"`
	CostCenter       *string          `json:"cost_center,omitempty"`
	ResponsibleName  *string          `json:"responsible_name,omitempty"`
	ResponsibleRUT   *string          `json:"responsible_rut,omitempty"`
	ResponsibleRole  *string          `json:"responsible_role,omitempty"`
	AcquisitionValue *decimal.Decimal `json:"acquisition_value,omitempty"`
	AcquisitionDate  *string          `json:"acquisition_date,omitempty"` // YYYY-MM-DD
	AssetTypeID      *string          `json:"asset_type_id,omitempty" validate:"omitempty,uuid"`
	CatalogItemID    *string          `json:"catalog_item_id,omitempty" validate:"omitempty,uuid"`
}

// RelocateAssetRequest body para POST /api/assets/:id/relocate.
type RelocateAssetRequest struct {
	ToDependencyID string `json:"to_dependency_id" validate:"required,uuid"`
}

// TransferAssetRequest parte JSON del multipart para POST /api/assets/:id/transfer.
type TransferAssetRequest struct {
	ToEstablishmentID string  `json:"to_establishment_id" validate:"required,uuid"`
	ToDependencyID    string  `json:"to_dependency_id" validate:"required,uuid"`
	ReasonCode        *string `json:"reason_code" validate:"required"`
}

// ChangeStatusRequest parte JSON del multipart para POST /api/assets/:id/status.
type ChangeStatusRequest struct {
	AssetStateID string  `json:"asset_state_id" validate:"required,uuid"`
	ReasonCode   *string `json:"reason_code,omitempty"`
}

// RestoreAssetRequest parte JSON del multipart para POST /api/assets/:id/restore.
type RestoreAssetRequest struct {
	AssetStateID string  `json:"asset_state_id,omitempty" validate:"omitempty,uuid"`
	ReasonCode   *string `json:"reason_code" validate:"required"`
}

// ListAssetsRequest query params para GET /api/assets.
type ListAssetsRequest struct {
	EstablishmentID string `query:"establishment_id"`
	DependencyID    string `query:"dependency_id"`
	AssetStateID    string `query:"asset_state_id"`
	IncludeDeleted  bool   `query:"include_deleted"`
	Search          string `query:"search"`
	From            string `query:"from"` // YYYY-MM-DD sobre fecha de adquisición
	To              string `query:"to"`
	PageRequest
}

// AssetResponse activo en respuestas.
type AssetResponse struct {
	ID               string          `json:"id"`
	InstitutionID    string          `json:"institution_id"`
	InternalCode     int             `json:"internal_code"`
	Name             string          `json:"name"`
	Quantity         int             `json:"quantity"`
	Brand            string          `json:"brand,omitempty"`
	Model            string          `json:"model,omitempty"`
	SerialNumber     string          `json:"serial_number,omitempty"`
	AccountingCode   string          `json:"accounting_code,omitempty"`
	AnalyticCode     string          `json:"analytic_code,omitempty"`
	CostCenter       string          `json:"cost_center,omitempty"`
	ResponsibleName  string          `json:"responsible_name,omitempty"`
	ResponsibleRUT   string          `json:"responsible_rut,omitempty"`
	ResponsibleRole  string          `json:"responsible_role,omitempty"`
	AcquisitionValue decimal.Decimal `json:"acquisition_value"`
	AcquisitionDate  string          `json:"acquisition_date"`
	AssetTypeID      string          `json:"asset_type_id"`
	AssetStateID     string          `json:"asset_state_id"`
	EstablishmentID  string          `json:"establishment_id"`
	DependencyID     string          `json:"dependency_id"`
	CatalogItemID    *string         `json:"catalog_item_id,omitempty"`
	IsDeleted        bool            `json:"is_deleted"`
	DeletedAt        *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// AssetOperationResponse resultado de una operación de ciclo de vida: el
// activo actualizado y el movimiento emitido.
type AssetOperationResponse struct {
	Asset      AssetResponse `json:"asset"`
	MovementID string        `json:"movement_id"`
}

// AssetListResponse lista paginada de activos.
type AssetListResponse struct {
	Items []AssetResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ToAssetResponse mapea la entidad a su representación HTTP.
func ToAssetResponse(a *entity.Asset) AssetResponse {
	return AssetResponse{
		ID:               a.ID,
		InstitutionID:    a.InstitutionID,
		InternalCode:     a.InternalCode,
		Name:             a.Name,
		Quantity:         a.Quantity,
		Brand:            a.Brand,
		Model:            a.Model,
		SerialNumber:     a.SerialNumber,
		AccountingCode:   a.AccountingCode,
		AnalyticCode:     a.AnalyticCode,
		CostCenter:       a.CostCenter,
		ResponsibleName:  a.ResponsibleName,
		ResponsibleRUT:   a.ResponsibleRUT,
		ResponsibleRole:  a.ResponsibleRole,
		AcquisitionValue: a.AcquisitionValue,
		AcquisitionDate:  a.AcquisitionDate.Format("2006-01-02"),
		AssetTypeID:      a.AssetTypeID,
		AssetStateID:     a.AssetStateID,
		EstablishmentID:  a.EstablishmentID,
		DependencyID:     a.DependencyID,
		CatalogItemID:    a.CatalogItemID,
		IsDeleted:        a.IsDeleted,
		DeletedAt:        a.DeletedAt,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}
