package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lifecycle es la vista de ciclo de vida del activo. El par (IsDeleted,
// AssetStateID) persiste como boolean+FK, pero internamente se razona como
// variante etiquetada para que la tabla de transiciones sea exhaustiva.
type Lifecycle int

const (
	LifecycleActive Lifecycle = iota
	LifecycleDecommissioned
)

// Asset representa un bien físico inventariable (mobiliario, equipamiento)
// bajo custodia de una dependencia. La fila de Asset es la fuente de verdad
// de la ubicación y estado actual; Movement y AssetAudit son registros
// derivados que le pertenecen.
type Asset struct {
	ID            string
	InstitutionID string
	InternalCode  int // único por institución, asignado por AssetSequence

	Name         string
	Quantity     int
	Brand        string
	Model        string
	SerialNumber string // opcional; junto a Brand+Model forma la identidad única entre activos vigentes

	AccountingCode string
	AnalyticCode   string
	CostCenter     string

	ResponsibleName string
	ResponsibleRUT  string // normalizado 12345678-9
	ResponsibleRole string

	AcquisitionValue decimal.Decimal
	AcquisitionDate  time.Time

	AssetTypeID     string
	AssetStateID    string
	EstablishmentID string
	DependencyID    string // invariante: la dependencia pertenece al establecimiento
	CatalogItemID   *string

	IsDeleted bool
	DeletedAt *time.Time
	DeletedBy *string

	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
}

// Lifecycle devuelve la variante de ciclo de vida actual.
func (a *Asset) Lifecycle() Lifecycle {
	if a.IsDeleted {
		return LifecycleDecommissioned
	}
	return LifecycleActive
}

// HasCompleteIdentity indica si el activo tiene la tríada serie+marca+modelo
// completa (solo entonces puede deduplicarse con confianza).
func (a *Asset) HasCompleteIdentity() bool {
	return a.SerialNumber != "" && a.Brand != "" && a.Model != ""
}
