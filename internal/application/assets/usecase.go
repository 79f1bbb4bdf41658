package assets

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/activos-cl/patrimonio-api/internal/application/rules"
	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

// LifecycleUseCase implementa la máquina de estados del ciclo de vida del
// activo: alta, actualización, reubicación, traslado, cambio de estado y
// restauración. Cada operación es una unidad transaccional que muta el
// activo, agrega exactamente un movimiento al libro y una entrada de
// auditoría (más la evidencia cuando la transición la exige).
type LifecycleUseCase struct {
	txRunner     TxRunner
	assetRepo    repository.AssetRepository
	movRepo      repository.MovementRepository
	evidenceRepo repository.EvidenceRepository
	catalogRepo  repository.CatalogRepository
	estRepo      repository.EstablishmentRepository
	depRepo      repository.DependencyRepository
	validator    *rules.Validator
}

// NewLifecycleUseCase construye el caso de uso.
func NewLifecycleUseCase(
	txRunner TxRunner,
	assetRepo repository.AssetRepository,
	movRepo repository.MovementRepository,
	evidenceRepo repository.EvidenceRepository,
	catalogRepo repository.CatalogRepository,
	estRepo repository.EstablishmentRepository,
	depRepo repository.DependencyRepository,
	validator *rules.Validator,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		txRunner:     txRunner,
		assetRepo:    assetRepo,
		movRepo:      movRepo,
		evidenceRepo: evidenceRepo,
		catalogRepo:  catalogRepo,
		estRepo:      estRepo,
		depRepo:      depRepo,
		validator:    validator,
	}
}

// Result es el resultado de toda operación de ciclo de vida: el activo
// actualizado y el id del movimiento emitido, para que el caller pueda
// adjuntar evidencia adicional de inmediato si no vino en línea.
type Result struct {
	Asset      *entity.Asset
	MovementID string
}

// CreateAssetInput entrada para el alta de un activo.
type CreateAssetInput struct {
	Name             string
	Quantity         int
	Brand            string
	Model            string
	SerialNumber     string
	AccountingCode   string
	AnalyticCode     string
	CostCenter       string
	ResponsibleName  string
	ResponsibleRUT   string
	ResponsibleRole  string
	AcquisitionValue decimal.Decimal
	AcquisitionDate  time.Time
	AssetTypeID      string
	AssetStateID     string
	EstablishmentID  string
	DependencyID     string
	CatalogItemID    *string
}

// UpdateAssetInput entrada para la edición de campos de un activo. Los
// punteros nil dejan el campo sin tocar.
type UpdateAssetInput struct {
	Name             *string
	Quantity         *int
	Brand            *string
	Model            *string
	SerialNumber     *string
	AccountingCode   *string
	AnalyticCode     *string
	CostCenter       *string
	ResponsibleName  *string
	ResponsibleRUT   *string
	ResponsibleRole  *string
	AcquisitionValue *decimal.Decimal
	AcquisitionDate  *time.Time
	AssetTypeID      *string
	CatalogItemID    *string
}

// RelocateInput reubicación dentro del mismo establecimiento.
type RelocateInput struct {
	ToDependencyID string
}

// TransferInput traslado entre establecimientos de la misma institución.
type TransferInput struct {
	ToEstablishmentID string
	ToDependencyID    string
	ReasonCode        *string
}

// ChangeStatusInput cambio de estado de conservación.
type ChangeStatusInput struct {
	AssetStateID string
	ReasonCode   *string
}

// RestoreInput restauración de un activo dado de baja. AssetStateID vacío
// aplica el estado canónico BUENO.
type RestoreInput struct {
	AssetStateID string
	ReasonCode   *string
}
