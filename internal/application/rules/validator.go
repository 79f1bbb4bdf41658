package rules

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/activos-cl/patrimonio-api/internal/domain"
	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
	"github.com/activos-cl/patrimonio-api/pkg/rut"
)

// Limits topes configurables para la validación de campos de activo.
type Limits struct {
	ValueCeiling decimal.Decimal
	MaxNameLen   int
	MaxFieldLen  int
}

// Validator aplica las reglas de identidad de activos: topes de valor, fecha
// no futura, largos de texto y normalización de RUT. Sin estado mutable.
type Validator struct {
	limits Limits
	now    func() time.Time
}

// NewValidator construye el validador con los topes de configuración.
func NewValidator(limits Limits) *Validator {
	return &Validator{limits: limits, now: time.Now}
}

// ValidateAcquisition verifica valor en (0, tope] y fecha no futura.
func (v *Validator) ValidateAcquisition(value decimal.Decimal, date time.Time) error {
	if !value.GreaterThan(decimal.Zero) {
		return domain.NewValidation("ASSET_VALUE_OUT_OF_RANGE", "el valor de adquisición debe ser mayor que cero")
	}
	if value.GreaterThan(v.limits.ValueCeiling) {
		return domain.NewValidation("ASSET_VALUE_OUT_OF_RANGE",
			fmt.Sprintf("el valor de adquisición supera el tope configurado (%s)", v.limits.ValueCeiling.String()))
	}
	if date.After(v.now()) {
		return domain.NewValidation("ASSET_ACQUISITION_DATE_FUTURE", "la fecha de adquisición no puede ser futura")
	}
	return nil
}

// ValidateLengths verifica los largos máximos de los campos de texto.
func (v *Validator) ValidateLengths(a *entity.Asset) error {
	if a.Name == "" {
		return domain.NewValidation("ASSET_NAME_REQUIRED", "el nombre del activo es obligatorio")
	}
	if len(a.Name) > v.limits.MaxNameLen {
		return domain.NewValidation("FIELD_TOO_LONG", "nombre demasiado largo").
			WithDetails(map[string]any{"field": "name", "max": v.limits.MaxNameLen})
	}
	for field, value := range map[string]string{
		"brand":           a.Brand,
		"model":           a.Model,
		"serialNumber":    a.SerialNumber,
		"accountingCode":  a.AccountingCode,
		"analyticCode":    a.AnalyticCode,
		"costCenter":      a.CostCenter,
		"responsibleName": a.ResponsibleName,
		"responsibleRole": a.ResponsibleRole,
	} {
		if len(value) > v.limits.MaxFieldLen {
			return domain.NewValidation("FIELD_TOO_LONG", "campo demasiado largo").
				WithDetails(map[string]any{"field": field, "max": v.limits.MaxFieldLen})
		}
	}
	if a.Quantity <= 0 {
		return domain.NewValidation("ASSET_QUANTITY_INVALID", "la cantidad debe ser mayor que cero")
	}
	return nil
}

// NormalizeRUT normaliza el RUT del responsable al formato 12345678-9.
// Vacío devuelve "" sin error; mal formado devuelve error de validación.
func (v *Validator) NormalizeRUT(raw string) (string, error) {
	normalized, err := rut.Normalize(raw)
	if err != nil {
		return "", domain.NewValidation("INVALID_RUT", err.Error())
	}
	return normalized, nil
}

// EnsureUniqueAssetIdentity aplica la regla de unicidad sobre la tríada
// serie+marca+modelo entre activos vigentes. Tríadas incompletas se toleran
// (no se puede deduplicar con confianza); una tríada completa duplicada es un
// conflicto. excludeID excluye al propio activo en actualizaciones.
func EnsureUniqueAssetIdentity(repo repository.AssetRepository, institutionID, serial, brand, model, excludeID string) error {
	if serial == "" || brand == "" || model == "" {
		return nil
	}
	existing, err := repo.FindActiveByIdentity(institutionID, serial, brand, model, excludeID)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.NewConflict("ASSET_IDENTITY_DUPLICATE",
			"ya existe un activo vigente con la misma serie, marca y modelo").
			WithDetails(map[string]any{"existingAssetId": existing.ID, "internalCode": existing.InternalCode})
	}
	return nil
}
