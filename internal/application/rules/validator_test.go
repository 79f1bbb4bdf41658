package rules_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/activos-cl/patrimonio-api/internal/application/rules"
	"github.com/activos-cl/patrimonio-api/internal/domain"
	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
)

func newValidator() *rules.Validator {
	return rules.NewValidator(rules.Limits{
		ValueCeiling: decimal.NewFromInt(1_000_000_000),
		MaxNameLen:   200,
		MaxFieldLen:  100,
	})
}

func validAsset() *entity.Asset {
	return &entity.Asset{
		Name:     "Notebook docente",
		Quantity: 1,
		Brand:    "Lenovo",
		Model:    "ThinkPad T14",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Valor y fecha de adquisición
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateAcquisition_ValorYFechaValidos(t *testing.T) {
	v := newValidator()
	err := v.ValidateAcquisition(decimal.NewFromInt(450_000), time.Now().AddDate(-1, 0, 0))
	assert.NoError(t, err)
}

func TestValidateAcquisition_ValorCero_Rechazado(t *testing.T) {
	v := newValidator()
	err := v.ValidateAcquisition(decimal.Zero, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, "ASSET_VALUE_OUT_OF_RANGE", domain.CodeOf(err))
}

func TestValidateAcquisition_ValorNegativo_Rechazado(t *testing.T) {
	v := newValidator()
	err := v.ValidateAcquisition(decimal.NewFromInt(-100), time.Now())
	assert.Equal(t, "ASSET_VALUE_OUT_OF_RANGE", domain.CodeOf(err))
}

func TestValidateAcquisition_ValorSobreTope_Rechazado(t *testing.T) {
	v := newValidator()
	err := v.ValidateAcquisition(decimal.NewFromInt(1_000_000_001), time.Now())
	assert.Equal(t, "ASSET_VALUE_OUT_OF_RANGE", domain.CodeOf(err))
}

// El tope es inclusivo: el valor exactamente igual al tope es válido.
func TestValidateAcquisition_ValorIgualAlTope_Valido(t *testing.T) {
	v := newValidator()
	err := v.ValidateAcquisition(decimal.NewFromInt(1_000_000_000), time.Now().AddDate(0, -1, 0))
	assert.NoError(t, err)
}

func TestValidateAcquisition_FechaFutura_Rechazada(t *testing.T) {
	v := newValidator()
	err := v.ValidateAcquisition(decimal.NewFromInt(100), time.Now().AddDate(0, 0, 2))
	assert.Equal(t, "ASSET_ACQUISITION_DATE_FUTURE", domain.CodeOf(err))
}

// ──────────────────────────────────────────────────────────────────────────────
// Largos de campos
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateLengths_ActivoValido(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.ValidateLengths(validAsset()))
}

func TestValidateLengths_NombreVacio_Rechazado(t *testing.T) {
	v := newValidator()
	a := validAsset()
	a.Name = ""
	assert.Equal(t, "ASSET_NAME_REQUIRED", domain.CodeOf(v.ValidateLengths(a)))
}

func TestValidateLengths_NombreDemasiadoLargo(t *testing.T) {
	v := newValidator()
	a := validAsset()
	a.Name = strings.Repeat("x", 201)
	err := v.ValidateLengths(a)
	assert.Equal(t, "FIELD_TOO_LONG", domain.CodeOf(err))
}

func TestValidateLengths_MarcaDemasiadoLarga_IndicaCampo(t *testing.T) {
	v := newValidator()
	a := validAsset()
	a.Brand = strings.Repeat("x", 101)
	err := v.ValidateLengths(a)
	require.Equal(t, "FIELD_TOO_LONG", domain.CodeOf(err))

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "brand", de.Details["field"])
}

func TestValidateLengths_CantidadCero_Rechazada(t *testing.T) {
	v := newValidator()
	a := validAsset()
	a.Quantity = 0
	assert.Equal(t, "ASSET_QUANTITY_INVALID", domain.CodeOf(v.ValidateLengths(a)))
}

// ──────────────────────────────────────────────────────────────────────────────
// RUT del responsable
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeRUT_Valido(t *testing.T) {
	v := newValidator()
	got, err := v.NormalizeRUT("12.345.678-5")
	require.NoError(t, err)
	assert.Equal(t, "12345678-5", got)
}

func TestNormalizeRUT_Vacio_EsOpcional(t *testing.T) {
	v := newValidator()
	got, err := v.NormalizeRUT("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNormalizeRUT_Invalido_ErrorDeValidacion(t *testing.T) {
	v := newValidator()
	_, err := v.NormalizeRUT("12345678-9")
	assert.Equal(t, "INVALID_RUT", domain.CodeOf(err))
}
