package rut_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/activos-cl/patrimonio-api/pkg/rut"
)

// Normaliza los formatos de entrada habituales al canónico sin puntos.
func TestNormalize_FormatosAceptados(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"con puntos y guión", "12.345.678-5", "12345678-5"},
		{"sin puntos con guión", "12345678-5", "12345678-5"},
		{"sin separadores", "123456785", "12345678-5"},
		{"DV uno", "11111111-1", "11111111-1"},
		{"DV K minúscula", "11111112-k", "11111112-K"},
		{"con espacios alrededor", "  12345678-5  ", "12345678-5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := rut.Normalize(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// El RUT es opcional: vacío pasa sin error y queda vacío.
func TestNormalize_VacioEsValido(t *testing.T) {
	got, err := rut.Normalize("")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = rut.Normalize("   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNormalize_Rechazos(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"dígito verificador incorrecto", "12345678-9"},
		{"carácter inválido", "12345678-X"},
		{"letra en el cuerpo", "12A45678-5"},
		{"K en el cuerpo", "12K45678-5"},
		{"demasiado corto", "5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rut.Normalize(tc.in)
			assert.Error(t, err)
		})
	}
}
