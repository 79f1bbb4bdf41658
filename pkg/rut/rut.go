package rut

import (
	"fmt"
	"strings"
	"unicode"
)

// Normalize normaliza un RUT chileno al formato canónico "12345678-9"
// (sin puntos, dígito verificador en mayúscula) y valida el dígito
// verificador con el algoritmo módulo 11. Acepta "12.345.678-9",
// "12345678-9" o "123456789". Un RUT vacío devuelve "" sin error (campo
// opcional); un RUT mal formado y no vacío devuelve error.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	var digits []byte
	var dv byte
	for _, r := range trimmed {
		switch {
		case unicode.IsDigit(r):
			digits = append(digits, byte(r))
		case r == 'k' || r == 'K':
			digits = append(digits, 'K')
		case r == '.' || r == '-' || r == ' ':
			// separadores admitidos
		default:
			return "", fmt.Errorf("rut: carácter inválido %q en %q", r, raw)
		}
	}
	if len(digits) < 2 {
		return "", fmt.Errorf("rut: demasiado corto: %q", raw)
	}
	dv = digits[len(digits)-1]
	body := digits[:len(digits)-1]
	for _, d := range body {
		if d == 'K' {
			return "", fmt.Errorf("rut: cuerpo con carácter K: %q", raw)
		}
	}
	if expected := computeDV(body); expected != dv {
		return "", fmt.Errorf("rut: dígito verificador inválido: esperado %c, recibido %c", expected, dv)
	}
	return fmt.Sprintf("%s-%c", body, dv), nil
}

// computeDV calcula el dígito verificador módulo 11 sobre el cuerpo del RUT.
// Los pesos 2..7 se aplican cíclicamente de derecha a izquierda.
func computeDV(body []byte) byte {
	sum := 0
	weight := 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	switch rem := 11 - sum%11; rem {
	case 11:
		return '0'
	case 10:
		return 'K'
	default:
		return byte('0' + rem)
	}
}
