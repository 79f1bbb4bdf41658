package rules

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer descompone, elimina marcas diacríticas y recompone.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold normaliza texto para comparación y búsqueda: minúsculas y sin tildes
// ("Máquina de Café" -> "maquina de cafe"). Si la transformación falla se
// devuelve el texto en minúsculas sin más.
func Fold(s string) string {
	lowered := strings.ToLower(strings.TrimSpace(s))
	out, _, err := transform.String(foldTransformer, lowered)
	if err != nil {
		return lowered
	}
	return out
}
