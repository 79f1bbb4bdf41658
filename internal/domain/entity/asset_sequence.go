package entity

import "time"

// AssetSequence guarda el último correlativo interno asignado por institución.
// Es el único contador mutable compartido del sistema; bajo creación
// concurrente es fuente de contención y se protege con retry optimista, no
// con lock (los huecos en la numeración son aceptables, los duplicados no).
type AssetSequence struct {
	InstitutionID string
	LastNumber    int
	UpdatedAt     time.Time
}
