package entity

// Códigos canónicos de estado de activo (catálogo cerrado sembrado por migraciones).
const (
	AssetStateBueno   = "BUENO"
	AssetStateRegular = "REGULAR"
	AssetStateMalo    = "MALO"
	AssetStateBaja    = "BAJA" // estado terminal: activo dado de baja
)

// AssetType clasifica el activo (mobiliario, equipamiento, etc.).
type AssetType struct {
	ID   string
	Name string
}

// AssetState es el estado de conservación del activo. Code es el código
// canónico (BUENO, REGULAR, MALO, BAJA).
type AssetState struct {
	ID   string
	Code string
	Name string
}

// CatalogItem es una entrada opcional del catálogo institucional de bienes al
// que puede asociarse un activo.
type CatalogItem struct {
	ID   string
	Name string
	SKU  string
}
