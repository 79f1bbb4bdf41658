package authz

// Actor es el usuario autenticado que ejecuta la operación, ya resuelto por
// la capa HTTP (claims del JWT). La lógica de alcance es puramente funcional
// sobre este valor.
type Actor struct {
	ID              string
	Role            string
	InstitutionID   string
	EstablishmentID *string // nil para ADMIN_CENTRAL
}
