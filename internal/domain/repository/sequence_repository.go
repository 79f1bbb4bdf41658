package repository

// SequenceRepository define el puerto del contador de correlativos internos.
type SequenceRepository interface {
	// Next incrementa transaccionalmente el contador de la institución
	// (upsert: crea en 1 si no existe) y devuelve el nuevo valor.
	Next(institutionID string) (int, error)
	// Reseed fija el contador en un valor concreto (usado tras resolver una
	// colisión de correlativo con max+1).
	Reseed(institutionID string, value int) error
}
