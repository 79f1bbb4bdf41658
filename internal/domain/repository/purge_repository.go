package repository

// PurgeRepository define primitivas genéricas para el plan de borrado físico.
// El grafo de dependencias (qué tabla cuelga de cuál) vive en la capa de
// aplicación; aquí solo se recolectan ids hijos y se borran filas por id.
type PurgeRepository interface {
	// CollectChildIDs devuelve los ids de `table` cuya columna `fkColumn`
	// referencia alguno de parentIDs. parentIDs vacío devuelve vacío.
	CollectChildIDs(table, fkColumn string, parentIDs []string) ([]string, error)
	// DeleteByIDs borra las filas de `table` con esos ids y devuelve cuántas
	// filas se eliminaron. Debe ejecutarse dentro de la transacción de purga.
	DeleteByIDs(table string, ids []string) (int, error)
}
