package postgres

import (
	"context"
	"fmt"

	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

var _ repository.PurgeRepository = (*PurgeRepo)(nil)

// allowedPurgeTargets lista cerrada de (tabla, columna) interpolables en las
// consultas de purga. Los nombres vienen del grafo de la capa de aplicación,
// nunca del caller HTTP, pero la lista cierra la puerta igual.
var allowedPurgeTargets = map[string]map[string]bool{
	"institutions":     {"id": true},
	"establishments":   {"id": true, "institution_id": true},
	"dependencies":     {"id": true, "establishment_id": true},
	"users":            {"id": true, "institution_id": true, "establishment_id": true},
	"asset_sequences":  {"id": true, "institution_id": true},
	"assets":           {"id": true, "establishment_id": true, "dependency_id": true},
	"movements":        {"id": true, "asset_id": true},
	"asset_evidences":  {"id": true, "asset_id": true},
	"asset_audits":     {"id": true, "asset_id": true},
	"refresh_tokens":   {"id": true, "user_id": true},
	"login_audits":     {"id": true, "user_id": true},
	"admin_audits":     {"id": true, "user_id": true},
	"user_photos":      {"id": true, "user_id": true},
	"import_batches":   {"id": true, "user_id": true},
	"support_requests": {"id": true, "user_id": true},
	"support_comments": {"id": true, "support_request_id": true},
}

func checkPurgeTarget(table, column string) error {
	cols, ok := allowedPurgeTargets[table]
	if !ok {
		return fmt.Errorf("tabla fuera del grafo de purga: %s", table)
	}
	if !cols[column] {
		return fmt.Errorf("columna fuera del grafo de purga: %s.%s", table, column)
	}
	return nil
}

// PurgeRepo primitivas de purga física sobre PostgreSQL. Debe usarse atado a
// la transacción de purga (Querier = pgx.Tx).
type PurgeRepo struct {
	q Querier
}

// NewPurgeRepository construye el adaptador. Pasar la tx de purga.
func NewPurgeRepository(q Querier) *PurgeRepo {
	return &PurgeRepo{q: q}
}

// CollectChildIDs devuelve los ids de `table` cuya columna `fkColumn`
// referencia alguno de parentIDs.
func (r *PurgeRepo) CollectChildIDs(table, fkColumn string, parentIDs []string) ([]string, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	if err := checkPurgeTarget(table, fkColumn); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id FROM %s WHERE %s = ANY($1)`, table, fkColumn)
	rows, err := r.q.Query(context.Background(), query, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("collect %s by %s: %w", table, fkColumn, err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s id: %w", table, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteByIDs borra las filas de `table` con esos ids y devuelve cuántas se
// eliminaron.
func (r *PurgeRepo) DeleteByIDs(table string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if err := checkPurgeTarget(table, "id"); err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, table)
	tag, err := r.q.Exec(context.Background(), query, ids)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, err)
	}
	return int(tag.RowsAffected()), nil
}
