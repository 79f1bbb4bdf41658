package purge

import (
	"fmt"

	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

// Plan es el objeto de plan de borrado: ids recolectados por tabla, resumen
// de conteos por categoría y el texto de confirmación que el caller debe
// devolver literal para ejecutar la purga.
type Plan struct {
	RootKind         string
	RootID           string
	Summary          map[string]int
	ConfirmationText string

	ids map[string][]string // tabla -> ids en orden de recolección
}

// confirmationFor construye la literal de confirmación de una purga.
func confirmationFor(kind, id string) string {
	return fmt.Sprintf("ELIMINAR %s %s", kind, id)
}

// buildPlan recorre el grafo de dependencias una sola vez, padres-primero,
// recolectando los ids de cada tabla alcanzable desde la raíz.
func buildPlan(purgeRepo repository.PurgeRepository, kind, rootID string) (*Plan, error) {
	plan := &Plan{
		RootKind:         kind,
		RootID:           rootID,
		Summary:          map[string]int{},
		ConfirmationText: confirmationFor(kind, rootID),
		ids:              map[string][]string{},
	}
	root, ok := rootTable[kind]
	if !ok {
		return nil, fmt.Errorf("tipo de raíz de purga desconocido: %s", kind)
	}
	plan.ids[root] = []string{rootID}

	for _, node := range purgeGraph {
		if node.table == root {
			plan.Summary[node.category] = 1
			continue
		}
		seen := map[string]bool{}
		var collected []string
		for _, parent := range node.parents {
			parentIDs := plan.ids[parent.parentTable]
			if len(parentIDs) == 0 {
				continue
			}
			childIDs, err := purgeRepo.CollectChildIDs(node.table, parent.fkColumn, parentIDs)
			if err != nil {
				return nil, fmt.Errorf("recolectar %s por %s: %w", node.table, parent.fkColumn, err)
			}
			for _, id := range childIDs {
				if !seen[id] {
					seen[id] = true
					collected = append(collected, id)
				}
			}
		}
		if len(collected) > 0 {
			plan.ids[node.table] = collected
		}
		plan.Summary[node.category] = len(collected)
	}
	return plan, nil
}

// execute purga las tablas con ids recolectados en el orden inverso al
// referencial (hijos antes que padres), dentro de la transacción del caller.
// Devuelve las filas borradas por categoría.
func (p *Plan) execute(purgeRepo repository.PurgeRepository) (map[string]int, error) {
	deleted := map[string]int{}
	for i := len(purgeGraph) - 1; i >= 0; i-- {
		node := purgeGraph[i]
		ids := p.ids[node.table]
		if len(ids) == 0 {
			continue
		}
		n, err := purgeRepo.DeleteByIDs(node.table, ids)
		if err != nil {
			return nil, fmt.Errorf("purgar %s: %w", node.table, err)
		}
		deleted[node.category] = n
	}
	return deleted, nil
}
