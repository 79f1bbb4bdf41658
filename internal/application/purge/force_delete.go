package purge

import (
	"context"

	"github.com/activos-cl/patrimonio-api/internal/application/authz"
	"github.com/activos-cl/patrimonio-api/internal/domain"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

// PlanForceDelete construye el plan de purga física: recorre el grafo de
// dependientes desde la raíz, devuelve el resumen de conteos por categoría y
// la literal de confirmación que el caller debe devolver textual. Solo
// ADMIN_CENTRAL, y solo sobre raíces ya desactivadas.
func (uc *UseCase) PlanForceDelete(ctx context.Context, actor authz.Actor, kind, id string) (*Plan, error) {
	if err := authz.EnforceCentral(actor); err != nil {
		return nil, err
	}
	if err := uc.ensureDeactivated(kind, id); err != nil {
		return nil, err
	}
	return buildPlan(uc.purgeRepo, kind, id)
}

// ExecuteForceDelete ejecuta la purga física confirmada: re-colecta el plan y
// borra hijos antes que padres en una sola transacción (falla parcial
// revierte todo). Entre el resumen y la confirmación pueden aparecer nuevos
// dependientes; la re-colección dentro de la transacción los incluye, pero la
// ventana resumen→confirmación no está protegida por lock y los conteos
// mostrados pueden quedar desactualizados. Limitación conocida.
func (uc *UseCase) ExecuteForceDelete(ctx context.Context, actor authz.Actor, kind, id, confirmationText string) (map[string]int, error) {
	if err := authz.EnforceCentral(actor); err != nil {
		return nil, err
	}
	if err := uc.ensureDeactivated(kind, id); err != nil {
		return nil, err
	}
	if confirmationText != confirmationFor(kind, id) {
		return nil, domain.NewConflict("FORCE_DELETE_CONFIRMATION_INVALID",
			"el texto de confirmación no coincide").
			WithDetails(map[string]any{"expected": confirmationFor(kind, id)})
	}

	var deleted map[string]int
	err := uc.txRunner.RunPurge(ctx, func(purgeRepo repository.PurgeRepository) error {
		plan, err := buildPlan(purgeRepo, kind, id)
		if err != nil {
			return err
		}
		deleted, err = plan.execute(purgeRepo)
		return err
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
