package authz

import (
	"github.com/activos-cl/patrimonio-api/internal/domain"
	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
)

// EnforceWrite rechaza escrituras de roles de solo lectura.
func EnforceWrite(actor Actor) error {
	switch actor.Role {
	case entity.RoleAdminCentral, entity.RoleAdminEstablishment:
		return nil
	case entity.RoleViewer:
		return domain.NewForbidden("READ_ONLY_ROLE", "el rol VIEWER es de solo lectura")
	default:
		return domain.NewForbidden("UNKNOWN_ROLE", "rol desconocido: "+actor.Role)
	}
}

// EnforceInstitutionScope rechaza operar sobre otra institución.
func EnforceInstitutionScope(actor Actor, institutionID string) error {
	if actor.InstitutionID != institutionID {
		return domain.NewForbidden("FORBIDDEN_SCOPE", "la institución no pertenece al alcance del actor")
	}
	return nil
}

// EnforceEstablishmentScope verifica que el actor pueda escribir sobre el
// establecimiento indicado. Distingue dos fallas que no deben confundirse:
// un ADMIN_ESTABLISHMENT sin establecimiento asignado es un error de
// configuración, no una denegación de acceso.
func EnforceEstablishmentScope(actor Actor, establishmentID string) error {
	switch actor.Role {
	case entity.RoleAdminCentral:
		return nil
	case entity.RoleAdminEstablishment:
		if actor.EstablishmentID == nil || *actor.EstablishmentID == "" {
			return domain.NewForbidden("ROLE_WITHOUT_ESTABLISHMENT", "el rol requiere un establecimiento asignado y no tiene ninguno")
		}
		if *actor.EstablishmentID != establishmentID {
			return domain.NewForbidden("FORBIDDEN_SCOPE", "el establecimiento no pertenece al alcance del actor")
		}
		return nil
	case entity.RoleViewer:
		return domain.NewForbidden("READ_ONLY_ROLE", "el rol VIEWER es de solo lectura")
	default:
		return domain.NewForbidden("UNKNOWN_ROLE", "rol desconocido: "+actor.Role)
	}
}

// EnforceCentral exige ADMIN_CENTRAL (traslados entre establecimientos,
// borrado forzado y otras operaciones de alcance institucional).
func EnforceCentral(actor Actor) error {
	if actor.Role != entity.RoleAdminCentral {
		return domain.NewForbidden("FORBIDDEN_SCOPE", "la operación requiere rol ADMIN_CENTRAL")
	}
	return nil
}

// CanReadEstablishment indica si el actor tiene visibilidad de lectura sobre
// el establecimiento. Las lecturas fuera de alcance no fallan: se filtran.
func CanReadEstablishment(actor Actor, establishmentID string) bool {
	switch actor.Role {
	case entity.RoleAdminCentral:
		return true
	case entity.RoleAdminEstablishment, entity.RoleViewer:
		return actor.EstablishmentID != nil && *actor.EstablishmentID == establishmentID
	default:
		return false
	}
}

// NarrowEstablishment devuelve el filtro de establecimiento efectivo para un
// listado: los roles confinados ven solo su propio establecimiento aunque
// pidan otro (las lecturas se estrechan en silencio, no fallan). ok=false
// significa que el actor no tiene visibilidad alguna (rol confinado sin
// establecimiento asignado).
func NarrowEstablishment(actor Actor, requested string) (string, bool) {
	switch actor.Role {
	case entity.RoleAdminCentral:
		return requested, true
	case entity.RoleAdminEstablishment, entity.RoleViewer:
		if actor.EstablishmentID == nil || *actor.EstablishmentID == "" {
			return "", false
		}
		return *actor.EstablishmentID, true
	default:
		return "", false
	}
}
