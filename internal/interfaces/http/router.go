package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/activos-cl/patrimonio-api/internal/application/assets"
	"github.com/activos-cl/patrimonio-api/internal/application/auth"
	"github.com/activos-cl/patrimonio-api/internal/application/org"
	"github.com/activos-cl/patrimonio-api/internal/application/purge"
	"github.com/activos-cl/patrimonio-api/internal/application/query"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LifecycleUC *assets.LifecycleUseCase
	QueryUC     *query.UseCase
	OrgUC       *org.UseCase
	PurgeUC     *purge.UseCase
	AuthUC      *auth.UseCase
	Metrics     *Metrics
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/metrics", deps.Metrics.Handler())

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Activos: ciclo de vida y lecturas
	assetHandler := NewAssetHandler(deps.LifecycleUC, deps.QueryUC, deps.Metrics)
	assetGroup := protected.Group("/assets")
	assetGroup.Post("/", assetHandler.Create)
	assetGroup.Get("/", assetHandler.List)
	assetGroup.Get("/:id", assetHandler.GetByID)
	assetGroup.Put("/:id", assetHandler.Update)
	assetGroup.Post("/:id/relocate", assetHandler.Relocate)
	assetGroup.Post("/:id/transfer", assetHandler.Transfer)
	assetGroup.Post("/:id/status", assetHandler.ChangeStatus)
	assetGroup.Post("/:id/restore", assetHandler.Restore)
	assetGroup.Get("/:id/movements", assetHandler.Movements)
	assetGroup.Post("/:id/evidence", assetHandler.AttachEvidence)
	assetGroup.Get("/:id/evidence", assetHandler.ListEvidence)
	assetGroup.Get("/:id/audit", assetHandler.Audit)
	protected.Get("/evidence/:evidenceId", assetHandler.DownloadEvidence)

	// Libro de movimientos y catálogos
	catalogHandler := NewCatalogHandler(deps.QueryUC)
	protected.Get("/movements", catalogHandler.Movements)
	protected.Get("/catalogs/asset-types", catalogHandler.AssetTypes)
	protected.Get("/catalogs/asset-states", catalogHandler.AssetStates)

	// Jerarquía organizacional y usuarios
	orgHandler := NewOrgHandler(deps.OrgUC)
	purgeHandler := NewPurgeHandler(deps.PurgeUC)

	institutions := protected.Group("/institutions")
	institutions.Post("/", orgHandler.CreateInstitution)
	institutions.Post("/:id/deactivate", purgeHandler.DeactivateInstitution)
	institutions.Post("/:id/reactivate", purgeHandler.ReactivateInstitution)

	establishments := protected.Group("/establishments")
	establishments.Post("/", orgHandler.CreateEstablishment)
	establishments.Get("/", orgHandler.ListEstablishments)
	establishments.Get("/:establishmentId/dependencies", orgHandler.ListDependencies)
	establishments.Post("/:id/deactivate", purgeHandler.DeactivateEstablishment)
	establishments.Post("/:id/reactivate", purgeHandler.ReactivateEstablishment)

	dependencies := protected.Group("/dependencies")
	dependencies.Post("/", orgHandler.CreateDependency)
	dependencies.Post("/:id/deactivate", purgeHandler.DeactivateDependency)
	dependencies.Post("/:id/reactivate", purgeHandler.ReactivateDependency)

	users := protected.Group("/users")
	users.Post("/", orgHandler.CreateUser)
	users.Get("/", orgHandler.ListUsers)
	users.Post("/:id/deactivate", purgeHandler.DeactivateUser)
	users.Post("/:id/reactivate", purgeHandler.ReactivateUser)

	// Borrado forzado en dos fases
	purgeGroup := protected.Group("/purge")
	purgeGroup.Get("/:kind/:id/plan", purgeHandler.Plan)
	purgeGroup.Post("/:kind/:id", purgeHandler.Execute)
}
