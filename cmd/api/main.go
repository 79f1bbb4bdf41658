package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/activos-cl/patrimonio-api/internal/application/assets"
	"github.com/activos-cl/patrimonio-api/internal/application/auth"
	"github.com/activos-cl/patrimonio-api/internal/application/org"
	"github.com/activos-cl/patrimonio-api/internal/application/purge"
	"github.com/activos-cl/patrimonio-api/internal/application/query"
	"github.com/activos-cl/patrimonio-api/internal/application/rules"
	"github.com/activos-cl/patrimonio-api/internal/infrastructure/postgres"
	httpRouter "github.com/activos-cl/patrimonio-api/internal/interfaces/http"
	"github.com/activos-cl/patrimonio-api/pkg/config"
	"github.com/activos-cl/patrimonio-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	assetRepo := postgres.NewAssetRepository(pool)
	movRepo := postgres.NewMovementRepository(pool)
	evidenceRepo := postgres.NewEvidenceRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	instRepo := postgres.NewInstitutionRepository(pool)
	estRepo := postgres.NewEstablishmentRepository(pool)
	depRepo := postgres.NewDependencyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	purgeRepo := postgres.NewPurgeRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	validator := rules.NewValidator(rules.Limits{
		ValueCeiling: decimal.NewFromInt(cfg.Assets.ValueCeiling),
		MaxNameLen:   cfg.Assets.MaxNameLen,
		MaxFieldLen:  cfg.Assets.MaxFieldLen,
	})

	lifecycleUC := assets.NewLifecycleUseCase(
		txRunner, assetRepo, movRepo, evidenceRepo, catalogRepo, estRepo, depRepo, validator,
	)
	queryUC := query.NewUseCase(assetRepo, movRepo, evidenceRepo, auditRepo, catalogRepo)
	orgUC := org.NewUseCase(instRepo, estRepo, depRepo, userRepo, validator)
	purgeUC := purge.NewUseCase(txRunner, instRepo, estRepo, depRepo, userRepo, assetRepo, purgeRepo)
	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	metrics := httpRouter.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    25 * 1024 * 1024, // evidencias adjuntas (fotos, actas PDF)
	})
	app.Use(recover.New())
	app.Use(metrics.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Patrimonio API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "db": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LifecycleUC: lifecycleUC,
		QueryUC:     queryUC,
		OrgUC:       orgUC,
		PurgeUC:     purgeUC,
		AuthUC:      authUC,
		Metrics:     metrics,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
