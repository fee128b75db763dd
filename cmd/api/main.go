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

	"github.com/skyefoods/skye-ledger/internal/application/auth"
	"github.com/skyefoods/skye-ledger/internal/application/combine"
	"github.com/skyefoods/skye-ledger/internal/application/reconcile"
	"github.com/skyefoods/skye-ledger/internal/application/summary"
	infrapdf "github.com/skyefoods/skye-ledger/internal/infrastructure/pdf"
	"github.com/skyefoods/skye-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/skyefoods/skye-ledger/internal/interfaces/http"
	"github.com/skyefoods/skye-ledger/pkg/config"
	"github.com/skyefoods/skye-ledger/pkg/logger"
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
		Str("bar_price_ceiling", cfg.Pipeline.BarPriceCeiling.String()).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	reportRepo := postgres.NewReportRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)

	reconcileUC := reconcile.New(cfg.Pipeline.BarPriceCeiling, cfg.Pipeline.PerBarCost, log)
	summaryUC := summary.New(log)
	combineUC := combine.New(log)
	authUC := auth.New(
		auth.Operator{Email: cfg.Admin.Email, PasswordHash: cfg.Admin.PasswordHash},
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
	)

	pdfGenerator := infrapdf.NewSummaryPDFGenerator()
	reportHandler := httpRouter.NewReportHandler(reconcileUC, summaryUC, reportRepo, ledgerRepo, pdfGenerator)
	combineHandler := httpRouter.NewCombineHandler(combineUC, reportRepo, ledgerRepo, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    32 * 1024 * 1024, // planillas 3PL de varios meses
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Skye Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		Reports:   reportHandler,
		Combine:   combineHandler,
		JWTSecret: cfg.JWT.Secret,
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
