package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skyefoods/skye-ledger/internal/application/auth"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.UseCase
	Reports   *ReportHandler
	Combine   *CombineHandler
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token con rol admin)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole("admin"))

	reports := protected.Group("/reports")
	reports.Post("/combine", deps.Combine.Combine)
	reports.Post("/", deps.Reports.RunPipeline)
	reports.Get("/", deps.Reports.List)
	reports.Get("/:id", deps.Reports.GetByID)
	reports.Delete("/:id", deps.Reports.Delete)
	reports.Get("/:id/workbook", deps.Reports.Workbook)
	reports.Get("/:id/pdf", deps.Reports.SummaryPDF)
}
