package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        authService
	FlightUC      flightService
	PurchaseUC    purchaseService
	ReturnUC      returnService
	TicketQueryUC ticketQueryService
	DailyReportUC dailyReportService
	AdminStatsUC  adminStatsService
	// Idempotency es opcional: sin store las compras se procesan sin deduplicar.
	Idempotency    IdempotencyStore
	IdempotencyTTL time.Duration
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authMW := AuthMiddleware(deps.JWTSecret)
	idem := Idempotency(deps.Idempotency, deps.IdempotencyTTL)

	staff := RequireRole(entity.RoleCashier, entity.RoleAdmin)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/register/cashier", authMW, adminOnly, authHandler.RegisterCashier)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", authMW, authHandler.Me)

	// Flights (protegido)
	flights := api.Group("/flights", authMW)
	flightHandler := NewFlightHandler(deps.FlightUC)
	flights.Get("/", flightHandler.Search)
	flights.Post("/", staff, flightHandler.Create)
	flights.Put("/:id", adminOnly, flightHandler.Update)
	flights.Delete("/:id", adminOnly, flightHandler.Delete)

	// Tickets (protegido)
	tickets := api.Group("/tickets", authMW)
	ticketHandler := NewTicketHandler(deps.PurchaseUC, deps.ReturnUC, deps.TicketQueryUC)
	tickets.Post("/purchase", idem, ticketHandler.Purchase)
	tickets.Post("/sell", RequireRole(entity.RoleCashier), idem, ticketHandler.Sell)
	tickets.Get("/mine", RequireRole(entity.RoleClient), ticketHandler.Mine)
	tickets.Get("/search", staff, ticketHandler.Search)
	tickets.Get("/:id/receipt", staff, ticketHandler.Receipt)
	tickets.Post("/:id/return", ticketHandler.Return)

	// Reports (protegido)
	reportHandler := NewReportHandler(deps.DailyReportUC, deps.AdminStatsUC)
	api.Get("/reports/daily", authMW, staff, reportHandler.Daily)
	api.Get("/admin/stats", authMW, adminOnly, reportHandler.AdminStats)
}
