package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Tiquetes-api/internal/application/auth"
	"github.com/jhoicas/Tiquetes-api/internal/application/booking"
	"github.com/jhoicas/Tiquetes-api/internal/application/inventory"
	"github.com/jhoicas/Tiquetes-api/internal/application/reporting"
	"github.com/jhoicas/Tiquetes-api/internal/application/usecase"
	"github.com/jhoicas/Tiquetes-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Tiquetes-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/Tiquetes-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Tiquetes-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Tiquetes-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Tiquetes-api/internal/interfaces/http"
	"github.com/jhoicas/Tiquetes-api/pkg/config"
	"github.com/jhoicas/Tiquetes-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	logEnv := "production"
	if cfg.Log.Pretty {
		logEnv = "development"
	}
	log := logger.New(logger.Config{
		Env:   logEnv,
		Level: cfg.Log.Level,
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

	if cfg.DB.Migrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("migraciones al día")
	}

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}

	// ── Repositorios y transacciones ─────────────────────────────────────────
	userRepo := postgres.NewUserRepository(pool)
	flightRepo := postgres.NewFlightRepository(pool)
	ticketRepo := postgres.NewTicketRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	seats := inventory.NewSeatManager()

	// ── Eventos salientes: Kafka si hay brokers, si no solo log ──────────────
	var notifier booking.Notifier
	if cfg.Kafka.Enabled() {
		kafkaNotifier := notify.NewKafkaNotifier(notify.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		defer func() {
			if err := kafkaNotifier.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar productor Kafka")
			}
		}()
		notifier = kafkaNotifier
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("eventos de tiquetes en Kafka")
	} else {
		notifier = notify.NewLogNotifier(log)
	}

	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)

	// ── Idempotencia de compras (opcional) ───────────────────────────────────
	// Sin Redis el middleware recibe un nil real y deja pasar todo.
	var idempotency httpRouter.IdempotencyStore
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, infraredis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		idempotency = infraredis.NewIdempotencyStore(rdb)
	}

	renderer := infrapdf.NewMarotoRenderer(cfg.App.Airline)

	// ── Casos de uso ─────────────────────────────────────────────────────────
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	flightUC := usecase.NewFlightUseCase(txRunner, flightRepo, userRepo)
	ticketQueryUC := usecase.NewTicketQueryUseCase(ticketRepo, renderer)
	purchaseUC := booking.NewPurchaseTicketUseCase(txRunner, seats, userRepo, notifier, bookingMetrics, log)
	returnUC := booking.NewReturnTicketUseCase(txRunner, seats, notifier, bookingMetrics, log)
	dailyReportUC := reporting.NewDailyReportUseCase(reportRepo, renderer, loc)
	adminStatsUC := reporting.NewAdminStatsUseCase(reportRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tiquetes API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		FlightUC:       flightUC,
		PurchaseUC:     purchaseUC,
		ReturnUC:       returnUC,
		TicketQueryUC:  ticketQueryUC,
		DailyReportUC:  dailyReportUC,
		AdminStatsUC:   adminStatsUC,
		Idempotency:    idempotency,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		JWTSecret:      cfg.JWT.Secret,
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

	// Notificaciones pendientes antes de cerrar Kafka (defer).
	if err := purchaseUC.Drain(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("ganchos de compra sin terminar")
	}
	if err := returnUC.Drain(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("ganchos de devolución sin terminar")
	}

	log.Info().Msg("aplicación detenida")
}
