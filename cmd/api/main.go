package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kryonshao/eshop-sub000/internal/application/catalog"
	"github.com/kryonshao/eshop-sub000/internal/application/inventory"
	"github.com/kryonshao/eshop-sub000/internal/application/order"
	"github.com/kryonshao/eshop-sub000/internal/application/webhook"
	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	"github.com/kryonshao/eshop-sub000/internal/infrastructure/notify"
	"github.com/kryonshao/eshop-sub000/internal/infrastructure/postgres"
	httpRouter "github.com/kryonshao/eshop-sub000/internal/interfaces/http"
	"github.com/kryonshao/eshop-sub000/internal/metrics"
	"github.com/kryonshao/eshop-sub000/pkg/config"
	"github.com/kryonshao/eshop-sub000/pkg/logger"
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

	// Repos atados al pool (lecturas fuera de transacción)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	skuRepo := postgres.NewSKURepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	trackingRepo := postgres.NewOrderTrackingRepository(pool)
	eventRepo := postgres.NewWebhookEventRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// La bodega por defecto se resuelve una sola vez en el arranque. Si no existe
	// se crea: sin ella el checkout no tiene dónde reservar.
	defaultWarehouse, err := warehouseRepo.GetByCode(cfg.Stock.DefaultWarehouse)
	if err != nil {
		log.Fatal().Err(err).Msg("resolver bodega por defecto")
	}
	if defaultWarehouse == nil {
		now := time.Now()
		defaultWarehouse = &entity.Warehouse{
			ID:        uuid.New().String(),
			Code:      cfg.Stock.DefaultWarehouse,
			Name:      "Bodega principal",
			IsDefault: true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := warehouseRepo.Create(defaultWarehouse); err != nil {
			log.Fatal().Err(err).Msg("crear bodega por defecto")
		}
		log.Info().Str("code", defaultWarehouse.Code).Msg("bodega por defecto creada")
	}

	catalogUC := catalog.NewUseCase(skuRepo)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, stockRepo, movementRepo, warehouseRepo)
	alertsUC := inventory.NewAlertsUseCase(stockRepo, movementRepo)
	checkoutUC := order.NewCheckoutUseCase(txRunner, catalogUC, ledgerUC, log)
	transitionUC := order.NewTransitionUseCase(txRunner, ledgerUC, log)
	orderQueryUC := order.NewQueryUseCase(orderRepo, trackingRepo)

	notifier := notify.NewHTTPNotifier(cfg.Payment.NotifyURL)
	webhookUC, err := webhook.NewUseCase(cfg.Payment.WebhookSecret, txRunner, eventRepo, transitionUC, notifier, log)
	if err != nil {
		// Secreto ausente: mejor morir en el arranque que aceptar webhooks sin verificar.
		log.Fatal().Err(err).Msg("configurar gate de webhooks")
	}

	metrics.Register()

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
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:          catalogUC,
		LedgerUC:           ledgerUC,
		AlertsUC:           alertsUC,
		CheckoutUC:         checkoutUC,
		Transition:         transitionUC,
		OrderQuery:         orderQueryUC,
		WebhookUC:          webhookUC,
		JWTSecret:          cfg.JWT.Secret,
		DefaultWarehouseID: defaultWarehouse.ID,
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
