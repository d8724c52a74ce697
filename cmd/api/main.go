package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	appanalytics "github.com/jhoicas/kyogym/internal/application/analytics"
	"github.com/jhoicas/kyogym/internal/application/billing"
	"github.com/jhoicas/kyogym/internal/application/export"
	"github.com/jhoicas/kyogym/internal/application/inventory"
	"github.com/jhoicas/kyogym/internal/application/registry"
	"github.com/jhoicas/kyogym/internal/infrastructure/excel"
	"github.com/jhoicas/kyogym/internal/infrastructure/metrics"
	"github.com/jhoicas/kyogym/internal/infrastructure/migrations"
	infrapdf "github.com/jhoicas/kyogym/internal/infrastructure/pdf"
	"github.com/jhoicas/kyogym/internal/infrastructure/settings"
	"github.com/jhoicas/kyogym/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/kyogym/internal/interfaces/http"
	"github.com/jhoicas/kyogym/pkg/config"
	"github.com/jhoicas/kyogym/pkg/logger"
)

func main() {
	os.Exit(run())
}

// run devuelve el código de salida; los defer (log y base) se ejecutan antes de os.Exit.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		return 1
	}

	log, err := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "iniciar logger: %v\n", err)
		return 1
	}
	defer log.Close()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	migrations.Silence()

	ctx := context.Background()
	st, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("abrir base de datos")
		return 1
	}
	defer st.Close()

	gymSettings := settings.NewFileStore(cfg.Settings.File, log.Zerolog())

	// Métricas opcionales: las interfaces quedan nil si están deshabilitadas.
	var (
		recorder           *metrics.Recorder
		membershipRecorder registry.MembershipCreatedRecorder
		ledgerOpts         []inventory.Option
		observer           httpRouter.RequestObserver
	)
	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder()
		membershipRecorder = recorder
		ledgerOpts = append(ledgerOpts, inventory.WithRecorder(recorder))
		observer = recorder
	}

	clientUC := registry.NewClientUseCase(st.Tx, st.Clients)
	membershipUC := registry.NewMembershipUseCase(st.Tx, st.Clients, st.Memberships, gymSettings, membershipRecorder)
	paymentUC := registry.NewPaymentUseCase(st.Tx, st.Clients, st.Memberships, st.Payments, gymSettings)
	ledgerUC := inventory.NewLedgerUseCase(st.Tx, st.Items, st.Movements, ledgerOpts...)
	dashboardUC := appanalytics.NewDashboardUseCase(membershipUC, clientUC, paymentUC, ledgerUC)

	receiptUC := billing.NewReceiptUseCase(st.Memberships, st.Payments, gymSettings, infrapdf.NewMarotoReceiptGenerator())
	exportUC := export.NewSnapshotUseCase(st.Clients, st.Memberships, st.Payments, st.Items, gymSettings, excel.NewWorkbookWriter())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	deps := httpRouter.RouterDeps{
		ClientUC:     clientUC,
		MembershipUC: membershipUC,
		PaymentUC:    paymentUC,
		LedgerUC:     ledgerUC,
		DashboardUC:  dashboardUC,
		ReceiptUC:    receiptUC,
		ExportUC:     exportUC,
		Logger:       log.Zerolog(),
		Observer:     observer,
	}
	if recorder != nil {
		deps.Metrics = recorder.Handler()
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")

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
	return 0
}
