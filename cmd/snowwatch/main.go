package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	flag "github.com/spf13/pflag"

	httpapi "github.com/mjelle/snowwatch/internal/api/http"
	"github.com/mjelle/snowwatch/internal/app"
	"github.com/mjelle/snowwatch/internal/config"
	"github.com/mjelle/snowwatch/internal/geocode"
	"github.com/mjelle/snowwatch/internal/log"
	"github.com/mjelle/snowwatch/internal/notify"
	"github.com/mjelle/snowwatch/internal/observability"
	"github.com/mjelle/snowwatch/internal/ops"
	"github.com/mjelle/snowwatch/internal/persist"
	"github.com/mjelle/snowwatch/internal/scheduler"
	"github.com/mjelle/snowwatch/internal/snow"
	"github.com/mjelle/snowwatch/internal/snow/providers"
	"github.com/mjelle/snowwatch/internal/state"
)

func main() {
	envFile := flag.String("env-file", "", "load environment from this file before reading config")
	debug := flag.Bool("debug", false, "enable debug logging")
	port := flag.String("port", "", "override the API listen port")
	dbPath := flag.String("db", "", "override the SQLite state path")
	flag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load env file: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Flags override the environment.
	if *port != "" {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *debug {
		cfg.Debug = true
	}

	if err := log.Init(cfg.Debug, cfg.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	clock := clockwork.NewRealClock()

	db, err := persist.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open state database: %v", err)
	}
	defer db.Close()

	metrics := observability.NewMetrics()
	store := state.NewStore(loadInitialState(db, clock), db, clock, log.GetSugaredLogger())

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewMetNoProvider(httpClient, cfg.ForecastBaseURL, cfg.UserAgent)

	nominatim := geocode.NewClient(httpClient, cfg.GeocodeBaseURL, cfg.UserAgent, cfg.GeocodeLanguage)
	geocoder := geocode.NewCachedGeocoder(nominatim, cfg.GeocodeCacheSize, metrics.GeocodeCacheHits)

	notifier := notify.NewDesktopNotifier()

	service := app.NewService(store, provider, notifier, metrics, clock, log.GetSugaredLogger())

	// Scheduler that refreshes the forecast, first run immediately.
	sched := scheduler.New(service, cfg.RefreshInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Ops listener: health, readiness, metrics.
	ready := ops.ReadinessFunc(func(_ context.Context) error {
		if store.State().Weather == nil {
			return errors.New("no forecast stored yet")
		}
		return nil
	})
	opsSrv := ops.NewServer(cfg.OpsAddr, ready, log.GetSugaredLogger())
	go func() {
		if err := opsSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("ops server stopped: %v", err)
		}
	}()

	// Basic app configuration
	api := fiber.New(fiber.Config{
		AppName:               "snowwatch",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	api.Use(logger.New())
	api.Use(recover.New())

	// Basic health endpoint
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "snowwatch",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(api, httpapi.Deps{
		Store:     store,
		Refresher: service,
		Geocoder:  geocoder,
		Notifier:  notifier,
		Metrics:   metrics,
		Clock:     clock,
		Logger:    log.GetSugaredLogger(),
	})

	go func() {
		if err := api.Listen(":" + cfg.Port); err != nil {
			log.Errorf("fiber server stopped: %v", err)
		}
	}()
	log.Infof("snowwatch listening on :%s (ops on %s)", cfg.Port, cfg.OpsAddr)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := api.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("error during shutdown: %v", err)
	}
	if err := opsSrv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("error during ops shutdown: %v", err)
	}
}

// loadInitialState hydrates the store from the persisted blobs. A blob that
// cannot be read falls back to its default so one bad key never blocks
// startup. Stored history is pruned on load, so entries older than six
// months disappear even across long downtimes.
func loadInitialState(db *persist.DB, clock clockwork.Clock) state.AppState {
	st := state.AppState{Settings: snow.DefaultSettings()}

	if settings, ok, err := db.LoadSettings(); err != nil {
		log.Warnf("ignoring stored settings: %v", err)
	} else if ok {
		st.Settings = settings
	}

	if history, err := db.LoadHistory(); err != nil {
		log.Warnf("ignoring stored history: %v", err)
	} else {
		st.History = snow.PruneHistory(history, clock.Now())
	}

	if contractors, err := db.LoadContractors(); err != nil {
		log.Warnf("ignoring stored contractors: %v", err)
	} else {
		st.Contractors = contractors
	}

	if weather, err := db.LoadWeather(); err != nil {
		log.Warnf("ignoring stored forecast: %v", err)
	} else {
		st.Weather = weather
	}

	if last, err := db.LoadNotifyState(); err != nil {
		log.Warnf("ignoring stored notification marker: %v", err)
	} else {
		st.LastNotifiedSnow = last
	}

	return st
}
