package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	apihttp "hydrotrack-cloud/internal/api/http"
	"hydrotrack-cloud/internal/auth"
	"hydrotrack-cloud/internal/dashboard"
	"hydrotrack-cloud/internal/ledger"
	"hydrotrack-cloud/internal/notify"
	"hydrotrack-cloud/internal/observability/metrics"
	"hydrotrack-cloud/internal/rtdb"
	"hydrotrack-cloud/internal/stations"
	"hydrotrack-cloud/internal/users"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	metrics.Init()

	fleet, err := stations.LoadFleet(cfg.StationsConfig)
	if err != nil {
		logger.Fatalf("stations config error: %v", err)
	}

	userRepo, err := users.NewCSVRepository(cfg.UsersFile)
	if err != nil {
		logger.Fatalf("user table error: %v", err)
	}

	ledgerStore, err := ledger.NewFileStore(cfg.DataDir)
	if err != nil {
		logger.Fatalf("ledger store error: %v", err)
	}

	remote, err := rtdb.NewClient(cfg.RTDBBaseURL, cfg.RTDBAuthToken)
	if err != nil {
		logger.Fatalf("rtdb client error: %v", err)
	}

	broker := apihttp.NewSSEBroker()
	notifiers := []notify.Notifier{broker}
	if cfg.StockWebhookURL != "" {
		channel, err := notify.NewWebhookChannel(cfg.StockWebhookURL)
		if err != nil {
			logger.Fatalf("stock webhook error: %v", err)
		}
		stockNotifier, err := notify.NewStockNotifier(channel, notify.WithCooldown(cfg.StockNotifyCooldown))
		if err != nil {
			logger.Fatalf("stock notifier error: %v", err)
		}
		notifiers = append(notifiers, stockNotifier)
	}

	controller, err := dashboard.NewController(
		fleet,
		remote,
		ledgerStore,
		dashboard.WithNotifier(notify.NewMultiNotifier(notifiers...)),
		dashboard.WithLogger(logger),
	)
	if err != nil {
		logger.Fatalf("dashboard controller error: %v", err)
	}

	go func() {
		ticker := time.NewTicker(cfg.PollPeriod)
		defer ticker.Stop()
		controller.Refresh(context.Background())
		for range ticker.C {
			controller.Refresh(context.Background())
		}
	}()

	loginHandler, err := apihttp.NewLoginHandler(userRepo, []byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		logger.Fatalf("login handler error: %v", err)
	}
	dashboardHandler, err := apihttp.NewDashboardHandler(controller)
	if err != nil {
		logger.Fatalf("dashboard handler error: %v", err)
	}
	deliveryHandler, err := apihttp.NewDeliveryHandler(controller)
	if err != nil {
		logger.Fatalf("delivery handler error: %v", err)
	}
	summaryHandler, err := apihttp.NewSummaryHandler(controller)
	if err != nil {
		logger.Fatalf("summary handler error: %v", err)
	}
	historyHandler, err := apihttp.NewHistoryHandler(controller)
	if err != nil {
		logger.Fatalf("history handler error: %v", err)
	}
	exportCSV, err := apihttp.NewExportLedgerHandler(controller, "csv")
	if err != nil {
		logger.Fatalf("csv export handler error: %v", err)
	}
	exportPDF, err := apihttp.NewExportLedgerHandler(controller, "pdf")
	if err != nil {
		logger.Fatalf("pdf export handler error: %v", err)
	}
	exportXLSX, err := apihttp.NewExportLedgerHandler(controller, "xlsx")
	if err != nil {
		logger.Fatalf("xlsx export handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics", "/api/v1/login"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/login", loginHandler)
	mux.Handle("/api/v1/dashboard", dashboardHandler)
	mux.Handle("/api/v1/stations/", deliveryHandler)
	mux.Handle("/api/v1/sales/summary", summaryHandler)
	mux.Handle("/api/v1/sales/history", historyHandler)
	mux.Handle("/api/v1/exports/ledger.csv", exportCSV)
	mux.Handle("/api/v1/exports/ledger.pdf", exportPDF)
	mux.Handle("/api/v1/exports/ledger.xlsx", exportXLSX)
	mux.Handle("/api/v1/notices/stream", apihttp.NewStreamHandler(broker))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	HTTPAddr            string
	RTDBBaseURL         string
	RTDBAuthToken       string
	DataDir             string
	UsersFile           string
	StationsConfig      string
	JWTSecret           string
	TokenTTL            time.Duration
	PollPeriod          time.Duration
	StockWebhookURL     string
	StockNotifyCooldown time.Duration
}

func loadConfig() config {
	cfg := config{
		HTTPAddr:            getenvDefault("HTTP_ADDR", ":8080"),
		RTDBBaseURL:         getenvDefault("RTDB_BASE_URL", ""),
		RTDBAuthToken:       getenvDefault("RTDB_AUTH_TOKEN", ""),
		DataDir:             getenvDefault("DATA_DIR", "data"),
		UsersFile:           getenvDefault("USERS_FILE", "users.csv"),
		StationsConfig:      getenvDefault("STATIONS_CONFIG", ""),
		JWTSecret:           getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		TokenTTL:            getenvDuration("TOKEN_TTL", 12*time.Hour),
		PollPeriod:          getenvDuration("POLL_PERIOD", 5*time.Second),
		StockWebhookURL:     getenvDefault("STOCK_WEBHOOK_URL", ""),
		StockNotifyCooldown: getenvDuration("STOCK_NOTIFY_COOLDOWN", time.Minute),
	}
	if cfg.RTDBBaseURL == "" {
		log.Fatal("RTDB_BASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Flush keeps the SSE stream working through the logging wrapper.
func (w *statusWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
