package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/opencube/cube-draft-api/internal/analytics"
	"github.com/opencube/cube-draft-api/internal/auth"
	"github.com/opencube/cube-draft-api/internal/carddb"
	"github.com/opencube/cube-draft-api/internal/config"
	"github.com/opencube/cube-draft-api/internal/dal"
	"github.com/opencube/cube-draft-api/internal/draft"
	"github.com/opencube/cube-draft-api/internal/draftbots"
	"github.com/opencube/cube-draft-api/internal/handlers"
	"github.com/opencube/cube-draft-api/internal/logger"
	"github.com/opencube/cube-draft-api/internal/mocks"
	"github.com/opencube/cube-draft-api/internal/models"
	"github.com/opencube/cube-draft-api/internal/pubsub"
)

var (
	cfg       *config.Config
	dataStore dal.DraftDAL
	sink      analytics.Sink
)

func main() {
	// Initialize logger first
	logger.Init()
	logger.Info("Starting cube draft microservice")

	cfg = config.Load()

	// Data store
	var err error
	switch cfg.DBDriver {
	case "memory":
		dataStore = dal.NewMemoryDAL()
		logger.Info("Using in-memory data store")
	case "sqlite":
		dataStore, err = dal.NewSQLiteDAL(cfg.SQLiteFile)
		if err != nil {
			logger.Error("Failed to initialize SQLite", "error", err)
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		logger.Info("Connected to SQLite database", "file", cfg.SQLiteFile)
	case "postgres":
		if cfg.DatabaseURL == "" {
			logger.Error("DATABASE_URL environment variable is required for postgres driver")
			log.Fatal("DATABASE_URL environment variable is required for postgres driver")
		}
		dataStore, err = dal.NewPostgresDAL(cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to initialize Postgres", "error", err)
			log.Fatalf("Failed to initialize Postgres: %v", err)
		}
		logger.Info("Connected to Postgres database")
	default:
		logger.Error("Unknown DB_DRIVER", "driver", cfg.DBDriver)
		log.Fatalf("Unknown DB_DRIVER: %s (valid: memory, sqlite, postgres)", cfg.DBDriver)
	}

	// Pub/sub: embedded NATS for development, real NATS JetStream otherwise
	var upstream pubsub.Upstream
	if cfg.IsDevelopment() {
		logger.Info("Starting embedded NATS server for local development")
		embedded, err := pubsub.NewEmbeddedNATSPubSub(pubsub.EmbeddedNATSOptions{
			Port:    0,
			Subject: cfg.NATSSubject,
		})
		if err != nil {
			logger.Error("Failed to initialize embedded NATS", "error", err)
			log.Fatalf("Failed to initialize embedded NATS: %v", err)
		}
		upstream = embedded
		logger.Info("Embedded NATS server ready", "url", embedded.GetServerURL())
	} else {
		realNats, err := pubsub.NewNATSPubSub(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			logger.Error("Failed to initialize NATS", "error", err)
			log.Fatalf("Failed to initialize NATS: %v", err)
		}
		upstream = realNats
		logger.Info("Connected to NATS", "url", cfg.NATSURL)
	}
	ps := pubsub.NewWithUpstream(upstream)

	// Diagnostics sink: mock in development, ClickHouse otherwise
	if cfg.IsDevelopment() {
		sink = mocks.NewMockAnalyticsSink()
	} else {
		chSink, err := analytics.NewClient(cfg.ClickHouseAddr, cfg.ClickHouseDB, cfg.ClickHouseUser, cfg.ClickHousePassword)
		if err != nil {
			logger.Error("Failed to initialize ClickHouse", "error", err, "address", cfg.ClickHouseAddr)
			log.Fatalf("Failed to initialize ClickHouse: %v", err)
		}
		sink = chSink
		logger.Info("Connected to ClickHouse", "address", cfg.ClickHouseAddr, "database", cfg.ClickHouseDB)
	}

	// Card database
	cards, err := carddb.LoadFile(cfg.CardDBFile)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("Card database not loaded, starting empty", "file", cfg.CardDBFile, "error", err)
			cards = carddb.NewMemoryDB(map[string]models.CardRecord{})
		} else {
			logger.Error("Failed to load card database", "error", err, "file", cfg.CardDBFile)
			log.Fatalf("Failed to load card database: %v", err)
		}
	} else {
		logger.Info("Card database loaded", "file", cfg.CardDBFile)
	}

	// Authentication: mock in development, OIDC otherwise
	var authProvider auth.Provider
	if cfg.IsDevelopment() {
		authProvider = auth.NewMockAuth()
	} else {
		if cfg.OIDCBaseURL == "" || cfg.OIDCClientID == "" || cfg.OIDCClientSecret == "" {
			logger.Error("OIDC_BASE_URL, OIDC_CLIENT_ID and OIDC_CLIENT_SECRET are required for production")
			log.Fatal("OIDC_BASE_URL, OIDC_CLIENT_ID and OIDC_CLIENT_SECRET are required for production")
		}
		redirectURL := cfg.OIDCRedirectURL
		if redirectURL == "" {
			redirectURL = "http://localhost:" + cfg.Port + "/auth/callback"
		}
		authProvider = auth.NewOIDCAuth(&auth.OIDCConfig{
			BaseURL:      cfg.OIDCBaseURL,
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  redirectURL,
		})
		logger.Info("Connected to identity provider", "url", cfg.OIDCBaseURL)
	}

	api := handlers.NewAPIHandlers(dataStore, ps, cards, draftbots.GreedyOracle{}, sink, cfg)

	mux := http.NewServeMux()

	// Auth routes (public)
	mux.HandleFunc("/auth/login", authProvider.LoginHandler)
	mux.HandleFunc("/auth/callback", authProvider.CallbackHandler)
	mux.HandleFunc("/auth/logout", authProvider.LogoutHandler)

	// Draft API
	mux.HandleFunc("POST /api/draft/start/{cubeID}", authProvider.Middleware(api.StartDraft))
	mux.HandleFunc("GET /api/draft/{id}", api.GetDraft)
	mux.HandleFunc("POST /api/draft/redraft/{id}/{seat}", authProvider.Middleware(api.Redraft))
	mux.HandleFunc("POST /api/draft/{id}/deck", authProvider.Middleware(api.SaveDeck))

	// Machine import (API-key authenticated, no user session)
	mux.HandleFunc("POST /api/draftmancer/publish", api.PublishImport)

	// Health check endpoints
	mux.HandleFunc("/api/health", healthHandler)
	mux.HandleFunc("/healthz", livenessHandler) // Kubernetes liveness probe
	mux.HandleFunc("/readyz", readinessHandler) // Kubernetes readiness probe

	addr := "0.0.0.0:" + cfg.Port
	logger.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Server failed", "error", err)
		log.Fatal(err)
	}
}

// isNotFound distinguishes "no such draft" from genuine store failures in
// the health probes.
func isNotFound(err error) bool {
	var nf *draft.NotFoundError
	return errors.As(err, &nf)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if dataStore != nil {
		if _, err := dataStore.GetDraft("health-probe"); err != nil && !isNotFound(err) {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks["database"] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
		} else {
			checks["database"] = map[string]interface{}{"status": "healthy"}
		}
	} else {
		checks["database"] = map[string]interface{}{"status": "not_configured"}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	})
}

func livenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
	})
}

func readinessHandler(w http.ResponseWriter, r *http.Request) {
	if dataStore != nil {
		if _, err := dataStore.GetDraft("health-probe"); err != nil && !isNotFound(err) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":    "not_ready",
				"reason":    "database_unavailable",
				"timestamp": time.Now().Unix(),
			})
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}
