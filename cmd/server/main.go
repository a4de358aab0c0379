package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"cloud.google.com/go/firestore"
	"connectrpc.com/connect"
	"github.com/castlemilk/budgetwise/backend/internal/alerts"
	"github.com/castlemilk/budgetwise/backend/internal/assistant"
	"github.com/castlemilk/budgetwise/backend/internal/auth"
	"github.com/castlemilk/budgetwise/backend/internal/config"
	"github.com/castlemilk/budgetwise/backend/internal/service"
	"github.com/castlemilk/budgetwise/backend/internal/store"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize context
	ctx := context.Background()

	storeImpl, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	// Local development and SKIP_AUTH use the fixed local identity; there is
	// no need to set up Firebase auth locally.
	var verifier auth.TokenVerifier
	skipAuth := cfg.Auth.SkipAuth || cfg.IsLocal()
	if skipAuth {
		log.Println("⚠️  Using mock authentication (local development / SKIP_AUTH)")
	} else {
		verifier, err = auth.NewFirebaseAuth(ctx, cfg.Store.FirestoreProject)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase Auth: %v", err)
		}
	}

	chat := assistant.NewClient(assistant.Config{
		APIKey:      cfg.Assistant.APIKey,
		BaseURL:     cfg.Assistant.BaseURL,
		Model:       cfg.Assistant.Model,
		Temperature: &cfg.Assistant.Temperature,
		MaxTokens:   cfg.Assistant.MaxTokens,
		Timeout:     cfg.Assistant.Timeout,
	})
	if err := chat.ValidateConfiguration(); err != nil {
		log.Printf("⚠️  AI assistant disabled until configured: %v", err)
	} else {
		log.Printf("AI assistant using model %s", chat.Model())
	}

	notifier, closeNotifier := openNotifier(cfg.Alerts)
	defer closeNotifier()

	budgetService := service.NewBudgetService(storeImpl, service.NewAdvisor(chat, storeImpl), notifier)

	// Debug interceptor first so impersonation wins over the default identity.
	interceptors := []connect.Interceptor{auth.DebugAuthInterceptor(skipAuth)}
	if verifier != nil {
		interceptors = append(interceptors, auth.AuthInterceptor(verifier))
	} else {
		interceptors = append(interceptors, auth.LocalDevInterceptor())
	}

	path, handler := service.NewBudgetServiceHandler(
		budgetService,
		connect.WithInterceptors(interceptors...),
	)

	// Create mux and register handler
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	// Add health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Connect-Protocol-Version",
			"Connect-Timeout-Ms",
			"Content-Type",
			"User-Agent",
			"X-User-Agent",
			"X-Debug-Impersonate-User",
		},
		ExposedHeaders: []string{
			service.ReasonHeader,
		},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: h2c.NewHandler(c.Handler(mux), &http2.Server{}),
	}

	log.Printf("Starting server on port %d (env=%s, store=%s)", cfg.Server.Port, cfg.Env, cfg.Store.Backend)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		s, err := store.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil

	case config.BackendFirestore:
		client, err := firestore.NewClient(ctx, cfg.FirestoreProject)
		if err != nil {
			return nil, nil, fmt.Errorf("create Firestore client: %w", err)
		}
		s, err := store.NewFirestoreStore(ctx, client)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		return s, func() { client.Close() }, nil

	default:
		log.Println("Using in-memory store for local development")
		return store.NewMemoryStore(), func() {}, nil
	}
}

func openNotifier(cfg config.AlertsConfig) (alerts.Notifier, func()) {
	if cfg.AMQPURL == "" {
		return alerts.LogNotifier{}, func() {}
	}
	pub, err := alerts.DialPublisher(cfg.AMQPURL, cfg.Exchange)
	if err != nil {
		log.Printf("⚠️  Budget alerts will only be logged: %v", err)
		return alerts.LogNotifier{}, func() {}
	}
	return alerts.Multi{alerts.LogNotifier{}, pub}, func() { pub.Close() }
}
