/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the savings engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse flags, env as fallback
  2. Initialize SQLite snapshot store
  3. Load (or seed) the tenant's engine store
  4. Configure HTTP router
  5. Start server with graceful shutdown

CONFIGURATION:
  -port    / PORT        HTTP server port (default: 8080)
  -db      / DATABASE    SQLite database path (default: savings.db)
                         Use ":memory:" for in-memory database
  -tenant  / TENANT_ID   Tenant whose snapshot to serve (default: default)
  -origins / CORS_ORIGINS Comma-separated allowed origins
  -log-level / LOG_LEVEL logrus level (default: info)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/savings.db"

  # Run with in-memory database
  ./server -db=":memory:"

SEE ALSO:
  - api/server.go: Router configuration
  - engine/store.go: The validating dispatcher
  - store/sqlite/sqlite.go: Snapshot persistence
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/tkane/savings-engine/api"
	"github.com/tkane/savings-engine/engine"
	"github.com/tkane/savings-engine/store/sqlite"
)

func main() {
	// .env is optional; flags and real env win over it.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DATABASE", "savings.db"), "SQLite database path")
	tenantID := flag.String("tenant", envStr("TENANT_ID", "default"), "tenant ID to serve")
	origins := flag.String("origins", envStr("CORS_ORIGINS", "http://localhost:5173,http://localhost:8080"), "comma-separated CORS origins")
	logLevel := flag.String("log-level", envStr("LOG_LEVEL", "info"), "log level")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(*logLevel); err == nil {
		log.SetLevel(level)
	}
	entry := logrus.NewEntry(log).WithField("tenant", *tenantID)

	store, err := sqlite.New(*dbPath)
	if err != nil {
		entry.WithError(err).Fatal("failed to initialize database")
	}
	defer store.Close()

	eng, err := engine.LoadStore(context.Background(), *tenantID, engine.State{}, store,
		engine.WithLogger(entry))
	if err != nil {
		entry.WithError(err).Fatal("failed to load tenant snapshot")
	}

	handler := api.NewHandler(eng, entry)
	router := api.NewRouter(handler, strings.Split(*origins, ","))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		entry.Infof("server listening on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			entry.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	entry.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		entry.WithError(err).Fatal("server forced to shutdown")
	}

	entry.Info("server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}
