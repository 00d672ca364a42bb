package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gridquest/gridquest-backend/internal/httpapi"
	"github.com/gridquest/gridquest-backend/internal/hub"
	"github.com/gridquest/gridquest-backend/internal/store"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env always wins

	var log *zap.Logger
	var err error
	if os.Getenv("APP_ENV") == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var loader store.Loader
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pg, err := store.OpenPostgres(dsn)
		if err != nil {
			log.Fatal("connect postgres", zap.Error(err))
		}
		loader = pg
		log.Info("using postgres game definitions")
	} else {
		loader = store.NewMemoryLoader(store.DefaultDefinitions())
		log.Info("no DATABASE_URL, using built-in game definitions")
	}

	ctx := context.Background()
	h := hub.NewHub(ctx, log)

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(h, loader, log)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info("listening", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
