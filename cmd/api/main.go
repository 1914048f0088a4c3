package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"freshprep/internal/config"
	"freshprep/internal/db"
	"freshprep/internal/httpserver"
	blogrepo "freshprep/internal/repository/blog"
	cartrepo "freshprep/internal/repository/cart"
	mealrepo "freshprep/internal/repository/meal"
	orderrepo "freshprep/internal/repository/order"
	sessionrepo "freshprep/internal/repository/session"
	zonerepo "freshprep/internal/repository/zone"
	cartsvc "freshprep/internal/service/cart"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	mealRepo := mealrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	cartService := cartsvc.New(cartRepo)
	sessionRepo := sessionrepo.NewPostgres(dbpool)
	zoneRepo := zonerepo.NewPostgres(dbpool)
	blogRepo := blogrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool)

	srv := httpserver.New(cfg, logger, dbpool, httpserver.Deps{
		Meals:    mealRepo,
		Cart:     cartService,
		Sessions: sessionRepo,
		Zones:    zoneRepo,
		Blog:     blogRepo,
		Orders:   orderRepo,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
