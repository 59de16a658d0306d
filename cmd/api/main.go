package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vaughan-dsouza/userdir/internal/config"
	"github.com/vaughan-dsouza/userdir/internal/db"
	"github.com/vaughan-dsouza/userdir/internal/graph"
	"github.com/vaughan-dsouza/userdir/internal/handlers"
	"github.com/vaughan-dsouza/userdir/internal/service"
	"github.com/vaughan-dsouza/userdir/internal/store"
	"github.com/vaughan-dsouza/userdir/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.Printf("configuration loaded: %v", cfg)

	dbConn, err := db.Connect(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer dbConn.Close()

	if err := db.EnsureSchema(context.Background(), dbConn); err != nil {
		log.Fatalf("db schema: %v", err)
	}

	tokens, err := utils.NewTokenIssuer(cfg.SecretKey)
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}

	users := store.NewUsers(dbConn, cfg.Database.Timeout)
	dir := service.NewDirectory(users)
	auth := service.NewAuth(dir, users, tokens)

	schema, err := graph.NewSchema(dir)
	if err != nil {
		log.Fatalf("graphql schema: %v", err)
	}

	h := handlers.NewHandler(dir, auth, schema)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Routes(auth),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
