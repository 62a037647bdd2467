package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mdourados/foodcourt/internal/config"
	"github.com/mdourados/foodcourt/internal/es"
	"github.com/mdourados/foodcourt/internal/handlers"
	"github.com/mdourados/foodcourt/internal/middleware/loggingmw"
	"github.com/mdourados/foodcourt/internal/mykafka"
	"github.com/mdourados/foodcourt/internal/notify"
	httpserver "github.com/mdourados/foodcourt/internal/transport/http"
	"github.com/mdourados/foodcourt/pkg/logging"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod = mykafka.NewProducer(strings.Split(configuration.KAFKA_ADDRESS, ","))
	} else {
		logger.Warn("KAFKA_ADDRESS not set, domain events disabled")
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		logger.Warn("elasticsearch unavailable, item search disabled", "error", err)
		esClient = nil
	}

	hub := notify.NewHub()

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		JWTSecret:           jwtSecret,
		AuthHandler:         &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod},
		UserHandler:         &handlers.UserHandler{DB: db, Producer: prod},
		AddressHandler:      &handlers.AddressHandler{DB: db},
		CategoryHandler:     &handlers.CategoryHandler{DB: db, Producer: prod},
		ItemHandler:         &handlers.ItemHandler{DB: db, Producer: prod, ES: esClient},
		OrderHandler:        &handlers.OrderHandler{DB: db, Producer: prod, Hub: hub},
		NotificationHandler: &handlers.NotificationHandler{DB: db, Hub: hub},
		SearchHandler:       &handlers.SearchHandler{ES: esClient},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:        configuration.HTTP_ADDR,
		Handler:     e,
		ReadTimeout: 10 * time.Second,
		// no WriteTimeout: the notifications SSE stream must stay open
		IdleTimeout: 60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()
	logger.Info("server started", "addr", configuration.HTTP_ADDR)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}
	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}
