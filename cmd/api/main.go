package main

import (
	"context"
	"net/http"

	"readleaf/cmd/api/router"
	"readleaf/cmd/api/services"
	"readleaf/cmd/internal/logger"
	"readleaf/config"
	"readleaf/db"
	"readleaf/eventbus"
)

func main() {
	config.InitApp()
	logger.InitFromEnv("LOG_LEVEL")

	ctx := context.Background()
	if err := db.Init(ctx); err != nil {
		logger.Log.Errorf("failed to initialize database: %v", err)
		return
	}

	if brokers := eventbus.GetBrokers(); brokers != "" {
		for _, t := range eventbus.AllTopics {
			if err := eventbus.EnsureTopics(brokers, t, 3); err != nil {
				logger.Log.Errorf("failed to ensure eventbus topics for %s: %v", t.Base(), err)
			}
		}
	}

	c, err := services.NewContainer(ctx)
	if err != nil {
		logger.Log.Errorf("failed to wire services: %v", err)
		return
	}
	defer c.Close()

	r := router.New(c)
	if err := r.Run(":8080"); err != nil && err != http.ErrServerClosed {
		logger.Log.Errorf("server stopped: %v", err)
	}
}
