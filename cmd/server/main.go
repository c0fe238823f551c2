package main

import (
	"net/http"

	"github.com/joho/godotenv"

	"github.com/d3vsino/myfittrackbackend/config"
	"github.com/d3vsino/myfittrackbackend/controllers"
	"github.com/d3vsino/myfittrackbackend/database"
	"github.com/d3vsino/myfittrackbackend/logger"
	"github.com/d3vsino/myfittrackbackend/routes"
)

func main() {
	logger.Init()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using system env vars")
	}

	cfg := config.Load()

	database.InitDB(cfg)
	defer database.Close()

	controllers.Init(cfg)
	r := routes.SetupRouter(cfg)

	logger.Info("Server starting", "port", cfg.Server.Port)
	if err := http.ListenAndServe(":"+cfg.Server.Port, r); err != nil {
		logger.Error("Server failed to start", "error", err)
	}
}
