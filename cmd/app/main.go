package main

import (
	"rentkit/config"
	"rentkit/di"
	"rentkit/shared/logger"
)

// @title Rentkit API
// @version 1.0
// @description Multi-tenant equipment rental management API.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
