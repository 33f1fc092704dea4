package main

import (
	"os"

	"github.com/eldenheights/ehsas/internal/pkg/logger"
	"github.com/eldenheights/ehsas/internal/server"
)

// @title EHSAS API
// @version 1.0
// @description Membership, directory and content API for the Elden Heights School Alumni Society

// @contact.name EHSAS Operator
// @contact.email ehsas@eldenheights.org

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Admin token, sent as "Bearer <token>"

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
