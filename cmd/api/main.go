package main

import (
	"os"

	"github.com/yigit/collegerecords/internal/pkg/logger"
	"github.com/yigit/collegerecords/internal/server"
)

// @title College Records API
// @version 1.0
// @description API for managing students, faculty, courses, batches and attendance

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Details are logged by the setup steps
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
