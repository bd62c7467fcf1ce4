package main

import (
	"log"

	_ "github.com/dhima/wx-api/docs" // Import generated docs
	"github.com/dhima/wx-api/internal/api"
)

// @title wx-api
// @version 1.0
// @description Weather lookup by US ZIP code. Resolves the ZIP code with Nominatim, fetches the next two forecast periods from the National Weather Service and logs every request as PENDING, SUCCESS or FAILED.

// @contact.name API Support
// @contact.url https://github.com/dhima/wx-api

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /
// @schemes http https

func main() {
	srv := api.NewServer()
	if err := srv.Serve(); err != nil {
		log.Fatalf("api server stopped: %v", err)
	}
}
