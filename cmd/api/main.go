package main

import (
	"os"

	"ecbrates/internal/app"
)

// @title ECB Rates API
// @version 1.0
// @description Read API over stored daily ECB reference rates
// @BasePath /api/v1
func main() {
	if err := app.Run(); err != nil {
		os.Exit(1)
	}
}
