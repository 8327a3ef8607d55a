package main

import (
	"os"

	"chatloom/backend/internal/app"
)

// @title        Chatloom API
// @version      1.0
// @description  Conversation reconciliation engine over a durable store and an AI streaming backend.
// @BasePath     /api
func main() {
	os.Exit(app.Run())
}
