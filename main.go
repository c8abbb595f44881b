package main

import (
	"github.com/joho/godotenv"

	"github.com/subwatchdev/subwatch/cmd"
)

func main() {
	// Best-effort .env load so ANTHROPIC_API_KEY / SUBWATCH_DB can live in a
	// local file during development.
	_ = godotenv.Load()

	cmd.Execute()
}
