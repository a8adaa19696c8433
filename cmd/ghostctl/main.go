package main

import (
	"github.com/joho/godotenv"

	"github.com/SridharServico/Ghostprotocal/internal/cli"
)

func main() {
	// .env is optional; environment variables win over it either way.
	_ = godotenv.Load()

	cli.Execute()
}
