// Command threadsift fetches Reddit posts, classifies their intent with an
// LLM and summarises threads on demand.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/Vitor-VarelAI/threadsift/internal/adapters/driving/cli"
	"github.com/Vitor-VarelAI/threadsift/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is normal.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("Could not read .env: %v", err)
	}

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
