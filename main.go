package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/agentcoder/agentcoder/cmd"
	"github.com/agentcoder/agentcoder/pkg/utils"
)

func main() {
	// Provider API keys may live in a .env file; absence is fine.
	_ = godotenv.Load()

	logger := utils.GetLogger(false)
	defer func() {
		if err := logger.Close(); err != nil {
			os.Stderr.WriteString("Error closing logger: " + err.Error() + "\n")
		}
	}()

	if err := cmd.Execute(); err != nil {
		logger.Logf("Application error: %v", err)
		os.Exit(1)
	}
}
