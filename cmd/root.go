package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "agentcoder",
	Short: "AI coding assistant backend",
	Long: `Agent Coder is the backend for a chat-driven AI coding assistant.
It dispatches prompts to OpenAI, Gemini, or Claude, extracts fenced code
blocks from the replies, and serves the result to the chat UI.

Available commands:
  chat    - Send a prompt (or start an interactive session)
  serve   - Run the HTTP/WebSocket API server
  models  - List the models each provider supports

API keys are read from the environment (OPENAI_API_KEY, GEMINI_API_KEY,
CLAUDE_API_KEY), a .env file, or ~/.agentcoder/api_keys.json.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(versionCmd)
}
