package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentcoder/agentcoder/pkg/providers"
	"github.com/agentcoder/agentcoder/pkg/webui"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP/WebSocket API server",
	Long: `Serve the chat backend API:
  POST /api/chat    - dispatch a prompt to a provider
  GET  /api/models  - list models per provider
  GET  /api/health  - liveness check
  GET  /ws          - WebSocket chat

API keys arrive with each request; the server holds none of its own.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := webui.NewServer(providers.NewDefaultDispatcher(), servePort)

		// Shut down cleanly on SIGINT/SIGTERM.
		done := make(chan os.Signal, 1)
		signal.Notify(done, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-done
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(ctx)
		}()

		fmt.Printf("Agent Coder backend listening on :%d\n", servePort)
		return server.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8000, "port to listen on")
}
