package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentcoder/agentcoder/pkg/apikeys"
	"github.com/agentcoder/agentcoder/pkg/history"
	"github.com/agentcoder/agentcoder/pkg/providers"
	"github.com/agentcoder/agentcoder/pkg/types"
	"github.com/agentcoder/agentcoder/pkg/utils"
)

var (
	chatProvider    string
	chatModel       string
	chatSession     string
	chatInteractive bool
)

// defaultModels picks a sensible model per provider when none is given.
var defaultModels = map[string]string{
	"openai": "gpt-4-turbo-preview",
	"gemini": "gemini-pro",
	"claude": "claude-3-opus-20240229",
}

var chatCmd = &cobra.Command{
	Use:   "chat [prompt]",
	Short: "Send a prompt to an AI provider",
	Long: `Send a single prompt, or start an interactive session with -i.
With --session, conversation history is persisted and reused across runs.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !chatInteractive && len(args) == 0 {
			return fmt.Errorf("a prompt is required unless --interactive is set")
		}

		dispatcher := providers.NewDefaultDispatcher()

		supported := false
		for _, name := range dispatcher.Providers() {
			if name == chatProvider {
				supported = true
				break
			}
		}
		if !supported {
			return fmt.Errorf("unsupported provider %q (supported: %s)",
				chatProvider, strings.Join(dispatcher.Providers(), ", "))
		}

		model := chatModel
		if model == "" {
			model = defaultModels[chatProvider]
		}

		apiKey, err := apikeys.GetAPIKey(chatProvider, true)
		if err != nil {
			return err
		}

		var store *history.Store
		session := &history.Session{ID: chatSession}
		if chatSession != "" {
			store, err = history.NewStore()
			if err != nil {
				return err
			}
			session, err = store.LoadOrCreate(chatSession)
			if err != nil {
				return err
			}
		}

		logger := utils.GetLogger(false)

		ask := func(prompt string) error {
			logger.LogChatRequest(chatProvider, model, len(session.Messages))

			resp, err := dispatcher.Send(cmd.Context(), providers.SendRequest{
				Prompt:   prompt,
				History:  session.Messages,
				Provider: chatProvider,
				Model:    model,
				APIKey:   apiKey,
			})
			if err != nil {
				return err
			}

			session.Append(types.RoleUser, prompt)
			session.Append(types.RoleAssistant, resp.Content)

			fmt.Println(resp.Content)
			printCodeBlocks(resp.CodeBlocks)

			if store != nil {
				if err := store.Save(session); err != nil {
					return err
				}
			}
			return nil
		}

		if len(args) > 0 {
			if err := ask(strings.Join(args, " ")); err != nil {
				return err
			}
		}

		if chatInteractive {
			return runInteractive(cmd.Context(), ask)
		}
		return nil
	},
}

// runInteractive reads prompts from stdin until EOF or an exit command.
func runInteractive(ctx context.Context, ask func(string) error) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := ask(line); err != nil {
			// A failed request is final for that prompt; the session
			// continues so the user can rephrase or switch models.
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func printCodeBlocks(blocks []types.CodeBlock) {
	if len(blocks) == 0 {
		return
	}
	fmt.Printf("\n%d code block(s) extracted:\n", len(blocks))
	for i, block := range blocks {
		fmt.Printf("  [%d] %s -> %s (%d bytes)\n", i+1, block.Language, block.Filename, len(block.Code))
	}
}

func init() {
	chatCmd.Flags().StringVarP(&chatProvider, "provider", "p", "openai", "AI provider (openai, gemini, claude)")
	chatCmd.Flags().StringVarP(&chatModel, "model", "m", "", "model id (defaults per provider)")
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "named session to persist conversation history")
	chatCmd.Flags().BoolVarP(&chatInteractive, "interactive", "i", false, "interactive chat session")
}
