package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/agentcoder/agentcoder/pkg/providers"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models each provider supports",
	Run: func(cmd *cobra.Command, args []string) {
		models := providers.NewDefaultDispatcher().AvailableModels()

		names := make([]string, 0, len(models))
		for name := range models {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, provider := range names {
			fmt.Printf("%s:\n", provider)
			for _, model := range models[provider] {
				fmt.Printf("  %s\n", model)
			}
		}
	},
}
