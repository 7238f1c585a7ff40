package main

import (
	"github.com/AskoldMakaruk/TelegramBotCore/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the requirement graph",
	Long:  `Outputs a Mermaid diagram (graph LR) of the registered commands, validators and their requirements.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Graph(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
