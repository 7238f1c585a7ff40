package main

import (
	"github.com/AskoldMakaruk/TelegramBotCore/internal/cli"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the command registrations",
	Long:  `Seals the command catalog and reports every provider, failing when one of them can never be built.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Check(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
