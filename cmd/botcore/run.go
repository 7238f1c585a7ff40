package main

import (
	"os"

	"github.com/AskoldMakaruk/TelegramBotCore/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot with long polling",
	Long: `Connects to Telegram with the configured token and processes updates received
through long polling until interrupted. A second interrupt exits immediately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		signals := cli.NewSignalManager(cmd.Context(), func() { os.Exit(130) })
		defer signals.Stop()
		return cli.RunPolling(signals.Context(), cfg, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
