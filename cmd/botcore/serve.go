package main

import (
	"os"

	"github.com/AskoldMakaruk/TelegramBotCore/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the bot behind a Telegram webhook",
	Long: `Starts an HTTP server receiving updates on the webhook path, with /healthz,
/info and Prometheus /metrics endpoints. Register the public URL with Telegram's
setWebhook, passing the same secret token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		signals := cli.NewSignalManager(cmd.Context(), func() { os.Exit(130) })
		defer signals.Stop()
		return cli.Serve(signals.Context(), cfg, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", "", "Address to listen on (default :8080)")
	serveCmd.Flags().String("webhook-path", "", "Path receiving webhook updates (default /webhook)")
	serveCmd.Flags().String("webhook-secret", "", "Expected X-Telegram-Bot-Api-Secret-Token value")
}
