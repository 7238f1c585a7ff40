package main

import (
	"fmt"
	"os"

	"github.com/AskoldMakaruk/TelegramBotCore/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "botcore",
	Short: "botcore runs a conversational Telegram bot",
	Long: `botcore dispatches Telegram updates to commands resolved from their declared
requirements, keeping per-conversation continuations between updates.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().String("token", "", "Telegram bot token (BOTCORE_TOKEN)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for distributed locking and deduplication")
	rootCmd.PersistentFlags().Int("workers", 0, "Maximum number of updates processed at once")
	rootCmd.PersistentFlags().Bool("interpreted", false, "Resolve commands without the compiled cache")
}

// loadConfig layers the flags the user set over the file and environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("token") {
		cfg.Token, _ = flags.GetString("token")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if flags.Changed("redis") {
		cfg.RedisAddr, _ = flags.GetString("redis")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("interpreted") {
		cfg.Interpreted, _ = flags.GetBool("interpreted")
	}
	if f := flags.Lookup("listen"); f != nil && f.Changed {
		cfg.Listen = f.Value.String()
	}
	if f := flags.Lookup("webhook-path"); f != nil && f.Changed {
		cfg.WebhookPath = f.Value.String()
	}
	if f := flags.Lookup("webhook-secret"); f != nil && f.Changed {
		cfg.WebhookSecret = f.Value.String()
	}
	return cfg, cfg.Validate()
}
