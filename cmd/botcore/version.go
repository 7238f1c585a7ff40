package main

import (
	"fmt"

	botcore "github.com/AskoldMakaruk/TelegramBotCore"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of botcore",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "botcore version %s\n", botcore.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
