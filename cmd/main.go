package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zentime/internal/log"
)

const appName = "ZenTime"

var rootCmd = &cobra.Command{
	Use:   "zentime",
	Short: "ZenTime - meditation timer and box breathing",
	Long:  `ZenTime runs timed meditation sessions and guided box breathing, on the desktop or in the terminal.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Configure(log.Config{Level: logLevel, Console: true})
	},
	RunE:          runDesktop,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	logLevel  string
	soundsDir string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to LOG_LEVEL or info")
	rootCmd.PersistentFlags().StringVar(&soundsDir, "sounds-dir", "", "directory holding rain_sound.mp3, brown_noise.mp3 and om_tone.mp3")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
