package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/stockseo/internal/config"
)

var (
	cfgFile   string
	verbose   bool
	assumeYes bool
)

var rootCmd = &cobra.Command{
	Use:   "stockseo",
	Short: "AI-powered SEO keyword generator for microstock titles",
	Long: `stockseo turns image and vector titles into lists of single-word SEO
keywords for Adobe Stock, Vecteezy and Freepik. Each title gets its own
keyword group, generated concurrently by a generative AI model, and the
last 20 generations are kept in a local history.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompts")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
