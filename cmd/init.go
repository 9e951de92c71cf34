package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/stockseo/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize stockseo configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the AI provider, storage and language, generates a .stockseo.yml file and stores your API key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		if res.APIKey == "" {
			return nil
		}

		a, err := newAppFromConfig(res.Config)
		if err != nil {
			return err
		}
		defer a.Close()

		a.keys.SetActive(context.Background(), res.APIKey)
		fmt.Println(a.catalog().T("settings.apiKeySaved", nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
