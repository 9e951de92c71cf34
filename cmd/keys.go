package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/stockseo/internal/apikeys"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage the API keys used for generation",
}

var keysSetCmd = &cobra.Command{
	Use:   "set KEY",
	Short: "Set the active API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		a.keys.SetActive(context.Background(), args[0])
		fmt.Println(a.catalog().T("settings.apiKeySaved", nil))
		return nil
	},
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recently used keys, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		active := a.keys.Active(ctx)
		if active != "" {
			fmt.Printf("Active: %s\n", apikeys.Mask(active))
		}

		entries := apikeys.Entries(a.keys.History(ctx), active)
		if len(entries) == 0 {
			fmt.Println(a.catalog().T("settings.noApiHistory", nil))
			return nil
		}
		rows := make([][]string, 0, len(entries))
		for i, e := range entries {
			marker := ""
			if e.Active {
				marker = "*"
			}
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				e.Masked,
				time.UnixMilli(e.LastUsed).Local().Format("2006-01-02 15:04"),
				marker,
			})
		}
		printTable([]string{"#", "Key", "Last used", "Active"}, rows, 0)
		return nil
	},
}

var keysUseCmd = &cobra.Command{
	Use:   "use KEY|#",
	Short: "Make a previously used key active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		key, err := findKey(a, args[0])
		if err != nil {
			return err
		}
		a.keys.SetActive(context.Background(), key)
		fmt.Printf("Active: %s\n", apikeys.Mask(key))
		return nil
	},
}

var keysDeleteCmd = &cobra.Command{
	Use:   "delete KEY|#",
	Short: "Remove a key from the history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		key, err := findKey(a, args[0])
		if err != nil {
			return err
		}
		if _, err := a.orch.DeleteKey(context.Background(), key, confirmer()); err != nil {
			return a.userError(err)
		}
		fmt.Printf("Removed %s\n", apikeys.Mask(key))
		return nil
	},
}

var keysClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the key history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.orch.ClearKeyHistory(context.Background(), confirmer()); err != nil {
			return a.userError(err)
		}
		fmt.Println("Key history cleared")
		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysSetCmd, keysListCmd, keysUseCmd, keysDeleteCmd, keysClearCmd)
	rootCmd.AddCommand(keysCmd)
}

// findKey resolves ref as a 1-based position from `keys list` or as a key
// in the history.
func findKey(a *app, ref string) (string, error) {
	items := a.keys.History(context.Background())
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(items) {
		return items[n-1].Key, nil
	}
	for _, item := range items {
		if item.Key == ref {
			return item.Key, nil
		}
	}
	return "", fmt.Errorf("key %s is not in the key history", apikeys.Mask(ref))
}
