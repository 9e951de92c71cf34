package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/stockseo/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and manage past keyword generations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored generations, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		items := a.history.All(context.Background())
		if len(items) == 0 {
			fmt.Println(a.catalog().T("history.empty", nil))
			return nil
		}

		rows := make([][]string, 0, len(items))
		for i, item := range items {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				item.ID,
				time.UnixMilli(item.Timestamp).Local().Format("2006-01-02 15:04"),
				summarizeTitles(history.Titles(item.Groups), 40),
				strconv.Itoa(keywordCount(item.Groups)),
			})
		}
		printTable([]string{"#", "ID", "Created", "Titles", "Keywords"}, rows, 0, 4)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show the keyword groups of a generation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		item, err := findHistoryItem(a, args[0])
		if err != nil {
			return err
		}
		printGroups(item.Groups)
		return nil
	},
}

var historyUseCmd = &cobra.Command{
	Use:   "use ID",
	Short: "Print a generation's titles for another run",
	Long: `Prints the titles of a stored generation, one per line, so they can be
fed back into "stockseo generate -". The keyword count of the original run is
printed to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		item, err := findHistoryItem(a, args[0])
		if err != nil {
			return err
		}
		draft := a.orch.UseItem(item)
		fmt.Fprintln(cmd.OutOrStdout(), draft.Input)
		fmt.Fprintf(cmd.ErrOrStderr(), "count: %d\n", draft.Count)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete one generation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		item, err := findHistoryItem(a, args[0])
		if err != nil {
			return err
		}
		if _, err := a.orch.DeleteHistoryItem(context.Background(), item.ID, confirmer()); err != nil {
			return a.userError(err)
		}
		fmt.Printf("Deleted %s\n", item.ID)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.orch.ClearHistory(context.Background(), confirmer()); err != nil {
			return a.userError(err)
		}
		fmt.Println("History cleared")
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyUseCmd, historyDeleteCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

// findHistoryItem resolves ref as a 1-based position from `history list` or
// as an id.
func findHistoryItem(a *app, ref string) (history.Item, error) {
	ctx := context.Background()
	if n, err := strconv.Atoi(ref); err == nil {
		items := a.history.All(ctx)
		if n < 1 || n > len(items) {
			return history.Item{}, fmt.Errorf("no history item at position %d", n)
		}
		return items[n-1], nil
	}
	item, ok := a.history.Get(ctx, ref)
	if !ok {
		return history.Item{}, fmt.Errorf("no history item with id %q", ref)
	}
	return item, nil
}

func keywordCount(groups []history.KeywordGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Keywords)
	}
	return n
}

// summarizeTitles joins titles and truncates the result to width runes.
func summarizeTitles(titles []string, width int) string {
	s := strings.Join(titles, "; ")
	if r := []rune(s); len(r) > width {
		return string(r[:width-3]) + "..."
	}
	return s
}
