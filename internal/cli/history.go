package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tagcloud/pkg/history"
)

// historyCommand creates the history command.
func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent renders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.historyStore()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No renders recorded yet")
				return nil
			}
			printHistory(entries)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "number of entries to show")
	cmd.AddCommand(c.historyClearCommand())
	return cmd
}

// historyClearCommand creates the "history clear" subcommand.
func (c *CLI) historyClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded renders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.historyStore()
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Deleted %d entries", n)
			return nil
		},
	}
}

// historyStore opens the store even when recording is disabled, so old
// entries can still be read and cleared.
func (c *CLI) historyStore() (*history.Store, error) {
	return history.Open(c.settings.History.Path)
}

func printHistory(entries []history.Entry) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		id := e.ID
		if len(id) > 8 {
			id = id[:8]
		}
		rows = append(rows, []string{
			id,
			formatRelativeTime(e.CreatedAt),
			e.Source,
			fmt.Sprintf("%dx%d", e.Width, e.Height),
			strconv.Itoa(e.Placed),
			strconv.Itoa(e.Dropped),
			e.Duration.Round(time.Millisecond).String(),
			e.Outputs,
		})
	}
	printTable([]string{"ID", "When", "Source", "Canvas", "Placed", "Dropped", "Took", "Outputs"}, rows, 4, 5, 6)
}
