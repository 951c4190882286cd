package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded upload attempts",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.ListUploads()
	if err != nil {
		return fmt.Errorf("failed to read upload history: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No uploads recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		tripID := "-"
		if record.TripID != nil {
			tripID = strconv.FormatInt(*record.TripID, 10)
		}
		rows = append(rows, []string{
			record.CreatedAt.Format("2006-01-02 15:04"),
			record.Endpoint,
			strconv.Itoa(record.PhotoCount),
			record.Outcome,
			tripID,
			record.Message,
		})
	}

	fmt.Println(renderTable([]string{"When", "Endpoint", "Photos", "Outcome", "Trip", "Detail"}, rows))
	return nil
}
