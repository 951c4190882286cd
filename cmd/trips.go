package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "List your trips",
	RunE:  runTrips,
}

func init() {
	rootCmd.AddCommand(tripsCmd)
}

func runTrips(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := apiClient(store)
	if err != nil {
		return err
	}

	trips, err := client.GetTrips()
	if err != nil {
		return fmt.Errorf("failed to fetch trips: %w", err)
	}

	if len(trips) == 0 {
		fmt.Println("No trips yet. Run 'create-trip' with some photos to start one.")
		return nil
	}

	rows := make([][]string, 0, len(trips))
	for _, trip := range trips {
		rating := "-"
		if trip.Rating != nil {
			rating = strconv.Itoa(*trip.Rating)
		}
		rows = append(rows, []string{
			strconv.FormatInt(trip.ID, 10),
			trip.Name,
			trip.StartDate,
			trip.EndDate,
			rating,
		})
	}

	fmt.Println(renderTable([]string{"ID", "Name", "Start", "End", "Rating"}, rows))
	return nil
}
