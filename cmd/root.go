package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	apiURL string
	dbPath string
)

var rootCmd = &cobra.Command{
	Use:   "travelog",
	Short: "Validate travel photos and create trips from them",
	Long: `Travelog validates photos on your machine (format, size, GPS and date
metadata) and uploads them to a travel-journal backend, which builds a trip
from the photos: diary entries, locations, countries and weather.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func init() {
	// Load .env file if it exists
	godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", os.Getenv("TRAVELOG_API_URL"), "Travelog API base URL (can be set via TRAVELOG_API_URL env var)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", envOr("TRAVELOG_DB", "./travelog.db"), "Path to local SQLite session database")
}

// requireAPIURL guards the commands that talk to the backend; validate and
// history work offline.
func requireAPIURL() error {
	if apiURL == "" {
		return fmt.Errorf("api-url is required (use --api-url flag or TRAVELOG_API_URL env var)")
	}
	return nil
}
