package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marsisca/travelog/internal/models"
	"github.com/marsisca/travelog/internal/photoval"
)

var (
	requireDates   bool
	serverValidate bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <photos...>",
	Short: "Validate photos locally before uploading",
	Long: `Checks each photo's format (JPEG, PNG, HEIC) and size (max 10MB), and
extracts EXIF metadata to report GPS and capture-date coverage. Photos
without GPS or date still upload fine; the backend fills the gaps (or asks
for a manual location).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&requireDates, "require-dates", false, "Treat missing capture dates as an error instead of leaving it to the server")
	validateCmd.Flags().BoolVar(&serverValidate, "server", false, "Also ask the backend for its validation verdict")
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := photoval.LoadFiles(args)
	if err != nil {
		return err
	}

	fmt.Printf("Validating %d photos...\n\n", len(files))

	validator := photoval.New(photoval.Options{RequireDateMetadata: requireDates})

	validations := make([]models.PhotoValidation, len(files))
	tableRows := make([][]string, 0, len(files))
	for i, file := range files {
		validations[i] = validator.ValidatePhoto(file)
		tableRows = append(tableRows, []string{
			file.Name,
			photoval.FormatSize(file.Size),
			yesNo(validations[i].IsValidFormat),
			yesNo(validations[i].IsValidSize),
			yesNo(validations[i].HasGPS),
			yesNo(validations[i].HasDate),
			photoval.Summary(validations[i]),
		})
	}
	all := validator.Aggregate(validations)

	fmt.Println(renderTable(
		[]string{"Photo", "Size", "Format", "Size OK", "GPS", "Date", "Summary"},
		tableRows,
	))

	fmt.Printf("\nTotal photos: %d\n", all.TotalPhotos)
	fmt.Printf("  With GPS: %d, without GPS: %d\n", all.PhotosWithGPS, all.PhotosWithoutGPS)
	fmt.Printf("  With date: %d, without date: %d\n", all.PhotosWithDate, all.PhotosWithoutDate)
	if all.DateRange != nil {
		fmt.Printf("  Date range: %s - %s\n",
			all.DateRange.Start.Format("Jan 2, 2006 15:04"),
			all.DateRange.End.Format("Jan 2, 2006 15:04"))
	}
	if all.Message != "" {
		fmt.Printf("\n%s\n", all.Message)
	}

	if serverValidate {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		client, err := apiClient(store)
		if err != nil {
			return err
		}

		fmt.Println("\nAsking the server for its verdict...")
		serverResult, err := client.ValidatePhotosOnServer(files)
		if err != nil {
			return fmt.Errorf("server validation failed: %w", err)
		}
		fmt.Printf("Server verdict: valid=%v", serverResult.Valid)
		if serverResult.Message != "" {
			fmt.Printf(" (%s)", serverResult.Message)
		}
		fmt.Println()
	}

	if !all.Valid {
		return fmt.Errorf("some photos have an invalid format or exceed the size limit")
	}

	fmt.Println("\n✓ All photos are uploadable")
	return nil
}
