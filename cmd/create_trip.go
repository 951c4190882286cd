package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/marsisca/travelog/internal/models"
	"github.com/marsisca/travelog/internal/photoval"
	"github.com/marsisca/travelog/internal/session"
	"github.com/marsisca/travelog/internal/travelog"
	"github.com/marsisca/travelog/internal/uploadflow"
)

var (
	countryID int64
	cityName  string
	manualLat float64
	manualLon float64
)

var createTripCmd = &cobra.Command{
	Use:   "create-trip <photos...>",
	Short: "Create a trip from photos",
	Long: `Validates the given photos locally, uploads them to the backend and waits
for the created trip. The server derives diary entries, locations, countries
and weather from the photo metadata.

When no photo carries GPS coordinates, pass a manual location with
--country-id (and optionally --city, --lat, --lon).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCreateTrip,
}

func init() {
	rootCmd.AddCommand(createTripCmd)

	createTripCmd.Flags().Int64Var(&countryID, "country-id", 0, "Country ID for photos without GPS coordinates")
	createTripCmd.Flags().StringVar(&cityName, "city", "", "City name for photos without GPS coordinates")
	createTripCmd.Flags().Float64Var(&manualLat, "lat", 0, "Latitude for photos without GPS coordinates")
	createTripCmd.Flags().Float64Var(&manualLon, "lon", 0, "Longitude for photos without GPS coordinates")
}

func runCreateTrip(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := requireUser(store)
	if err != nil {
		return err
	}

	client, err := apiClient(store)
	if err != nil {
		return err
	}

	flow := uploadflow.NewMachine()
	advance(flow, uploadflow.Selecting{})

	fmt.Printf("Loading %d photos...\n", len(args))
	files, err := photoval.LoadFiles(args)
	if err != nil {
		return err
	}

	// Validate before uploading, with per-file progress.
	advance(flow, uploadflow.Validating{Progress: 0})
	validator := photoval.New(photoval.Options{})
	validations := make([]models.PhotoValidation, len(files))
	for i, file := range files {
		validations[i] = validator.ValidatePhoto(file)
		advance(flow, uploadflow.Validating{Progress: (i + 1) * 100 / len(files)})
	}
	result := validator.Aggregate(validations)
	advance(flow, uploadflow.Validated{Result: result})

	fmt.Printf("Validated %d photos: %d with GPS, %d with date\n",
		result.TotalPhotos, result.PhotosWithGPS, result.PhotosWithDate)
	if !result.Valid {
		for _, validation := range validations {
			if len(validation.Errors) > 0 {
				fmt.Printf("  %s: %s\n", validation.File.Name, strings.Join(validation.Errors, " "))
			}
		}
		return fmt.Errorf("some photos have an invalid format or exceed the size limit")
	}
	if result.Message != "" {
		fmt.Println(result.Message)
	}

	location := manualLocationFromFlags()
	if location == nil && result.PhotosWithGPS == 0 && result.TotalPhotos > 0 {
		// Every photo lacks GPS and no location flags were given. The
		// server may still accept the batch, or reject it with
		// MISSING_GPS_COORDINATES; surface the choice up front.
		advance(flow, uploadflow.RequestingLocation{})
		fmt.Println("No photo has GPS coordinates. Uploading anyway; pass --country-id to attach a manual location.")
		advance(flow, uploadflow.Validated{Result: result})
	}

	advance(flow, uploadflow.Uploading{Progress: 0})
	fmt.Printf("\nUploading %d photos for user %d...\n", len(files), user.ID)

	handle := client.CreateTripFromPhotos(context.Background(), files, user.ID, location)
	creation, uploadErr := watchUpload(flow, handle)

	recordAttempt(store, "/trips/create-from-photos", len(files), creation, uploadErr)

	if uploadErr != nil {
		message := travelog.ErrorMessage(*uploadErr)
		if uploadErr.Recoverable {
			return fmt.Errorf("%s (code %s; safe to retry)", message, uploadErr.Code)
		}
		return fmt.Errorf("%s (code %s)", message, uploadErr.Code)
	}

	printCreationSummary(creation)
	return nil
}

// watchUpload consumes the upload event stream, drives the state machine and
// renders progress. It returns the success payload or the terminal error.
func watchUpload(flow *uploadflow.Machine, handle *travelog.UploadHandle) (*models.TripCreationResult, *models.UploadError) {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("Uploading"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
	)

	var creation *models.TripCreationResult
	var uploadErr *models.UploadError

	for event := range handle.Events() {
		switch event.Type {
		case travelog.EventUploading:
			advance(flow, uploadflow.Uploading{Progress: event.Progress})
			bar.Set(event.Progress)
		case travelog.EventProcessing:
			advance(flow, uploadflow.Processing{Message: event.Message})
			bar.Finish()
			fmt.Printf("\n%s\n", event.Message)
		case travelog.EventSuccess:
			creation = event.Result
			advance(flow, uploadflow.Success{TripID: event.Result.Trip.ID})
		case travelog.EventError:
			uploadErr = event.Err
			advance(flow, uploadflow.Error{Err: *event.Err})
		}
	}

	return creation, uploadErr
}

func manualLocationFromFlags() *models.ManualLocation {
	if countryID == 0 {
		return nil
	}
	location := &models.ManualLocation{CountryID: countryID, CityName: cityName}
	if manualLat != 0 || manualLon != 0 {
		lat, lon := manualLat, manualLon
		location.Latitude = &lat
		location.Longitude = &lon
	}
	return location
}

func recordAttempt(store *session.Store, endpoint string, photoCount int, creation *models.TripCreationResult, uploadErr *models.UploadError) {
	record := models.UploadRecord{
		ID:         uuid.NewString(),
		Endpoint:   endpoint,
		PhotoCount: photoCount,
		CreatedAt:  time.Now(),
	}
	if uploadErr != nil {
		record.Outcome = "error"
		record.Message = uploadErr.Code
	} else if creation != nil {
		record.Outcome = "success"
		tripID := creation.Trip.ID
		record.TripID = &tripID
	}
	if err := store.RecordUpload(record); err != nil {
		fmt.Printf("Warning: failed to record upload history: %v\n", err)
	}
}

func printCreationSummary(creation *models.TripCreationResult) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("TRIP CREATED")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Trip: %s (ID %d)\n", creation.Trip.Name, creation.Trip.ID)
	if creation.Trip.StartDate != "" {
		fmt.Printf("Dates: %s - %s\n", creation.Trip.StartDate, creation.Trip.EndDate)
	}
	fmt.Printf("Photos: %d processed, %d uploaded, %d failed\n",
		creation.Stats.PhotosProcessed, creation.Stats.PhotosUploaded, creation.Stats.PhotosFailed)
	fmt.Printf("Derived: %d diary entries, %d locations, %d countries over %d days\n",
		creation.Stats.DiariesCreated, creation.Stats.LocationsCreated,
		creation.Stats.CountriesVisited, creation.Stats.DaySpan)
	for _, warning := range creation.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}
	fmt.Println("\n✓ Trip created successfully!")
}
