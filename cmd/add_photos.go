package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marsisca/travelog/internal/photoval"
	"github.com/marsisca/travelog/internal/travelog"
	"github.com/marsisca/travelog/internal/uploadflow"
)

var addPhotosTripID int64

var addPhotosCmd = &cobra.Command{
	Use:   "add-photos --trip <id> <photos...>",
	Short: "Add photos to an existing trip",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAddPhotos,
}

func init() {
	rootCmd.AddCommand(addPhotosCmd)

	addPhotosCmd.Flags().Int64Var(&addPhotosTripID, "trip", 0, "ID of the trip to add photos to")
	addPhotosCmd.MarkFlagRequired("trip")
}

func runAddPhotos(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := requireUser(store); err != nil {
		return err
	}

	client, err := apiClient(store)
	if err != nil {
		return err
	}

	files, err := photoval.LoadFiles(args)
	if err != nil {
		return err
	}

	flow := uploadflow.NewMachine()
	advance(flow, uploadflow.Selecting{})
	advance(flow, uploadflow.Validating{Progress: 0})

	validator := photoval.New(photoval.Options{})
	result := validator.ValidatePhotos(files)
	advance(flow, uploadflow.Validated{Result: result})

	if !result.Valid {
		return fmt.Errorf("some photos have an invalid format or exceed the size limit")
	}

	advance(flow, uploadflow.Uploading{Progress: 0})
	fmt.Printf("Uploading %d photos to trip %d...\n", len(files), addPhotosTripID)

	handle := client.AddPhotosToTrip(context.Background(), addPhotosTripID, files)
	creation, uploadErr := watchUpload(flow, handle)

	recordAttempt(store, fmt.Sprintf("/trips/%d/add-photos", addPhotosTripID), len(files), creation, uploadErr)

	if uploadErr != nil {
		return fmt.Errorf("%s (code %s)", travelog.ErrorMessage(*uploadErr), uploadErr.Code)
	}

	fmt.Printf("\n✓ Added %d photos to trip %d\n", creation.Stats.PhotosUploaded, addPhotosTripID)
	for _, warning := range creation.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}
	return nil
}
