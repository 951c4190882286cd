package photoval

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/marsisca/travelog/internal/models"
)

// MaxFileSize is the hard per-photo ceiling (10 MiB).
const MaxFileSize = 10 * 1024 * 1024

// supportedMIMETypes lists the accepted photo formats, including the HEIC
// MIME type variants some platforms report.
var supportedMIMETypes = map[string]bool{
	"image/jpeg":          true,
	"image/jpg":           true,
	"image/png":           true,
	"image/heic":          true,
	"image/heif":          true,
	"image/heic-sequence": true,
	"image/heif-sequence": true,
}

// validExtensions is the fallback allow-list for files whose MIME type is
// empty or unrecognized (common with HEIC on some systems).
var validExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".heic": true,
	".heif": true,
}

// Options controls validation policy.
type Options struct {
	// RequireDateMetadata makes a missing capture timestamp a batch-level
	// error. Off for now: the server handles date validation.
	RequireDateMetadata bool
}

// Validator classifies photos and extracts their EXIF metadata.
type Validator struct {
	opts    Options
	logger  *slog.Logger
	extract func(data []byte) (*models.PhotoMetadata, error)
}

// New returns a Validator with the given policy options.
func New(opts Options) *Validator {
	return &Validator{
		opts:    opts,
		logger:  slog.Default().With("component", "photoval"),
		extract: extractMetadata,
	}
}

// ValidatePhoto validates a single photo: format and size first, then a
// best-effort EXIF extraction. Extraction failures never affect the format
// and size flags; they only leave metadata absent and add an error string.
func (v *Validator) ValidatePhoto(file *models.PhotoFile) models.PhotoValidation {
	errors := []string{}
	var metadata *models.PhotoMetadata
	hasGPS := false
	hasDate := false

	validFormat := IsValidFormat(file)
	if !validFormat {
		errors = append(errors, "Invalid file format. Only JPEG, PNG, and HEIC are supported.")
	}

	validSize := IsValidSize(file)
	if !validSize {
		errors = append(errors, "File size exceeds 10MB limit.")
	}

	if validFormat {
		meta, err := v.extract(file.Data)
		if err != nil {
			v.logger.Debug("EXIF extraction failed", "file", file.Name, "error", err)
			errors = append(errors, "Failed to extract EXIF metadata.")
		} else if meta != nil {
			metadata = meta
			hasGPS = meta.Latitude != nil && meta.Longitude != nil
			hasDate = meta.DateTimeOriginal != "" || meta.DateTimeDigitized != ""
		}
	}

	if v.opts.RequireDateMetadata && !hasDate {
		errors = append(errors, "Photo is missing date information.")
	}

	return models.PhotoValidation{
		File:          file,
		HasGPS:        hasGPS,
		HasDate:       hasDate,
		IsValidFormat: validFormat,
		IsValidSize:   validSize,
		Metadata:      metadata,
		Errors:        errors,
	}
}

// ValidatePhotos validates a batch and aggregates the per-file results into
// one verdict. Extractions are independent, so every file is validated
// concurrently before tallying.
func (v *Validator) ValidatePhotos(files []*models.PhotoFile) models.ValidationResult {
	validations := make([]models.PhotoValidation, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file *models.PhotoFile) {
			defer wg.Done()
			validations[i] = v.ValidatePhoto(file)
		}(i, file)
	}
	wg.Wait()

	return v.Aggregate(validations)
}

// Aggregate computes the batch verdict from already-computed per-file
// validations. Valid depends only on format and size; GPS presence only
// produces a warning and the date policy is delegated to the server unless
// RequireDateMetadata is set.
func (v *Validator) Aggregate(validations []models.PhotoValidation) models.ValidationResult {
	total := len(validations)
	withGPS := 0
	withDate := 0
	valid := true
	var dates []time.Time

	for _, val := range validations {
		if val.HasGPS {
			withGPS++
		}
		if val.HasDate {
			withDate++
		}
		if !val.IsValidFormat || !val.IsValidSize {
			valid = false
		}
		if val.Metadata != nil {
			raw := val.Metadata.DateTimeOriginal
			if raw == "" {
				raw = val.Metadata.DateTimeDigitized
			}
			if raw != "" {
				if t, ok := ParseEXIFDate(raw); ok {
					dates = append(dates, t)
				}
			}
		}
	}

	result := models.ValidationResult{
		Valid:             valid,
		TotalPhotos:       total,
		PhotosWithGPS:     withGPS,
		PhotosWithoutGPS:  total - withGPS,
		PhotosWithDate:    withDate,
		PhotosWithoutDate: total - withDate,
		MissingGPSWarning: total-withGPS > 0,
		MissingDateError:  v.opts.RequireDateMetadata && total-withDate > 0,
	}

	if len(dates) > 0 {
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		result.DateRange = &models.DateRange{
			Start: dates[0],
			End:   dates[len(dates)-1],
		}
	}

	if result.MissingDateError {
		result.Message = "Some photos are missing date information. All photos must have a date taken."
	} else if result.MissingGPSWarning {
		result.Message = "Some photos are missing GPS coordinates. You will need to provide a manual location."
	}

	return result
}

// IsValidFormat reports whether the photo's format is supported, checking the
// declared MIME type first and falling back to the filename extension.
func IsValidFormat(file *models.PhotoFile) bool {
	if supportedMIMETypes[strings.ToLower(file.MIMEType)] {
		return true
	}
	ext := strings.ToLower(filepath.Ext(file.Name))
	return validExtensions[ext]
}

// IsValidSize reports whether the photo is within the size ceiling.
func IsValidSize(file *models.PhotoFile) bool {
	return file.Size <= MaxFileSize
}

// Summary returns a short human-readable description of a single photo's
// validation outcome.
func Summary(validation models.PhotoValidation) string {
	if len(validation.Errors) == 0 && validation.HasGPS && validation.HasDate {
		return "Valid photo with GPS and date"
	}

	var issues []string
	if !validation.HasGPS {
		issues = append(issues, "No GPS")
	}
	if !validation.HasDate {
		issues = append(issues, "No date")
	}
	if !validation.IsValidFormat {
		issues = append(issues, "Invalid format")
	}
	if !validation.IsValidSize {
		issues = append(issues, "Too large")
	}
	return strings.Join(issues, ", ")
}

// FormatSize renders a byte count the way the batch summaries print it.
func FormatSize(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/1024/1024)
}
