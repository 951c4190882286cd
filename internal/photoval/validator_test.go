package photoval

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marsisca/travelog/internal/models"
)

func floatPtr(f float64) *float64 { return &f }

func photo(name, mimeType string, size int64) *models.PhotoFile {
	return &models.PhotoFile{Name: name, MIMEType: mimeType, Size: size, Data: []byte("not a real image")}
}

// newValidator returns a Validator whose EXIF extraction is replaced by the
// given stub, so metadata scenarios can be exercised without crafting real
// EXIF blocks.
func newValidator(opts Options, extract func([]byte) (*models.PhotoMetadata, error)) *Validator {
	v := New(opts)
	if extract != nil {
		v.extract = extract
	}
	return v
}

func TestIsValidFormatByMIMEType(t *testing.T) {
	supported := []string{
		"image/jpeg", "image/jpg", "image/png",
		"image/heic", "image/heif", "image/heic-sequence", "image/heif-sequence",
	}
	for _, mimeType := range supported {
		// Extension deliberately unsupported; MIME type alone must win.
		assert.True(t, IsValidFormat(photo("photo.bin", mimeType, 100)), mimeType)
	}

	assert.True(t, IsValidFormat(photo("photo.jpg", "IMAGE/JPEG", 100)), "MIME matching is case-insensitive")
	assert.False(t, IsValidFormat(photo("photo.gif", "image/gif", 100)))
}

func TestIsValidFormatExtensionFallback(t *testing.T) {
	for _, name := range []string{"a.jpg", "a.jpeg", "a.png", "a.heic", "a.heif", "A.HEIC"} {
		assert.True(t, IsValidFormat(photo(name, "", 100)), name)
	}
	assert.True(t, IsValidFormat(photo("a.heic", "application/octet-stream", 100)),
		"generic MIME type falls back to the extension")
	assert.False(t, IsValidFormat(photo("a.tiff", "", 100)))
	assert.False(t, IsValidFormat(photo("noextension", "", 100)))
}

func TestIsValidSize(t *testing.T) {
	assert.True(t, IsValidSize(photo("a.jpg", "image/jpeg", MaxFileSize)))
	assert.True(t, IsValidSize(photo("a.jpg", "image/jpeg", 0)))
	assert.False(t, IsValidSize(photo("a.jpg", "image/jpeg", MaxFileSize+1)))
}

func TestValidatePhotoMetadataFlags(t *testing.T) {
	v := newValidator(Options{}, func([]byte) (*models.PhotoMetadata, error) {
		return &models.PhotoMetadata{
			Latitude:         floatPtr(45.07),
			Longitude:        floatPtr(7.69),
			DateTimeOriginal: "2024:06:15 09:30:00",
			Make:             "Apple",
			Model:            "iPhone 15",
		}, nil
	})

	result := v.ValidatePhoto(photo("turin.jpg", "image/jpeg", 1024))
	assert.True(t, result.HasGPS)
	assert.True(t, result.HasDate)
	assert.True(t, result.IsValidFormat)
	assert.True(t, result.IsValidSize)
	assert.Empty(t, result.Errors)
	require.NotNil(t, result.Metadata)
	assert.Equal(t, "Apple", result.Metadata.Make)
}

func TestValidatePhotoGPSRequiresBothCoordinates(t *testing.T) {
	v := newValidator(Options{}, func([]byte) (*models.PhotoMetadata, error) {
		return &models.PhotoMetadata{Latitude: floatPtr(45.07)}, nil
	})

	result := v.ValidatePhoto(photo("a.jpg", "image/jpeg", 100))
	assert.False(t, result.HasGPS, "latitude alone is not GPS")
	assert.False(t, result.HasDate)
}

func TestValidatePhotoExtractionFailureIsNonFatal(t *testing.T) {
	v := newValidator(Options{}, func([]byte) (*models.PhotoMetadata, error) {
		return nil, errors.New("corrupt container")
	})

	result := v.ValidatePhoto(photo("broken.jpg", "image/jpeg", 100))
	assert.True(t, result.IsValidFormat)
	assert.True(t, result.IsValidSize)
	assert.False(t, result.HasGPS)
	assert.False(t, result.HasDate)
	assert.Nil(t, result.Metadata)
	assert.Contains(t, result.Errors, "Failed to extract EXIF metadata.")
}

func TestValidatePhotoSkipsExtractionForInvalidFormat(t *testing.T) {
	called := false
	v := newValidator(Options{}, func([]byte) (*models.PhotoMetadata, error) {
		called = true
		return &models.PhotoMetadata{}, nil
	})

	result := v.ValidatePhoto(photo("doc.pdf", "application/pdf", 100))
	assert.False(t, called, "extraction only runs when the format check passed")
	assert.False(t, result.IsValidFormat)
	assert.Contains(t, result.Errors, "Invalid file format. Only JPEG, PNG, and HEIC are supported.")
}

func TestValidatePhotoOversized(t *testing.T) {
	v := newValidator(Options{}, func([]byte) (*models.PhotoMetadata, error) {
		return &models.PhotoMetadata{}, nil
	})

	result := v.ValidatePhoto(photo("big.jpg", "image/jpeg", MaxFileSize+1))
	assert.True(t, result.IsValidFormat)
	assert.False(t, result.IsValidSize)
	assert.Contains(t, result.Errors, "File size exceeds 10MB limit.")
}

func TestValidatePhotosEmptyBatch(t *testing.T) {
	v := newValidator(Options{}, nil)

	result := v.ValidatePhotos(nil)
	assert.True(t, result.Valid, "an empty batch is vacuously valid")
	assert.Equal(t, 0, result.TotalPhotos)
	assert.False(t, result.MissingGPSWarning)
	assert.False(t, result.MissingDateError)
	assert.Nil(t, result.DateRange)
	assert.Empty(t, result.Message)
}

func TestValidatePhotosValidityIgnoresGPSAndDate(t *testing.T) {
	v := newValidator(Options{}, func([]byte) (*models.PhotoMetadata, error) {
		return nil, errors.New("no exif")
	})

	files := []*models.PhotoFile{
		photo("a.jpg", "image/jpeg", 100),
		photo("b.png", "image/png", 200),
	}
	result := v.ValidatePhotos(files)

	assert.True(t, result.Valid, "missing GPS/date never invalidates the batch")
	assert.Equal(t, 2, result.TotalPhotos)
	assert.Equal(t, 0, result.PhotosWithGPS)
	assert.Equal(t, 2, result.PhotosWithoutGPS)
	assert.True(t, result.MissingGPSWarning)
	assert.False(t, result.MissingDateError, "date policy is delegated to the server")
	assert.Equal(t, "Some photos are missing GPS coordinates. You will need to provide a manual location.", result.Message)
}

func TestValidatePhotosInvalidFile(t *testing.T) {
	v := newValidator(Options{}, func([]byte) (*models.PhotoMetadata, error) {
		return &models.PhotoMetadata{Latitude: floatPtr(1), Longitude: floatPtr(2), DateTimeOriginal: "2024:06:01 10:00:00"}, nil
	})

	files := []*models.PhotoFile{
		photo("good.jpg", "image/jpeg", 100),
		photo("bad.gif", "image/gif", 100),
	}
	result := v.ValidatePhotos(files)

	assert.False(t, result.Valid)
	assert.Equal(t, 1, result.PhotosWithGPS)
}

func TestValidatePhotosDateRange(t *testing.T) {
	dates := map[string]string{
		"a.jpg": "2024:06:05 12:00:00",
		"b.jpg": "2024:06:01 08:00:00",
		"c.jpg": "2024:06:03 18:30:00",
	}
	v := New(Options{})
	v.extract = func(data []byte) (*models.PhotoMetadata, error) {
		return &models.PhotoMetadata{DateTimeOriginal: dates[string(data)]}, nil
	}

	var files []*models.PhotoFile
	for name := range dates {
		files = append(files, &models.PhotoFile{Name: name, MIMEType: "image/jpeg", Size: 10, Data: []byte(name)})
	}

	result := v.ValidatePhotos(files)
	require.NotNil(t, result.DateRange)
	assert.Equal(t, time.Date(2024, time.June, 1, 8, 0, 0, 0, time.Local), result.DateRange.Start)
	assert.Equal(t, time.Date(2024, time.June, 5, 12, 0, 0, 0, time.Local), result.DateRange.End)
	assert.Equal(t, 3, result.PhotosWithDate)
}

func TestValidatePhotosRequireDateMetadata(t *testing.T) {
	v := newValidator(Options{RequireDateMetadata: true}, func([]byte) (*models.PhotoMetadata, error) {
		return &models.PhotoMetadata{Latitude: floatPtr(1), Longitude: floatPtr(2)}, nil
	})

	result := v.ValidatePhotos([]*models.PhotoFile{photo("a.jpg", "image/jpeg", 100)})
	assert.True(t, result.MissingDateError)
	assert.Equal(t, "Some photos are missing date information. All photos must have a date taken.", result.Message)
}

func TestSummary(t *testing.T) {
	full := models.PhotoValidation{HasGPS: true, HasDate: true, IsValidFormat: true, IsValidSize: true, Errors: []string{}}
	assert.Equal(t, "Valid photo with GPS and date", Summary(full))

	partial := models.PhotoValidation{IsValidFormat: true, IsValidSize: false, Errors: []string{"File size exceeds 10MB limit."}}
	assert.Equal(t, "No GPS, No date, Too large", Summary(partial))
}

func TestExtractMetadataRejectsGarbage(t *testing.T) {
	// Real extraction path: arbitrary bytes are not an EXIF container.
	_, err := extractMetadata([]byte("definitely not a jpeg"))
	assert.Error(t, err)
}
