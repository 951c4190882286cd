package models

import "time"

// PhotoFile is a photo selected for validation or upload. It carries the
// declared MIME type and raw bytes; nothing here assumes the file still
// exists on disk once loaded.
type PhotoFile struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Data     []byte `json:"-"`
}

// PhotoMetadata holds EXIF fields extracted from a photo. Timestamp fields
// keep the raw EXIF string form ("YYYY:MM:DD HH:mm:ss"); Extra carries every
// other tag the parser surfaced.
type PhotoMetadata struct {
	Latitude          *float64          `json:"latitude,omitempty"`
	Longitude         *float64          `json:"longitude,omitempty"`
	DateTimeOriginal  string            `json:"date_time_original,omitempty"`
	DateTimeDigitized string            `json:"date_time_digitized,omitempty"`
	Make              string            `json:"make,omitempty"`
	Model             string            `json:"model,omitempty"`
	Extra             map[string]string `json:"extra,omitempty"`
}

// PhotoValidation is the result of validating a single photo.
// Format and size flags are computed independently of metadata extraction.
type PhotoValidation struct {
	File          *PhotoFile     `json:"file"`
	HasGPS        bool           `json:"has_gps"`
	HasDate       bool           `json:"has_date"`
	IsValidFormat bool           `json:"is_valid_format"`
	IsValidSize   bool           `json:"is_valid_size"`
	Metadata      *PhotoMetadata `json:"metadata,omitempty"`
	Errors        []string       `json:"errors"`
}

// DateRange is the span covered by the capture timestamps of a photo batch.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ValidationResult summarizes validation across a photo batch.
// Valid depends only on format and size; GPS and date presence are reported
// but never block an upload.
type ValidationResult struct {
	Valid             bool       `json:"valid"`
	TotalPhotos       int        `json:"totalPhotos"`
	PhotosWithGPS     int        `json:"photosWithGPS"`
	PhotosWithoutGPS  int        `json:"photosWithoutGPS"`
	PhotosWithDate    int        `json:"photosWithDate"`
	PhotosWithoutDate int        `json:"photosWithoutDate"`
	MissingGPSWarning bool       `json:"missingGPSWarning"`
	MissingDateError  bool       `json:"missingDateError"`
	Message           string     `json:"message,omitempty"`
	DateRange         *DateRange `json:"dateRange,omitempty"`
}

// ManualLocation is a user-supplied location for batches where no photo
// carries GPS coordinates. It is forwarded to the server as-is.
type ManualLocation struct {
	CountryID int64    `json:"countryId"`
	CityName  string   `json:"cityName,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Trip is a travel-journal trip as returned by the server.
type Trip struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	Rating      *int    `json:"rating"`
	UserID      int64   `json:"userId"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// TripStats reports what the server derived while creating a trip from
// photos.
type TripStats struct {
	PhotosProcessed  int `json:"photosProcessed"`
	PhotosUploaded   int `json:"photosUploaded"`
	PhotosFailed     int `json:"photosFailed"`
	DiariesCreated   int `json:"diariesCreated"`
	LocationsCreated int `json:"locationsCreated"`
	CountriesVisited int `json:"countriesVisited"`
	DaySpan          int `json:"daySpan"`
}

// TripCreationResult is the payload of a successful create-from-photos or
// add-photos call.
type TripCreationResult struct {
	Trip     Trip      `json:"trip"`
	Stats    TripStats `json:"stats"`
	Warnings []string  `json:"warnings"`
}

// UploadError is a structured, machine-readable upload failure.
// Recoverable means the caller may retry without changing the input.
type UploadError struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Details     any    `json:"details,omitempty"`
	Recoverable bool   `json:"recoverable"`
}

// User is the authenticated account stored in the local session.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UploadRecord is one upload attempt kept in the local history.
type UploadRecord struct {
	ID         string    `json:"id"`
	Endpoint   string    `json:"endpoint"`
	PhotoCount int       `json:"photo_count"`
	Outcome    string    `json:"outcome"`
	TripID     *int64    `json:"trip_id,omitempty"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
