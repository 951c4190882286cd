package travelog

import "github.com/marsisca/travelog/internal/models"

// Upload error codes. Server-reported business failures use the same shape
// as client-side transport failures and are distinguished only by code.
const (
	ErrCodeMissingGPS      = "MISSING_GPS_COORDINATES"
	ErrCodeMissingDate     = "MISSING_DATE_METADATA"
	ErrCodeInvalidFormat   = "INVALID_PHOTO_FORMAT"
	ErrCodePhotoTooLarge   = "PHOTO_TOO_LARGE"
	ErrCodeGeocodingFailed = "GEOCODING_FAILED"
	ErrCodeWeatherFailed   = "WEATHER_API_FAILED"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeNetwork         = "NETWORK_ERROR"
	ErrCodeAborted         = "ABORTED"
	ErrCodeHTTP            = "HTTP_ERROR"
	ErrCodeParse           = "PARSE_ERROR"
	ErrCodeUnknown         = "UNKNOWN_ERROR"
)

// recoverableCodes are the server-reported codes that are safe to retry
// without changing the input. Cancellation is marked recoverable at the
// point where the ABORTED error is built, not here.
var recoverableCodes = map[string]bool{
	ErrCodeMissingGPS:  true,
	ErrCodeRateLimited: true,
	ErrCodeNetwork:     true,
}

// IsRecoverable reports whether a server error code is safe to retry as-is.
func IsRecoverable(code string) bool {
	return recoverableCodes[code]
}

// errorMessages maps error codes to fixed user-facing text.
var errorMessages = map[string]string{
	ErrCodeMissingGPS:      "Some photos are missing GPS data. Please provide a manual location.",
	ErrCodeMissingDate:     "Photos must have date information. Please use photos taken with a camera or smartphone.",
	ErrCodeInvalidFormat:   "One or more photos have an invalid format. Only JPEG, PNG, and HEIC are supported.",
	ErrCodePhotoTooLarge:   "One or more photos exceed the 10MB size limit.",
	ErrCodeGeocodingFailed: "Failed to identify location from GPS coordinates. Please try again.",
	ErrCodeWeatherFailed:   "Unable to fetch weather data. Trip will be created without weather information.",
	ErrCodeRateLimited:     "Too many requests. Please wait a moment and try again.",
	ErrCodeNetwork:         "Network error. Please check your connection and try again.",
	ErrCodeAborted:         "Upload was cancelled.",
}

// ErrorMessage returns the fixed user-facing message for an upload error,
// falling back to the error's own message for unmapped codes.
func ErrorMessage(err models.UploadError) string {
	if msg, ok := errorMessages[err.Code]; ok {
		return msg
	}
	return err.Message
}
