// Package uploadflow models the lifecycle of a photo upload as a closed set
// of states with checked transitions. Exactly one state is active at a time;
// success and error are terminal, except that an error may be retried back
// into validation.
package uploadflow

import "github.com/marsisca/travelog/internal/models"

// Kind discriminates the upload states.
type Kind string

const (
	KindIdle               Kind = "idle"
	KindSelecting          Kind = "selecting"
	KindValidating         Kind = "validating"
	KindValidated          Kind = "validated"
	KindRequestingLocation Kind = "requesting_location"
	KindUploading          Kind = "uploading"
	KindProcessing         Kind = "processing"
	KindSuccess            Kind = "success"
	KindError              Kind = "error"
)

// State is the sealed upload-state union. Only the types in this package
// implement it, so switching over Kind covers every case.
type State interface {
	Kind() Kind
}

// Idle is the initial state, before any photos are selected.
type Idle struct{}

// Selecting is active while the user is picking files.
type Selecting struct{}

// Validating carries the per-file validation progress percentage.
type Validating struct {
	Progress int
}

// Validated carries the batch verdict.
type Validated struct {
	Result models.ValidationResult
}

// RequestingLocation is active while the user supplies a manual location for
// a batch where no photo has GPS coordinates.
type RequestingLocation struct{}

// Uploading carries the upload progress percentage.
type Uploading struct {
	Progress int
}

// Processing is active after the server acknowledged receipt and is deriving
// the trip.
type Processing struct {
	Message string
}

// Success is terminal and carries the created trip's identifier.
type Success struct {
	TripID int64
}

// Error is terminal (modulo retry) and carries the failure detail.
type Error struct {
	Err models.UploadError
}

func (Idle) Kind() Kind               { return KindIdle }
func (Selecting) Kind() Kind          { return KindSelecting }
func (Validating) Kind() Kind         { return KindValidating }
func (Validated) Kind() Kind          { return KindValidated }
func (RequestingLocation) Kind() Kind { return KindRequestingLocation }
func (Uploading) Kind() Kind          { return KindUploading }
func (Processing) Kind() Kind         { return KindProcessing }
func (Success) Kind() Kind            { return KindSuccess }
func (Error) Kind() Kind              { return KindError }
