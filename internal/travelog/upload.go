package travelog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"sync"

	"github.com/marsisca/travelog/internal/models"
)

// EventType discriminates upload progress events.
type EventType string

const (
	EventUploading  EventType = "uploading"
	EventProcessing EventType = "processing"
	EventSuccess    EventType = "success"
	EventError      EventType = "error"
)

// UploadEvent is one element of the upload event stream. Progress is set for
// uploading events, Message for processing, Result for success and Err for
// error events.
type UploadEvent struct {
	Type     EventType
	Progress int
	Message  string
	Result   *models.TripCreationResult
	Err      *models.UploadError
}

// UploadHandle is a running upload: a finite event stream terminated by
// exactly one success or error event, plus a cancellation hook. Cancelling
// after the stream has terminated is a no-op.
type UploadHandle struct {
	events chan UploadEvent
	cancel context.CancelFunc
}

// Events returns the stream of upload events. The channel is closed after
// the terminal event.
func (h *UploadHandle) Events() <-chan UploadEvent {
	return h.events
}

// Cancel aborts the in-flight upload. If the transport has not completed,
// the stream terminates with an ABORTED error; otherwise nothing happens.
func (h *UploadHandle) Cancel() {
	h.cancel()
}

// CreateTripFromPhotos uploads a photo batch to the create-from-photos
// endpoint. The manual location is forwarded only when non-nil; the backend
// derives everything else from the photos themselves.
func (c *Client) CreateTripFromPhotos(ctx context.Context, photos []*models.PhotoFile, userID int64, location *models.ManualLocation) *UploadHandle {
	return c.startUpload(ctx, "/trips/create-from-photos", photos, &userID, location)
}

// AddPhotosToTrip uploads photos into an existing trip.
func (c *Client) AddPhotosToTrip(ctx context.Context, tripID int64, photos []*models.PhotoFile) *UploadHandle {
	return c.startUpload(ctx, fmt.Sprintf("/trips/%d/add-photos", tripID), photos, nil, nil)
}

func (c *Client) startUpload(ctx context.Context, path string, photos []*models.PhotoFile, userID *int64, location *models.ManualLocation) *UploadHandle {
	ctx, cancel := context.WithCancel(ctx)
	handle := &UploadHandle{
		// Progress percentages are deduplicated, so the stream holds at
		// most ~100 ticks plus processing and the terminal event. The
		// buffer covers that, which means the upload goroutine never
		// blocks on a slow consumer.
		events: make(chan UploadEvent, 128),
		cancel: cancel,
	}

	go func() {
		defer cancel()
		c.runUpload(ctx, path, photos, userID, location, &eventSink{ch: handle.events})
	}()

	return handle
}

// eventSink serializes event emission. The terminal event closes the
// channel; anything the transport still tries to emit afterwards (a late
// progress tick from an aborted body read) is dropped instead of panicking
// on a closed channel.
type eventSink struct {
	mu     sync.Mutex
	ch     chan UploadEvent
	closed bool
}

func (s *eventSink) emit(event UploadEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.ch <- event
	if event.Type == EventSuccess || event.Type == EventError {
		s.closed = true
		close(s.ch)
	}
}

// runUpload performs one upload attempt and emits events on the given
// channel: zero or more uploading ticks, at most one processing event, then
// exactly one success or error event.
func (c *Client) runUpload(ctx context.Context, path string, photos []*models.PhotoFile, userID *int64, location *models.ManualLocation, sink *eventSink) {
	body, contentType, err := buildMultipart(photos, userID, location)
	if err != nil {
		sink.emit(errorEvent(models.UploadError{
			Code:        ErrCodeUnknown,
			Message:     fmt.Sprintf("failed to build upload body: %v", err),
			Recoverable: false,
		}))
		return
	}

	total := int64(len(body))
	reader := &progressReader{
		reader: bytes.NewReader(body),
		total:  total,
		onProgress: func(pct int) {
			sink.emit(UploadEvent{Type: EventUploading, Progress: pct})
		},
		onSent: func() {
			sink.emit(UploadEvent{Type: EventProcessing, Message: "Upload complete. Processing photos on server..."})
		},
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, reader)
	if err != nil {
		sink.emit(errorEvent(models.UploadError{
			Code:        ErrCodeUnknown,
			Message:     err.Error(),
			Recoverable: false,
		}))
		return
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.ContentLength = total
	c.authorize(req)

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			sink.emit(errorEvent(models.UploadError{
				Code:        ErrCodeAborted,
				Message:     "Upload was cancelled",
				Recoverable: true,
			}))
			return
		}
		sink.emit(errorEvent(models.UploadError{
			Code:        ErrCodeNetwork,
			Message:     "Network error occurred. Please check your connection.",
			Recoverable: true,
		}))
		return
	}
	defer resp.Body.Close()

	sink.emit(c.parseUploadResponse(ctx, resp))
}

// parseUploadResponse turns the server's reply into the terminal event.
// Nothing in here returns a Go error: every failure mode becomes a
// structured UploadError event.
func (c *Client) parseUploadResponse(ctx context.Context, resp *http.Response) UploadEvent {
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		// The body read also fails when the upload is cancelled while the
		// response is still streaming, which is an abort, not a network
		// fault.
		if ctx.Err() != nil {
			return errorEvent(models.UploadError{
				Code:        ErrCodeAborted,
				Message:     "Upload was cancelled",
				Recoverable: true,
			})
		}
		return errorEvent(models.UploadError{
			Code:        ErrCodeNetwork,
			Message:     "Network error occurred. Please check your connection.",
			Recoverable: true,
		})
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var envelope struct {
			Success bool                       `json:"success"`
			Message string                     `json:"message"`
			Data    *models.TripCreationResult `json:"data"`
		}
		if err := json.Unmarshal(respBody, &envelope); err != nil {
			return errorEvent(models.UploadError{
				Code:        ErrCodeParse,
				Message:     "Failed to parse server response",
				Recoverable: false,
			})
		}
		if !envelope.Success || envelope.Data == nil {
			message := envelope.Message
			if message == "" {
				message = "Unknown error occurred"
			}
			return errorEvent(models.UploadError{
				Code:        ErrCodeUnknown,
				Message:     message,
				Recoverable: false,
			})
		}
		return UploadEvent{Type: EventSuccess, Result: envelope.Data}
	}

	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   *struct {
			Code    string          `json:"code"`
			Message string          `json:"message"`
			Details json.RawMessage `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &envelope); err == nil && envelope.Error != nil && envelope.Error.Code != "" {
		message := envelope.Error.Message
		if message == "" {
			message = envelope.Message
		}
		if message == "" {
			message = "An error occurred"
		}
		var details any
		if len(envelope.Error.Details) > 0 {
			details = envelope.Error.Details
		}
		return errorEvent(models.UploadError{
			Code:        envelope.Error.Code,
			Message:     message,
			Details:     details,
			Recoverable: IsRecoverable(envelope.Error.Code),
		})
	}

	return errorEvent(models.UploadError{
		Code:        ErrCodeHTTP,
		Message:     fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		Recoverable: false,
	})
}

func errorEvent(err models.UploadError) UploadEvent {
	return UploadEvent{Type: EventError, Err: &err}
}

// buildMultipart assembles the upload payload: one "photos" part per file
// (with its declared MIME type), an optional "userId" field and an optional
// JSON-encoded "manualLocation" field.
func buildMultipart(photos []*models.PhotoFile, userID *int64, location *models.ManualLocation) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, photo := range photos {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photos"; filename="%s"`, escapeQuotes(photo.Name)))
		if photo.MIMEType != "" {
			header.Set("Content-Type", photo.MIMEType)
		} else {
			header.Set("Content-Type", "application/octet-stream")
		}
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(photo.Data); err != nil {
			return nil, "", err
		}
	}

	if userID != nil {
		if err := writer.WriteField("userId", strconv.FormatInt(*userID, 10)); err != nil {
			return nil, "", err
		}
	}

	if location != nil {
		encoded, err := json.Marshal(location)
		if err != nil {
			return nil, "", err
		}
		if err := writer.WriteField("manualLocation", string(encoded)); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}

// progressReader reports byte progress while the HTTP transport drains the
// request body. Percentages are emitted only when they increase, so the
// resulting sequence is strictly increasing; a non-positive total disables
// percentage reporting entirely.
type progressReader struct {
	reader     io.Reader
	total      int64
	sent       int64
	lastPct    int
	onProgress func(pct int)
	onSent     func()
	sentOnce   sync.Once
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.sent += int64(n)
		if pr.total > 0 && pr.onProgress != nil {
			pct := int(math.Round(float64(pr.sent) / float64(pr.total) * 100))
			if pct > 100 {
				pct = 100
			}
			if pct > pr.lastPct {
				pr.lastPct = pct
				pr.onProgress(pct)
			}
		}
	}
	if err == io.EOF && pr.onSent != nil {
		pr.sentOnce.Do(pr.onSent)
	}
	return n, err
}
