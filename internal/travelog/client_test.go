package travelog

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marsisca/travelog/internal/models"
)

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, "POST", r.Method)
		fmt.Fprint(w, `{"success":true,"message":"ok","data":{"user":{"id":7,"username":"marta","email":"marta@example.com"},"token":"jwt-token"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, NoToken)
	user, token, err := client.Login("marta@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "marta", user.Username)
	assert.Equal(t, "jwt-token", token)
}

func TestLoginRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false,"message":"invalid credentials"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, NoToken)
	_, _, err := client.Login("marta@example.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestGetTrips(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/trips", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"success":true,"message":"ok","data":[{"id":1,"name":"Dolomites"},{"id":2,"name":"Sicily"}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, func() (string, bool) { return "jwt-token", true })
	trips, err := client.GetTrips()
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, "Dolomites", trips[0].Name)
	assert.Equal(t, "Bearer jwt-token", gotAuth)
}

func TestValidatePhotosOnServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/trips/validate-photos", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(32<<20))
		require.Len(t, r.MultipartForm.File["photos"], 2)
		fmt.Fprint(w, `{"success":true,"message":"ok","data":{"valid":true,"totalPhotos":2,"photosWithGPS":1,"photosWithoutGPS":1,"missingGPSWarning":true}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, NoToken)
	photos := []*models.PhotoFile{
		{Name: "a.jpg", MIMEType: "image/jpeg", Size: 4, Data: []byte("aaaa")},
		{Name: "b.jpg", MIMEType: "image/jpeg", Size: 4, Data: []byte("bbbb")},
	}
	result, err := client.ValidatePhotosOnServer(photos)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 2, result.TotalPhotos)
	assert.True(t, result.MissingGPSWarning)
}

func TestErrorRecoverability(t *testing.T) {
	assert.True(t, IsRecoverable(ErrCodeRateLimited))
	assert.True(t, IsRecoverable(ErrCodeMissingGPS))
	assert.True(t, IsRecoverable(ErrCodeNetwork))
	assert.False(t, IsRecoverable(ErrCodeParse))
	assert.False(t, IsRecoverable(ErrCodeHTTP))
	assert.False(t, IsRecoverable(ErrCodeUnknown))
	assert.False(t, IsRecoverable("SOMETHING_NEW"))
}

func TestErrorMessageTable(t *testing.T) {
	assert.Equal(t, "Upload was cancelled.", ErrorMessage(models.UploadError{Code: ErrCodeAborted}))
	assert.Equal(t, "Too many requests. Please wait a moment and try again.", ErrorMessage(models.UploadError{Code: ErrCodeRateLimited}))

	// Unmapped codes fall back to the error's own message.
	assert.Equal(t, "raw server text", ErrorMessage(models.UploadError{Code: "CUSTOM", Message: "raw server text"}))
}
