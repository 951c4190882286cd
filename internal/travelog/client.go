// Package travelog is the HTTP client for the travel-journal backend. It
// covers authentication, trip listing, server-side photo validation, and the
// progress-reporting photo uploads that create or extend trips.
package travelog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/marsisca/travelog/internal/models"
)

// TokenProvider supplies the bearer credential for authenticated requests.
// The second return value is false when no session is available; requests are
// still attempted without credentials in that case.
type TokenProvider func() (string, bool)

// NoToken is a TokenProvider for unauthenticated clients.
func NoToken() (string, bool) { return "", false }

// Client talks to the travel-journal API.
type Client struct {
	baseURL string
	tokens  TokenProvider
	client  *http.Client
	// Uploads carry whole photo batches, so they are bounded by the
	// caller's context rather than a wall-clock timeout.
	uploadClient *http.Client
	logger       *slog.Logger
}

// NewClient creates an API client for the given base URL. The token provider
// is consulted per request; pass NoToken for anonymous access.
func NewClient(baseURL string, tokens TokenProvider) *Client {
	if tokens == nil {
		tokens = NoToken
	}
	return &Client{
		baseURL:      baseURL,
		tokens:       tokens,
		client:       &http.Client{Timeout: 30 * time.Second},
		uploadClient: &http.Client{},
		logger:       slog.Default().With("component", "travelog"),
	}
}

// authorize attaches the bearer token when one is available. A missing token
// is logged but not fatal; the server decides what anonymous callers may do.
func (c *Client) authorize(req *http.Request) {
	token, ok := c.tokens()
	if ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		c.logger.Warn("no auth token found", "url", req.URL.Path)
	}
}

// Login authenticates against the backend and returns the user together with
// the bearer token to persist.
func (c *Client) Login(email, password string) (*models.User, string, error) {
	endpoint := fmt.Sprintf("%s/auth/login", c.baseURL)

	requestBody := map[string]string{
		"email":    email,
		"password": password,
	}
	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequest("POST", endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("login failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    *struct {
			User  models.User `json:"user"`
			Token string      `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if !response.Success || response.Data == nil {
		return nil, "", fmt.Errorf("login rejected: %s", response.Message)
	}

	return &response.Data.User, response.Data.Token, nil
}

// GetTrips retrieves the caller's trips.
func (c *Client) GetTrips() ([]models.Trip, error) {
	endpoint := fmt.Sprintf("%s/trips", c.baseURL)

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Success bool          `json:"success"`
		Message string        `json:"message"`
		Data    []models.Trip `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode trips response: %w", err)
	}
	if !response.Success {
		return nil, fmt.Errorf("trips request rejected: %s", response.Message)
	}

	return response.Data, nil
}

// ValidatePhotosOnServer asks the backend for its own verdict on a photo
// batch. The server applies the full policy (including date checks the
// client leaves to it).
func (c *Client) ValidatePhotosOnServer(photos []*models.PhotoFile) (*models.ValidationResult, error) {
	endpoint := fmt.Sprintf("%s/trips/validate-photos", c.baseURL)

	body, contentType, err := buildMultipart(photos, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("build upload body: %w", err)
	}

	req, err := http.NewRequest("POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("validation request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var response struct {
		Success bool                     `json:"success"`
		Message string                   `json:"message"`
		Data    *models.ValidationResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode validation response: %w", err)
	}
	if !response.Success || response.Data == nil {
		return nil, fmt.Errorf("validation rejected: %s", response.Message)
	}

	return response.Data, nil
}
