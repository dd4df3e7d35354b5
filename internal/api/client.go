// internal/api/client.go
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redlightcam/extension/internal/journal"
)

// Client handles communication with the evidence review web frontend.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Healthcheck checks if the evidence review frontend is reachable.
func (c *Client) Healthcheck() error {
	resp, err := c.httpClient.Get(c.baseURL + "/healthcheck")
	if err != nil {
		return fmt.Errorf("healthcheck request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck returned status %d", resp.StatusCode)
	}
	return nil
}

// captureUpload is the wire form of a capture record.
type captureUpload struct {
	Offence        string    `json:"offence"`
	WorldX         float64   `json:"worldX"`
	WorldY         float64   `json:"worldY"`
	WorldZ         float64   `json:"worldZ"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	SimTime        uint64    `json:"simTime"`
	Command        string    `json:"command"`
	OriginalCamera string    `json:"originalCamera"`
	CapturedAt     time.Time `json:"capturedAt"`
}

// UploadCapture sends a single capture record to the evidence review frontend.
func (c *Client) UploadCapture(capture journal.Capture) error {
	payload := captureUpload{
		Offence:        capture.Offence,
		WorldX:         capture.WorldX,
		WorldY:         capture.WorldY,
		WorldZ:         capture.WorldZ,
		Latitude:       capture.Latitude,
		Longitude:      capture.Longitude,
		SimTime:        capture.SimTime,
		Command:        capture.Command,
		OriginalCamera: capture.OriginalCamera,
		CapturedAt:     capture.CapturedAt,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode capture: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/v1/captures/add", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upload returned status %d", resp.StatusCode)
	}
	return nil
}
