// Package scoreclient is the Go client of the scorecard service.  Besides the
// plain HTTP API it keeps a local copy of a room's scorecard that is patched
// optimistically on every edit, rolled back when the server rejects the edit,
// and refetched after every settled request or realtime hint.
package scoreclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iliyamo/golf-scorecard/internal/model"
)

// API is the server surface the session needs.
type API interface {
	JoinRoom(ctx context.Context, username, roomName string) (*model.Membership, error)
	CreateRoom(ctx context.Context) (string, error)
	RoomScore(ctx context.Context, username, roomName string) (*model.RoomScore, error)
	CreateHole(ctx context.Context, username string, roomID int64, holeNumber, par int) (*model.Hole, error)
	RemoveHole(ctx context.Context, username string, roomID, holeID int64) error
	UpdateScore(ctx context.Context, scoreID, userID int64, value int) (*model.Score, error)
}

// APIError is a non-200 answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scorecard api: %d %s", e.Status, e.Message)
}

// HTTPClient implements API over HTTP.
type HTTPClient struct {
	base string
	hc   *http.Client
}

// NewHTTPClient targets baseURL, e.g. "http://localhost:8080".  A nil hc gets
// a client with a 10 second timeout.
func NewHTTPClient(baseURL string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{base: strings.TrimRight(baseURL, "/"), hc: hc}
}

func (c *HTTPClient) post(ctx context.Context, path string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) JoinRoom(ctx context.Context, username, roomName string) (*model.Membership, error) {
	var m model.Membership
	err := c.post(ctx, "/join-room", map[string]string{"username": username, "roomName": roomName}, &m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *HTTPClient) CreateRoom(ctx context.Context) (string, error) {
	var out struct {
		Room string `json:"room"`
	}
	if err := c.post(ctx, "/create-room", nil, &out); err != nil {
		return "", err
	}
	return out.Room, nil
}

func (c *HTTPClient) RoomScore(ctx context.Context, username, roomName string) (*model.RoomScore, error) {
	var rs model.RoomScore
	err := c.post(ctx, "/room-score/"+url.PathEscape(roomName), map[string]string{"username": username}, &rs)
	if err != nil {
		return nil, err
	}
	return &rs, nil
}

func (c *HTTPClient) CreateHole(ctx context.Context, username string, roomID int64, holeNumber, par int) (*model.Hole, error) {
	var h model.Hole
	err := c.post(ctx, "/create-hole", map[string]any{
		"username":   username,
		"roomId":     roomID,
		"holeNumber": holeNumber,
		"par":        par,
	}, &h)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *HTTPClient) RemoveHole(ctx context.Context, username string, roomID, holeID int64) error {
	return c.post(ctx, "/remove-hole", map[string]any{
		"username": username,
		"roomId":   roomID,
		"holeId":   holeID,
	}, nil)
}

func (c *HTTPClient) UpdateScore(ctx context.Context, scoreID, userID int64, value int) (*model.Score, error) {
	var s model.Score
	err := c.post(ctx, "/update-score", map[string]any{
		"userScoreId": scoreID,
		"userId":      userID,
		"score":       value,
	}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
