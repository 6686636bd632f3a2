package rtdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a minimal REST client for a Firebase-style realtime database.
// Every node is addressed as <baseURL>/<path>.json.
type Client struct {
	baseURL   string
	authToken string
	client    *http.Client
}

// NewClient constructs an RTDB client.
func NewClient(baseURL, authToken string) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("rtdb: empty base url")
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		authToken: authToken,
		client:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Racks reads raw rack values for a station. Values of any JSON type are
// folded to their string form; a null node yields an empty map.
func (c *Client) Racks(ctx context.Context, stationID string) (map[string]string, error) {
	if stationID == "" {
		return nil, errors.New("rtdb: empty station id")
	}
	var node map[string]any
	found, err := c.getJSON(ctx, "stations/"+stationID+"/racks", &node)
	if err != nil {
		return nil, err
	}
	if !found {
		return map[string]string{}, nil
	}
	racks := make(map[string]string, len(node))
	for key, value := range node {
		racks[key] = stringify(value)
	}
	return racks, nil
}

// RequestFlag reads the pending stock-request flag for a station.
// An absent node reads as false.
func (c *Client) RequestFlag(ctx context.Context, stationID string) (bool, error) {
	if stationID == "" {
		return false, errors.New("rtdb: empty station id")
	}
	var flag bool
	found, err := c.getJSON(ctx, "stations/"+stationID+"/request", &flag)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return flag, nil
}

// SetRequestFlag writes the stock-request flag for a station.
func (c *Client) SetRequestFlag(ctx context.Context, stationID string, pending bool) error {
	if stationID == "" {
		return errors.New("rtdb: empty station id")
	}
	return c.putJSON(ctx, "stations/"+stationID+"/request", pending)
}

// TriggerBuzzer sets the buzzer flag for a station. The core only ever
// writes true; the field hardware clears it.
func (c *Client) TriggerBuzzer(ctx context.Context, stationID string) error {
	if stationID == "" {
		return errors.New("rtdb: empty station id")
	}
	return c.putJSON(ctx, "stations/"+stationID+"/buzzer", true)
}

func (c *Client) nodeURL(path string) string {
	u := c.baseURL + "/" + path + ".json"
	if c.authToken != "" {
		u += "?auth=" + url.QueryEscape(c.authToken)
	}
	return u
}

// getJSON reads a node. It reports found=false when the node is absent
// (RTDB answers 200 with a null body) or the server returns 404.
func (c *Client) getJSON(ctx context.Context, path string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.nodeURL(path), nil)
	if err != nil {
		return false, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode >= 300 {
		return false, fmt.Errorf("rtdb: http %d", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return false, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) putJSON(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.nodeURL(path), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("rtdb: http %d", resp.StatusCode)
	}
	return nil
}

// stringify folds a decoded JSON value to the string form the status
// interpreter compares against. Sensors report 1/0 as numbers, strings or
// booleans depending on firmware revision.
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
