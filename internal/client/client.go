// Package client queries a running galaxyweather server.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/lox/galaxyweather/internal/httputil"
	"github.com/lox/galaxyweather/internal/models"
)

// ErrNotFound is returned when the server has no record for a day.
var ErrNotFound = errors.New("record not found")

type Client struct {
	baseURL    string
	http       *http.Client
	maxElapsed time.Duration
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       httputil.NewClient(0),
		maxElapsed: 30 * time.Second,
	}
}

// SetMaxElapsed bounds the total time spent retrying a request.
func (c *Client) SetMaxElapsed(d time.Duration) {
	c.maxElapsed = d
}

type DayWeatherResponse struct {
	Day     int            `json:"day"`
	Weather models.Weather `json:"weather"`
}

// DayWeather fetches the stored weather for day. Rate limiting and server
// errors are retried with exponential backoff.
func (c *Client) DayWeather(ctx context.Context, day int) (*DayWeatherResponse, error) {
	u := c.baseURL + "/api/weather?" + url.Values{"day": {strconv.Itoa(day)}}.Encode()

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("fetch day %d: %w", day, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrNotFound)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("fetch day %d: status %d", day, resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch day %d: status %d: %s", day, resp.StatusCode, strings.TrimSpace(string(b))))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxElapsedTime = c.maxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}

	var data DayWeatherResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return &data, nil
}
