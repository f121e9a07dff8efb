package geodata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/AnishBandal/deforestation-monitoring-tool/internal/domain"
)

// Client talks to the upstream geodata service, an HTTP API that renders
// a vegetation-loss map as an HTML fragment for a point, radius and year.
type Client struct {
	baseURL string
	http    *http.Client
}

// Query is one map request. Distance is in kilometers.
type Query struct {
	Latitude  float64
	Longitude float64
	Distance  float64
	Year      int
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchMap calls GET {base}/getData and returns the HTML fragment body.
func (c *Client) FetchMap(ctx context.Context, q Query) ([]byte, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, domain.ErrInternal(err)
	}
	u = u.JoinPath("getData")

	vals := url.Values{}
	vals.Set("latitude", strconv.FormatFloat(q.Latitude, 'f', -1, 64))
	vals.Set("longitude", strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	vals.Set("distance", strconv.FormatFloat(q.Distance, 'f', -1, 64))
	vals.Set("year", strconv.Itoa(q.Year))
	u.RawQuery = vals.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, domain.ErrInternal(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.ErrGeodataUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.ErrGeodataUnavailable(fmt.Errorf("upstream status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.ErrGeodataUnavailable(err)
	}
	return body, nil
}
