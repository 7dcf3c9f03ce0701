package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"ecbrates/internal/domain"
)

// ECB daily reference rates against EUR, all currencies, in the SDMX
// generic time-series format.
const ratesPath = "/service/data/EXR/D..EUR.SP00.A"

type ECBClient struct {
	http    *http.Client
	baseURL string
}

// FetchDay requests the reference rates for a single day (start and end
// period both set to it). Exactly one outbound call per run.
func (c *ECBClient) FetchDay(ctx context.Context, day string) ([]byte, error) {
	u, err := url.Parse(strings.TrimSuffix(c.baseURL, "/") + ratesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	q := u.Query()
	q.Set("startPeriod", day)
	q.Set("endPeriod", day)
	q.Set("format", "genericdata")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for day %q: %w", day, err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate source unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.BadStatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response for day %q: %w", day, err)
	}
	// A 2xx with an empty body is how the source says "nothing published
	// that day", not an error.
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, domain.ErrNoData
	}
	return body, nil
}

func NewECBClient(httpClient *http.Client, baseURL string) *ECBClient {
	return &ECBClient{http: httpClient, baseURL: baseURL}
}
