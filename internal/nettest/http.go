package nettest

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Compile-time interface guard.
var _ Test = (*HTTPDownloadTest)(nil)

// HTTPDownloadTest estimates downstream throughput by fetching a URL and
// timing the transfer. A rough speed test, not a calibrated benchmark.
type HTTPDownloadTest struct {
	url      string
	maxBytes int64
	client   *http.Client
}

// NewHTTPDownloadTest creates a download test capped at maxBytes
// (default 10 MiB) with the given overall timeout (default 30s).
// Self-signed TLS certificates are accepted since survey targets are
// often local appliances.
func NewHTTPDownloadTest(url string, maxBytes int64, timeout time.Duration) *HTTPDownloadTest {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPDownloadTest{
		url:      url,
		maxBytes: maxBytes,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig:   &tls.Config{MinVersion: tls.VersionTLS12, InsecureSkipVerify: true}, //nolint:gosec // G402: survey targets use self-signed certs
				DisableKeepAlives: true,
			},
		},
	}
}

func (t *HTTPDownloadTest) Name() string { return "http_download" }

// Run fetches the URL, reading at most maxBytes, and reports throughput.
func (t *HTTPDownloadTest) Run(ctx context.Context) Result {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.url, http.NoBody)
	if err != nil {
		return failure(t.Name(), start, fmt.Sprintf("invalid URL %q: %v", t.url, err))
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return failure(t.Name(), start, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failure(t.Name(), start, fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	ttfb := time.Since(start)

	n, err := io.Copy(io.Discard, io.LimitReader(resp.Body, t.maxBytes))
	elapsed := time.Since(start)
	if err != nil && n == 0 {
		return failure(t.Name(), start, fmt.Sprintf("read body: %v", err))
	}

	seconds := elapsed.Seconds()
	if seconds <= 0 {
		seconds = 1e-9
	}
	mbps := float64(n) * 8 / 1e6 / seconds

	return Result{
		Name:       t.Name(),
		Success:    true,
		DurationMs: float64(elapsed) / float64(time.Millisecond),
		Detail:     t.url,
		Metrics: map[string]float64{
			"bytes":         float64(n),
			"ttfb_ms":       float64(ttfb) / float64(time.Millisecond),
			"download_mbps": mbps,
		},
		RanAt: time.Now().UTC(),
	}
}
