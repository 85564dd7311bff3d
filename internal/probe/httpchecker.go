package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/agreyes/webmon/internal/target"
)

// browserHeaders makes the checker look like a regular browser; several of
// the monitored sites reject clients that identify as automation.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "*/*",
	"Accept-Language": "es-ES,es;q=0.9,en;q=0.8",
	"Referer":         "https://www.google.com/",
}

// HTTPChecker verifies downloadable-document targets with a lightweight
// HEAD exchange, falling back to GET when HEAD does not come back 2xx.
// TLS verification stays on and redirects are followed.
type HTTPChecker struct {
	Client  *http.Client
	timeout time.Duration
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{
		Client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

func (c *HTTPChecker) Check(ctx context.Context, t target.Target) Outcome {
	observed := time.Now()

	code, err := c.request(ctx, http.MethodHead, t.URL)
	if err == nil && is2xx(code) {
		return Outcome{Target: t, Available: true, Detail: fmt.Sprintf("HEAD %d", code), ObservedAt: observed}
	}

	code, err = c.request(ctx, http.MethodGet, t.URL)
	if err != nil {
		return Outcome{Target: t, Available: false, Detail: c.transportDetail(err), ObservedAt: observed}
	}
	if is2xx(code) {
		return Outcome{Target: t, Available: true, Detail: fmt.Sprintf("GET fallback %d", code), ObservedAt: observed}
	}
	return Outcome{Target: t, Available: false, Detail: fmt.Sprintf("HttpStatusFailure: %d", code), ObservedAt: observed}
}

// request issues one exchange and reports only the status code; the response
// body is closed unread so document payloads are never materialized.
func (c *HTTPChecker) request(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, err
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func is2xx(code int) bool {
	return code >= 200 && code < 300
}

// transportDetail maps a transport-level fault onto the error taxonomy.
// Each cause class gets a distinct prefix so consumers can pattern-match it
// without parsing free text.
func (c *HTTPChecker) transportDetail(err error) string {
	var certVerify *tls.CertificateVerificationError
	var hostname x509.HostnameError
	var authority x509.UnknownAuthorityError
	var invalid x509.CertificateInvalidError
	if errors.As(err, &certVerify) || errors.As(err, &hostname) ||
		errors.As(err, &authority) || errors.As(err, &invalid) {
		return truncate("TlsFailure: "+err.Error(), detailLimit)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Sprintf("TransportTimeout: no response within %ds", int(c.timeout.Seconds()))
	}

	return truncate("TransportFailure: "+err.Error(), detailLimit)
}
