package source

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"eco_hotels/internal/adapters/observability"
	"eco_hotels/internal/domain"
)

const probeTimeout = 5 * time.Second

// HealthProbe pings <base>/health on the acquisition target.
type HealthProbe struct {
	base string
	hc   *http.Client
}

func NewHealthProbe(base string) *HealthProbe {
	return &HealthProbe{
		base: strings.TrimSuffix(base, "/"),
		hc:   &http.Client{Timeout: probeTimeout},
	}
}

var _ domain.HealthProber = (*HealthProbe)(nil)

// Probe returns the HTTP status, or an error when no response arrived.
func (p *HealthProbe) Probe(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.base+"/health", nil)
	if err != nil {
		return 0, err
	}
	start := time.Now()
	resp, err := p.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("acquisition", "health", 0, time.Since(start))
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	observability.ObserveExternal("acquisition", "health", resp.StatusCode, time.Since(start))
	return resp.StatusCode, nil
}
