package source

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"eco_hotels/internal/domain"
)

//go:embed fixtures.yaml
var embeddedFixtures []byte

type catalog struct {
	Hotels []domain.RawRecord `yaml:"hotels"`
}

// FixtureSource yields hotels from a YAML catalog. It re-reads and re-parses the
// catalog on every call so each run gets fresh records.
type FixtureSource struct {
	path string // empty means the embedded catalog
}

// NewFixtureSource reads from path, or from the embedded catalog when path is empty.
func NewFixtureSource(path string) *FixtureSource { return &FixtureSource{path: path} }

var _ domain.RecordSource = (*FixtureSource)(nil)

func (s *FixtureSource) Produce(ctx context.Context) ([]domain.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAcquisition, err)
	}

	raw := embeddedFixtures
	if s.path != "" {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", domain.ErrAcquisition, s.path, err)
		}
		raw = b
	}

	var c catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: parse catalog: %v", domain.ErrAcquisition, err)
	}
	for i, h := range c.Hotels {
		if strings.TrimSpace(h.Name) == "" {
			return nil, fmt.Errorf("%w: hotel #%d has no name", domain.ErrAcquisition, i+1)
		}
	}
	return c.Hotels, nil
}
