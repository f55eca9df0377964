// Package vehicle resolves vehicle identifiers from vendor catalog URLs.
package vehicle

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/arrowtools/arrowcat/internal/types"
)

// assembledPath matches the fixed path segment carrying the vehicle id,
// e.g. /en/assembled/1749/Honda-CRF-300-L-2021-2024.
var assembledPath = regexp.MustCompile(`/assembled/(\d+)/`)

// Resolver extracts vehicle ids from URLs belonging to one vendor host.
type Resolver struct {
	host string
}

// NewResolver builds a resolver bound to the vendor base URL's host.
func NewResolver(baseURL string) (*Resolver, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Hostname() == "" {
		return nil, fmt.Errorf("invalid vendor base URL %q", baseURL)
	}
	return &Resolver{host: strings.ToLower(u.Hostname())}, nil
}

// ResolveID extracts the vehicle id embedded in an assembled-product URL.
// URLs outside the vendor site fail with ErrInvalidSource; vendor URLs
// without a numeric assembled segment fail with ErrNotFound.
func (r *Resolver) ResolveID(rawURL string) (int, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", types.ErrInvalidSource, err)
	}

	host := strings.ToLower(u.Hostname())
	if host != r.host && host != "www."+r.host && "www."+host != r.host {
		return 0, fmt.Errorf("%w: host %q", types.ErrInvalidSource, host)
	}
	if !strings.Contains(u.Path, "/assembled/") {
		return 0, fmt.Errorf("%w: path %q has no assembled segment", types.ErrInvalidSource, u.Path)
	}

	m := assembledPath.FindStringSubmatch(u.Path)
	if m == nil {
		return 0, fmt.Errorf("%w: no vehicle id in %q", types.ErrNotFound, u.Path)
	}

	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: vehicle id %q", types.ErrNotFound, m[1])
	}
	return id, nil
}

// Slug turns a vehicle model into a filesystem-friendly token for export
// file names ("Honda CRF 300 L" -> "Honda_CRF_300_L").
func Slug(model string) string {
	if model == "" {
		return "unknown"
	}
	s := strings.ReplaceAll(model, " ", "_")
	return strings.ReplaceAll(s, "/", "-")
}
