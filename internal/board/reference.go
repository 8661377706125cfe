// Package board turns operator-supplied board URLs into provider references
// and builds the search click-out links shown next to results.
package board

import (
	"net/url"
	"strings"

	"github.com/amishk599/boardscan/internal/model"
)

// Host markers of the supported hiring platforms.
const (
	leverHostMarker      = "lever.co"
	greenhouseHostMarker = "greenhouse.io"
)

// ParseReference maps a board URL such as https://jobs.lever.co/wayve or
// https://boards.greenhouse.io/acme to its provider and slug. Anything else,
// including a provider URL without a path, is model.SourceUnknown with an
// empty slug.
func ParseReference(rawURL string) model.BoardRef {
	unknown := model.BoardRef{Source: model.SourceUnknown}

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return unknown
	}

	var source model.Source
	host := strings.ToLower(u.Hostname())
	switch {
	case strings.Contains(host, leverHostMarker):
		source = model.SourceLever
	case strings.Contains(host, greenhouseHostMarker):
		source = model.SourceGreenhouse
	default:
		return unknown
	}

	for _, segment := range strings.Split(u.Path, "/") {
		if segment != "" {
			return model.BoardRef{Source: source, Slug: segment}
		}
	}
	return unknown
}
