package pipeline

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrInvalidOrigin indicates a site origin that is not an absolute http(s) URL.
var ErrInvalidOrigin = errors.New("invalid site origin")

// DefaultExternalRel lists the rel tokens added to external links.
var DefaultExternalRel = []string{"nofollow", "noopener", "noreferrer"}

// externalTarget opens external links in a new browsing context.
const externalTarget = "_blank"

// Origin identifies a site by scheme and host (including any port).
// The zero Origin matches nothing, so every absolute link is external.
type Origin struct {
	Scheme string
	Host   string
}

// ParseOrigin parses an absolute http(s) URL into an Origin.
// An empty string yields the zero Origin.
func ParseOrigin(raw string) (Origin, error) {
	if raw == "" {
		return Origin{}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Origin{}, fmt.Errorf("%w: %v", ErrInvalidOrigin, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return Origin{}, fmt.Errorf("%w: %q (want http(s)://host)", ErrInvalidOrigin, raw)
	}
	return Origin{Scheme: scheme, Host: strings.ToLower(u.Host)}, nil
}

// IsZero reports whether no origin is configured.
func (o Origin) IsZero() bool {
	return o.Host == ""
}

// String returns the origin as scheme://host.
func (o Origin) String() string {
	if o.IsZero() {
		return ""
	}
	return o.Scheme + "://" + o.Host
}

// IsExternal reports whether href points at an absolute http(s) or
// protocol-relative URL on a different origin. Relative paths, fragments and
// non-web schemes (mailto:, tel:) are never external.
func (o Origin) IsExternal(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return false
	}

	u, err := url.Parse(href)
	if err != nil || u.Host == "" {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case "http", "https":
	case "":
		// Protocol-relative: inherits the page scheme, compare host only.
		if !strings.HasPrefix(href, "//") {
			return false
		}
	default:
		return false
	}

	if o.IsZero() {
		return true
	}
	if !strings.EqualFold(u.Host, o.Host) {
		return true
	}
	return scheme != "" && scheme != o.Scheme
}

// ExternalLinks returns a pass that sets target="_blank" and merges rel tokens
// on every anchor whose href is external to origin. Existing rel tokens are kept.
func ExternalLinks(origin Origin, rel []string) TreePass {
	return func(root *html.Node) {
		walkElements(root, func(n *html.Node) {
			if n.DataAtom != atom.A {
				return
			}
			href, ok := getAttr(n, "href")
			if !ok || !origin.IsExternal(href) {
				return
			}
			setAttr(n, "target", externalTarget)
			existing, _ := getAttr(n, "rel")
			setAttr(n, "rel", mergeTokens(existing, rel))
		})
	}
}

// mergeTokens appends tokens missing from the space-separated list.
func mergeTokens(list string, tokens []string) string {
	fields := strings.Fields(list)
	seen := make(map[string]bool, len(fields)+len(tokens))
	for _, f := range fields {
		seen[strings.ToLower(f)] = true
	}
	for _, t := range tokens {
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		fields = append(fields, t)
	}
	return strings.Join(fields, " ")
}
