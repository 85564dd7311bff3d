package run

import (
	"strings"

	"github.com/agreyes/webmon/internal/probe"
)

// Summary is the aggregate of one complete pass over the target set.
// Outcomes keeps the caller-supplied target order.
type Summary struct {
	Total    int
	Outcomes []probe.Outcome
}

func (s Summary) Failed() []probe.Outcome {
	var out []probe.Outcome
	for _, o := range s.Outcomes {
		if !o.Available {
			out = append(out, o)
		}
	}
	return out
}

func (s Summary) Succeeded() []probe.Outcome {
	var out []probe.Outcome
	for _, o := range s.Outcomes {
		if o.Available {
			out = append(out, o)
		}
	}
	return out
}

// rawURLFallback bounds the domain field when a URL is too odd to split.
const rawURLFallback = 50

// SplitURL derives display fields from a raw URL by position: the segment
// after the scheme slashes is the domain, the rest is the path. URLs with
// fewer than three segments degrade to the truncated raw URL as domain and
// an empty path; this derivation never fails.
func SplitURL(raw string) (domain, path string) {
	parts := strings.Split(raw, "/")
	if len(parts) < 3 || parts[2] == "" {
		if len(raw) > rawURLFallback {
			return raw[:rawURLFallback], ""
		}
		return raw, ""
	}
	domain = parts[2]
	if len(parts) > 3 {
		path = "/" + strings.Join(parts[3:], "/")
	}
	return domain, path
}
