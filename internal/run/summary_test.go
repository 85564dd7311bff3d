package run

import (
	"strings"
	"testing"

	"github.com/agreyes/webmon/internal/probe"
	"github.com/agreyes/webmon/internal/target"
)

func outcome(url string, available bool) probe.Outcome {
	return probe.Outcome{Target: target.Target{URL: url}, Available: available}
}

func TestSummary_PartitionInvariant(t *testing.T) {
	s := Summary{
		Total: 4,
		Outcomes: []probe.Outcome{
			outcome("https://a.example", true),
			outcome("https://b.example", false),
			outcome("https://c.example", true),
			outcome("https://d.example", false),
		},
	}
	if got := len(s.Failed()) + len(s.Succeeded()); got != s.Total {
		t.Fatalf("failed+succeeded=%d, want total=%d", got, s.Total)
	}
	if len(s.Outcomes) != s.Total {
		t.Fatalf("outcomes=%d, want total=%d", len(s.Outcomes), s.Total)
	}
}

func TestSplitURL(t *testing.T) {
	cases := []struct {
		raw        string
		wantDomain string
		wantPath   string
	}{
		{"https://www.example.com/a/b.pdf", "www.example.com", "/a/b.pdf"},
		{"https://example.com", "example.com", ""},
		{"https://example.com/", "example.com", "/"},
		{"nonsense", "nonsense", ""},
	}
	for _, c := range cases {
		domain, path := SplitURL(c.raw)
		if domain != c.wantDomain || path != c.wantPath {
			t.Errorf("SplitURL(%q) = (%q, %q), want (%q, %q)", c.raw, domain, path, c.wantDomain, c.wantPath)
		}
	}
}

func TestSplitURL_LongRawFallback(t *testing.T) {
	raw := "x" + strings.Repeat("y", 100)
	domain, path := SplitURL(raw)
	if len(domain) != rawURLFallback {
		t.Fatalf("want fallback domain capped at %d, got %d", rawURLFallback, len(domain))
	}
	if path != "" {
		t.Fatalf("want empty path on fallback, got %q", path)
	}
}
