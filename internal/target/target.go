package target

import (
	"net/url"
	"strings"
)

// Kind says which verification strategy applies to a URL.
type Kind int

const (
	// Page is a regular web page that needs a rendering engine.
	Page Kind = iota
	// Document is a downloadable file (PDF, Excel, ZIP, ...) that can be
	// verified with a plain HTTP exchange.
	Document
)

func (k Kind) String() string {
	if k == Document {
		return "document"
	}
	return "page"
}

// Target is one endpoint under observation. It is classified once per run
// and never mutated afterwards.
type Target struct {
	URL               string
	Kind              Kind
	RequiresRendering bool
}

var documentExtensions = []string{".pdf", ".xlsx", ".xls", ".xlsm", ".zip", ".doc", ".docx"}

// Classify decides the verification strategy for a raw URL. renderDomains
// lists hosts known to block non-browser clients; targets on those hosts must
// go through the rendering checker even when they are documents.
//
// Classify is total: malformed URLs come back as a plain Page target.
func Classify(rawURL string, renderDomains []string) Target {
	t := Target{URL: rawURL, Kind: Page}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return t
	}

	path := strings.ToLower(u.Path)
	for _, ext := range documentExtensions {
		if strings.HasSuffix(path, ext) {
			t.Kind = Document
			break
		}
	}

	host := strings.ToLower(u.Hostname())
	for _, d := range renderDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			t.RequiresRendering = true
			break
		}
	}

	return t
}
