package probe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/agreyes/webmon/internal/browser"
	"github.com/agreyes/webmon/internal/target"
)

// Critical-error signatures: substrings whose presence in the markup prefix
// means the fetched content itself is an error page even though transport
// succeeded. Pages get the specific set, documents the broader one because a
// blocked download usually surfaces as a bare error stub.
var (
	pageErrorSignatures = []string{
		"404 not found",
		"500 internal server error",
		"503 service unavailable",
		"page not found",
		"página no encontrada",
	}
	documentErrorSignatures = []string{"404", "not found", "no encontrado", "error"}
)

const (
	pageSignatureWindow     = 1000
	documentSignatureWindow = 500

	// minMarkupLen is the smallest document length still counted as real
	// content when the page has no title.
	minMarkupLen = 100

	renderFaultLimit = 100
)

// pageState is what one navigation leaves behind.
type pageState struct {
	Title string
	HTML  string
}

// RenderChecker verifies targets that need a real rendering engine:
// JavaScript-dependent pages, and documents on hosts that block plain HTTP
// clients. It runs each navigation in a fresh tab of the shared session so a
// broken target can never poison the next one.
type RenderChecker struct {
	Session *browser.Session
	Timeout time.Duration
	Settle  time.Duration

	visit func(ctx context.Context, url string) (pageState, error)
}

func NewRenderChecker(s *browser.Session, timeout, settle time.Duration) *RenderChecker {
	rc := &RenderChecker{Session: s, Timeout: timeout, Settle: settle}
	rc.visit = rc.navigate
	return rc
}

func (rc *RenderChecker) Check(ctx context.Context, t target.Target) Outcome {
	observed := time.Now()

	st, err := rc.visit(ctx, t.URL)
	if err != nil {
		return Outcome{Target: t, Available: false, Detail: rc.errDetail(err), ObservedAt: observed}
	}

	available, detail := judge(st, t.Kind)
	return Outcome{Target: t, Available: available, Detail: detail, ObservedAt: observed}
}

func (rc *RenderChecker) navigate(ctx context.Context, url string) (pageState, error) {
	if err := ctx.Err(); err != nil {
		return pageState{}, err
	}

	tab, closeTab, err := rc.Session.NewTab()
	if err != nil {
		return pageState{}, err
	}
	defer closeTab()

	tctx, cancel := context.WithTimeout(tab, rc.Timeout)
	defer cancel()

	var st pageState
	err = chromedp.Run(tctx,
		chromedp.Navigate(url),
		// Settle delay: deferred scripts keep mutating the page right
		// after load, so inspect state only once they had their chance.
		chromedp.Sleep(rc.Settle),
		chromedp.Title(&st.Title),
		chromedp.OuterHTML("html", &st.HTML, chromedp.ByQuery),
	)
	return st, err
}

// judge inspects the rendered state and decides availability.
func judge(st pageState, kind target.Kind) (bool, string) {
	window, signatures := pageSignatureWindow, pageErrorSignatures
	if kind == target.Document {
		window, signatures = documentSignatureWindow, documentErrorSignatures
	}

	markup := strings.ToLower(st.HTML)
	if len(markup) > window {
		markup = markup[:window]
	}
	for _, sig := range signatures {
		if strings.Contains(markup, sig) {
			return false, "ContentError: critical error detected"
		}
	}

	if st.Title != "" {
		return true, truncate("title: "+st.Title, detailLimit)
	}
	if len(st.HTML) > minMarkupLen {
		return true, "available without title"
	}
	return false, "ContentError: no content"
}

// errDetail keeps navigation timeouts distinct from other session faults so
// operators can tell "too slow" apart from "broken".
func (rc *RenderChecker) errDetail(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("RenderTimeout: navigation exceeded %ds", int(rc.Timeout.Seconds()))
	}
	return truncate("RenderFault: "+err.Error(), renderFaultLimit)
}
