package notify

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/agreyes/webmon/internal/probe"
	"github.com/agreyes/webmon/internal/run"
	"github.com/agreyes/webmon/internal/target"
)

func summaryOf(failed, succeeded int) run.Summary {
	var outcomes []probe.Outcome
	for i := 0; i < failed; i++ {
		outcomes = append(outcomes, probe.Outcome{
			Target:    target.Target{URL: fmt.Sprintf("https://down%d.example/missing.pdf", i)},
			Available: false,
			Detail:    "HttpStatusFailure: 404",
		})
	}
	for i := 0; i < succeeded; i++ {
		outcomes = append(outcomes, probe.Outcome{
			Target:    target.Target{URL: fmt.Sprintf("https://up%d.example/", i)},
			Available: true,
			Detail:    "HEAD 200",
		})
	}
	return run.Summary{Total: len(outcomes), Outcomes: outcomes}
}

func at() time.Time {
	return time.Date(2026, 8, 23, 9, 30, 0, 0, time.UTC)
}

func TestBuildCard_SelectsShape(t *testing.T) {
	if c := BuildCard(summaryOf(1, 1), at(), ""); c.Severity != SeverityAlert {
		t.Fatalf("want alert card when failures exist, got severity %v", c.Severity)
	}
	if c := BuildCard(summaryOf(0, 2), at(), ""); c.Severity != SeverityInfo {
		t.Fatalf("want info card when all available, got severity %v", c.Severity)
	}
}

func TestFailureCard_HeaderFacts(t *testing.T) {
	c := BuildCard(summaryOf(1, 2), at(), "")

	want := []Fact{
		{"📊 Total verificadas:", "3"},
		{"✅ Disponibles:", "**2** URLs"},
		{"❌ Con problemas:", "**1** URLs"},
		{"⏰ Verificación:", "23/08/2026 09:30:00"},
	}
	if diff := cmp.Diff(want, c.Facts[:4]); diff != "" {
		t.Fatalf("header facts mismatch (-want +got):\n%s", diff)
	}
	if c.ThemeColor != "dc3545" {
		t.Fatalf("want red theme, got %q", c.ThemeColor)
	}
}

func TestFailureCard_EntryReferencesDomain(t *testing.T) {
	s := run.Summary{Total: 2, Outcomes: []probe.Outcome{
		{Target: target.Target{URL: "https://ok.example/"}, Available: true, Detail: "title: OK"},
		{Target: target.Target{URL: "https://broken.example/file.pdf"}, Available: false, Detail: "HttpStatusFailure: 404"},
	}}
	c := BuildCard(s, at(), "")

	var found bool
	for _, f := range c.Facts {
		if strings.Contains(f.Name, "broken.example") {
			found = true
			if !strings.Contains(f.Value, "/file.pdf") {
				t.Fatalf("want path in entry value, got %q", f.Value)
			}
			if !strings.Contains(f.Value, "404") {
				t.Fatalf("want detail in entry value, got %q", f.Value)
			}
		}
	}
	if !found {
		t.Fatalf("no failure entry referencing broken.example in %+v", c.Facts)
	}
}

func TestFailureCard_OverflowCap(t *testing.T) {
	// 12 failures: 8 individual entries plus one overflow fact saying 4 more.
	c := BuildCard(summaryOf(12, 0), at(), "")

	var entries int
	var overflow *Fact
	for i, f := range c.Facts {
		if strings.HasPrefix(f.Name, "❌ ") && strings.Contains(f.Name, ".example") {
			entries++
		}
		if f.Name == "⚠️ Aviso:" {
			overflow = &c.Facts[i]
		}
	}
	if entries != maxFailureFacts {
		t.Fatalf("want %d failure entries, got %d", maxFailureFacts, entries)
	}
	if overflow == nil {
		t.Fatalf("missing overflow fact in %+v", c.Facts)
	}
	if !strings.Contains(overflow.Value, "4") {
		t.Fatalf("overflow must state the remaining count, got %q", overflow.Value)
	}
}

func TestFailureCard_SucceededBatches(t *testing.T) {
	c := BuildCard(summaryOf(1, 11), at(), "")

	var batchFacts, overflow int
	for _, f := range c.Facts {
		if strings.Contains(f.Value, "✅ up") {
			batchFacts++
		}
		if strings.Contains(f.Value, "más funcionando") {
			overflow++
		}
	}
	// 8 shown in clusters of 4.
	if batchFacts != 2 {
		t.Fatalf("want 2 clusters of working domains, got %d in %+v", batchFacts, c.Facts)
	}
	if overflow != 1 {
		t.Fatalf("want one overflow note for the remaining 3, got %d", overflow)
	}
}

func TestSuccessCard_Shape(t *testing.T) {
	c := BuildCard(summaryOf(0, 12), at(), "https://ci.example/logs")

	if c.ThemeColor != "28a745" {
		t.Fatalf("want green theme, got %q", c.ThemeColor)
	}
	if c.Action != nil {
		t.Fatalf("success card carries no action, got %+v", c.Action)
	}
	var groups int
	for _, f := range c.Facts {
		if strings.HasPrefix(f.Name, "Grupo ") {
			groups++
		}
	}
	// 12 domains in clusters of 5 → 3 groups.
	if groups != 3 {
		t.Fatalf("want 3 groups, got %d", groups)
	}
}

func TestFailureCard_ActionOnlyWhenConfigured(t *testing.T) {
	if c := BuildCard(summaryOf(1, 0), at(), ""); c.Action != nil {
		t.Fatalf("want no action without a logs URL, got %+v", c.Action)
	}
	c := BuildCard(summaryOf(1, 0), at(), "https://ci.example/logs")
	if c.Action == nil || c.Action.URI != "https://ci.example/logs" {
		t.Fatalf("want deep link to logs, got %+v", c.Action)
	}
}

func TestCard_FactValueBudget(t *testing.T) {
	long := probe.Outcome{
		Target:    target.Target{URL: "https://down.example/" + strings.Repeat("segment/", 30) + "file.pdf"},
		Available: false,
		Detail:    strings.Repeat("TransportFailure: very long diagnosis ", 10),
	}
	s := run.Summary{Total: 1, Outcomes: []probe.Outcome{long}}
	c := BuildCard(s, at(), "")

	for _, f := range c.Facts {
		if n := len([]rune(f.Value)); n > factValueLimit {
			t.Fatalf("fact %q exceeds budget: %d runes", f.Name, n)
		}
	}
}

func TestTruncate_Idempotent(t *testing.T) {
	long := strings.Repeat("ñ", 300)
	once := truncate(long, factValueLimit)
	if got := truncate(once, factValueLimit); got != once {
		t.Fatalf("truncate not idempotent: %q vs %q", once, got)
	}
	if !strings.HasSuffix(once, "...") {
		t.Fatalf("want explicit ellipsis marker, got %q", once)
	}
}
