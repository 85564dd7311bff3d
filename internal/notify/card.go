// Package notify turns a run summary into a bounded Teams card and delivers
// it to the incoming-webhook sink.
package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agreyes/webmon/internal/probe"
	"github.com/agreyes/webmon/internal/run"
)

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityAlert
)

type Fact struct {
	Name  string
	Value string
}

// Action is a deep link attached to the card, at most one per card.
type Action struct {
	Name string
	URI  string
}

// Card is the declarative alert document. It carries no knowledge of the
// webhook transport; the dispatcher serializes it.
type Card struct {
	Severity         Severity
	Title            string
	Summary          string
	ThemeColor       string
	ActivityTitle    string
	ActivitySubtitle string
	Facts            []Fact
	Action           *Action
}

const (
	// factValueLimit is the per-fact character budget derived from what the
	// Teams connector renders without clipping.
	factValueLimit = 128
	pathLimit      = 40

	// maxFailureFacts caps individual failure entries on the alert card;
	// everything past it collapses into one overflow fact.
	maxFailureFacts = 8
	// maxSuccessOnFailure caps the "still working" tail of the alert card.
	maxSuccessOnFailure = 8

	failureBatchSize = 4
	successBatchSize = 5

	separator = "━━━━━━━━━━━━━━━━"
)

// BuildCard selects the card shape from the summary: an alert card when any
// target failed, an informational card otherwise.
func BuildCard(s run.Summary, at time.Time, logsURL string) Card {
	if len(s.Failed()) > 0 {
		return buildFailureCard(s, at, logsURL)
	}
	return buildSuccessCard(s, at)
}

func buildFailureCard(s run.Summary, at time.Time, logsURL string) Card {
	failed := s.Failed()
	succeeded := s.Succeeded()

	facts := []Fact{
		{"📊 Total verificadas:", strconv.Itoa(s.Total)},
		{"✅ Disponibles:", fmt.Sprintf("**%d** URLs", len(succeeded))},
		{"❌ Con problemas:", fmt.Sprintf("**%d** URLs", len(failed))},
		{"⏰ Verificación:", at.Format("02/01/2006 15:04:05")},
		{separator, "**URLs con Problemas:**"},
	}

	shown := failed
	if len(shown) > maxFailureFacts {
		shown = shown[:maxFailureFacts]
	}
	for i, o := range shown {
		domain, path := run.SplitURL(o.Target.URL)
		facts = append(facts, Fact{
			Name:  fmt.Sprintf("❌ %d. %s", i+1, domain),
			Value: truncate(fmt.Sprintf("📍 %s\n💬 *%s*", truncate(path, pathLimit), o.Detail), factValueLimit),
		})
	}
	if extra := len(failed) - maxFailureFacts; extra > 0 {
		facts = append(facts, Fact{
			Name:  "⚠️ Aviso:",
			Value: fmt.Sprintf("Hay %d URL(s) más con problemas. Consultar logs.", extra),
		})
	}

	if len(succeeded) > 0 {
		facts = append(facts, Fact{separator, "**URLs Funcionando:**"})
		working := succeeded
		if len(working) > maxSuccessOnFailure {
			working = working[:maxSuccessOnFailure]
		}
		facts = append(facts, batchDomains(working, failureBatchSize, "   ", "")...)
		if extra := len(succeeded) - maxSuccessOnFailure; extra > 0 {
			facts = append(facts, Fact{
				Name:  " ",
				Value: fmt.Sprintf("*... y %d más funcionando correctamente*", extra),
			})
		}
	}

	card := Card{
		Severity:         SeverityAlert,
		Title:            fmt.Sprintf("🚨 ALERTA - %d URL(s) Requieren Atención", len(failed)),
		Summary:          fmt.Sprintf("⚠️ %d de %d URLs no disponibles", len(failed), s.Total),
		ThemeColor:       "dc3545",
		ActivityTitle:    "🔍 Monitor Automático de Disponibilidad",
		ActivitySubtitle: "Verificación completada - Se detectaron problemas",
		Facts:            facts,
	}
	if logsURL != "" {
		card.Action = &Action{Name: "📋 Ver Logs Completos", URI: logsURL}
	}
	return card
}

func buildSuccessCard(s run.Summary, at time.Time) Card {
	facts := []Fact{
		{"📊 Total verificadas:", strconv.Itoa(s.Total)},
		{"✅ Estado general:", "**TODAS FUNCIONANDO CORRECTAMENTE**"},
		{"⏰ Verificación:", at.Format("02/01/2006 15:04:05")},
		{separator, "**URLs Verificadas:**"},
	}
	facts = append(facts, batchDomains(s.Succeeded(), successBatchSize, "\n", "Grupo %d:")...)

	return Card{
		Severity:         SeverityInfo,
		Title:            "✅ Monitor Diario - Sistema Operativo",
		Summary:          fmt.Sprintf("✅ %d URLs funcionando correctamente", s.Total),
		ThemeColor:       "28a745",
		ActivityTitle:    "🎯 Verificación Automática Completada",
		ActivitySubtitle: "Todas las URLs monitoreadas están disponibles",
		Facts:            facts,
	}
}

// batchDomains lists outcome domains grouped in fixed-size clusters, one
// fact per cluster. nameFmt labels each group with its 1-based number; empty
// means an unnamed fact.
func batchDomains(outcomes []probe.Outcome, size int, sep, nameFmt string) []Fact {
	var facts []Fact
	for start := 0; start < len(outcomes); start += size {
		end := start + size
		if end > len(outcomes) {
			end = len(outcomes)
		}
		entries := make([]string, 0, end-start)
		for _, o := range outcomes[start:end] {
			domain, _ := run.SplitURL(o.Target.URL)
			entries = append(entries, "✅ "+domain)
		}
		name := " "
		if nameFmt != "" {
			name = fmt.Sprintf(nameFmt, start/size+1)
		}
		facts = append(facts, Fact{Name: name, Value: truncate(strings.Join(entries, sep), factValueLimit)})
	}
	return facts
}

// truncate caps s at limit runes with an explicit ellipsis marker. Applying
// it twice yields the same value.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
