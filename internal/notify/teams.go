package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// responseBodyLimit bounds how much of a rejected delivery response lands in
// the error message.
const responseBodyLimit = 200

// Teams delivers cards to a Microsoft Teams incoming webhook. The connector
// acknowledges with 200 or 202; anything else is a delivery failure.
type Teams struct {
	Webhook string
	Client  *http.Client
}

func NewTeams(webhook string) *Teams {
	if webhook == "" {
		return nil
	}
	return &Teams{
		Webhook: webhook,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// MessageCard wire shape, see
// https://learn.microsoft.com/outlook/actionable-messages/message-card-reference
type messageCard struct {
	Type            string        `json:"@type"`
	Context         string        `json:"@context"`
	Summary         string        `json:"summary"`
	ThemeColor      string        `json:"themeColor"`
	Title           string        `json:"title"`
	Sections        []cardSection `json:"sections"`
	PotentialAction []cardAction  `json:"potentialAction,omitempty"`
}

type cardSection struct {
	ActivityTitle    string     `json:"activityTitle"`
	ActivitySubtitle string     `json:"activitySubtitle"`
	Facts            []cardFact `json:"facts"`
	Markdown         bool       `json:"markdown"`
}

type cardFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type cardAction struct {
	Type    string             `json:"@type"`
	Name    string             `json:"name"`
	Targets []cardActionTarget `json:"targets"`
}

type cardActionTarget struct {
	OS  string `json:"os"`
	URI string `json:"uri"`
}

func (t *Teams) Send(ctx context.Context, card Card) error {
	if t == nil || t.Webhook == "" {
		return errors.New("teams notifier disabled")
	}

	body, err := json.Marshal(encodeCard(card))
	if err != nil {
		return fmt.Errorf("teams: encode card: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Webhook, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("teams: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("teams: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
		return fmt.Errorf("teams: webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}

func encodeCard(c Card) messageCard {
	m := messageCard{
		Type:       "MessageCard",
		Context:    "https://schema.org/extensions",
		Summary:    c.Summary,
		ThemeColor: c.ThemeColor,
		Title:      c.Title,
		Sections: []cardSection{{
			ActivityTitle:    c.ActivityTitle,
			ActivitySubtitle: c.ActivitySubtitle,
			Facts:            make([]cardFact, 0, len(c.Facts)),
			Markdown:         true,
		}},
	}
	for _, f := range c.Facts {
		m.Sections[0].Facts = append(m.Sections[0].Facts, cardFact{Name: f.Name, Value: f.Value})
	}
	if c.Action != nil {
		m.PotentialAction = []cardAction{{
			Type:    "OpenUri",
			Name:    c.Action.Name,
			Targets: []cardActionTarget{{OS: "default", URI: c.Action.URI}},
		}}
	}
	return m
}
