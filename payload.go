package slacklog

import (
	"encoding/json"
	"fmt"
)

// Colors understood by the Slack attachment API, keyed by the tag that
// selects them. Precedence when several are present: error > warning > success.
const (
	ColorDanger  = "danger"
	ColorWarning = "warning"
	ColorGood    = "good"
)

// Field is one title/value pair in an attachment's field list.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// Attachment is the single attachment carried by every notification.
// Fields has no omitempty on purpose: the wire contract always serializes
// the field list, even when empty.
type Attachment struct {
	Title     string   `json:"title,omitempty"`
	TitleLink string   `json:"title_link,omitempty"`
	Text      string   `json:"text,omitempty"`
	MrkdwnIn  []string `json:"mrkdwn_in,omitempty"`
	Color     string   `json:"color,omitempty"`
	Fields    []Field  `json:"fields"`
}

// Payload is the vendor document POSTed to the incoming-webhook URL.
type Payload struct {
	Channel     string       `json:"channel,omitempty"`
	Username    string       `json:"username,omitempty"`
	IconURL     string       `json:"icon_url,omitempty"`
	Attachments []Attachment `json:"attachments"`
}

// Marshal serializes the document for the wire.
func (p *Payload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

/**
 * Format maps a normalized tag list and a message payload onto the wire-ready
 * notification document. It is a pure function of its inputs: no hidden
 * state, the caller's record is never mutated, and identical inputs yield
 * identical output.
 *
 * @param tags Normalized tag list (additional tags already unioned in)
 * @param msg Message payload, text or record form
 * @param cfg Immutable format configuration
 * @return *Payload Notification document, or an error if the record body
 *         cannot be rendered as JSON
 */
func Format(tags TagList, msg Message, cfg *Config) (*Payload, error) {
	att := Attachment{
		Fields: make([]Field, 0, len(cfg.AdditionalFields)+1),
	}

	switch m := msg.(type) {
	case Text:
		att.Title = string(m)
	case Record:
		rest := m.clone()
		if title, ok := rest["message"]; ok {
			att.Title = fmt.Sprint(title)
			delete(rest, "message")
		}
		if link, ok := rest["url"]; ok {
			att.TitleLink = fmt.Sprint(link)
			delete(rest, "url")
		}
		if len(rest) > 0 {
			body, err := json.MarshalIndent(rest, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("format: render message body: %w", err)
			}
			att.Text = "``` " + string(body) + " ```"
			att.MrkdwnIn = []string{"text"}
		}
	case nil:
		// treat like an empty string payload
	default:
		att.Title = fmt.Sprint(m)
	}

	att.Fields = append(att.Fields, cfg.AdditionalFields...)
	if !cfg.HideTags && len(tags) > 0 {
		att.Fields = append(att.Fields, Field{Title: "Tags", Value: tags.Join(", ")})
	}

	switch {
	case tags.Contains("error"):
		att.Color = ColorDanger
	case tags.Contains("warning"):
		att.Color = ColorWarning
	case tags.Contains("success"):
		att.Color = ColorGood
	}

	return &Payload{
		Channel:     cfg.Channel,
		Username:    cfg.Username,
		IconURL:     cfg.IconURL,
		Attachments: []Attachment{att},
	}, nil
}
