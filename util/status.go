package util

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ServerStatus is the JSON document servers answer status requests with.
type ServerStatus struct {
	Version struct {
		Name     string `json:"name"`
		Protocol int32  `json:"protocol"`
	} `json:"version"`
	Players struct {
		Max    int `json:"max"`
		Online int `json:"online"`
		Sample []struct {
			Name string    `json:"name"`
			ID   uuid.UUID `json:"id"`
		} `json:"sample,omitempty"`
	} `json:"players"`
	// Description is the message of the day, either a plain string or a text component.
	Description        json.RawMessage `json:"description,omitempty"`
	Favicon            string          `json:"favicon,omitempty"`
	EnforcesSecureChat bool            `json:"enforcesSecureChat,omitempty"`
}

// ParseServerStatus decodes the status document doc.
func ParseServerStatus(doc string) (*ServerStatus, error) {
	var status ServerStatus
	if err := json.Unmarshal([]byte(doc), &status); err != nil {
		return nil, errors.Wrap(err, "parse server status")
	}
	return &status, nil
}

// MOTD returns the text of the description with the formatting dropped.
func (s *ServerStatus) MOTD() string {
	if len(s.Description) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(s.Description, &text); err == nil {
		return text
	}
	var component textComponent
	if err := json.Unmarshal(s.Description, &component); err != nil {
		return ""
	}
	var b strings.Builder
	component.write(&b)
	return b.String()
}

// textComponent is the subset of a text component needed to extract its plain text.
type textComponent struct {
	Text  string          `json:"text"`
	Extra []textComponent `json:"extra"`
}

// UnmarshalJSON accepts plain strings in extra lists.
func (c *textComponent) UnmarshalJSON(b []byte) error {
	var text string
	if err := json.Unmarshal(b, &text); err == nil {
		c.Text = text
		return nil
	}
	type plain textComponent
	return json.Unmarshal(b, (*plain)(c))
}

func (c textComponent) write(b *strings.Builder) {
	b.WriteString(c.Text)
	for _, extra := range c.Extra {
		extra.write(b)
	}
}
