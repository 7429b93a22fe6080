package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// ReplayEvent is one native event to dispatch.
type ReplayEvent struct {
	// Type is the native event name, e.g. "click".
	Type string `toml:"type"`
	// Target and Related are selectors.
	Target  string `toml:"target"`
	Related string `toml:"related"`
	// Bubbles defaults to true.
	Bubbles *bool  `toml:"bubbles"`
	Ctrl    bool   `toml:"ctrl"`
	Alt     bool   `toml:"alt"`
	Shift   bool   `toml:"shift"`
	Meta    bool   `toml:"meta"`
	Button  int    `toml:"button"`
	Key     string `toml:"key"`
	// Data becomes the event's DataTransfer.
	Data string `toml:"data"`
}

// Replay is a scripted sequence of native events.
type Replay struct {
	Events []ReplayEvent `toml:"event"`
}

// LoadReplay reads a replay script.
func LoadReplay(path string) (*Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading replay %s", path)
	}
	r, err := ParseReplay(data)
	if err != nil {
		return nil, errors.Wrapf(err, "replay %s", path)
	}
	return r, nil
}

// ParseReplay decodes a replay script.
func ParseReplay(data []byte) (*Replay, error) {
	var r Replay
	if _, err := toml.Decode(string(data), &r); err != nil {
		return nil, errors.Wrap(err, "parsing replay")
	}
	for i, ev := range r.Events {
		if ev.Type == "" {
			return nil, errors.Errorf("event %d: missing type", i+1)
		}
		if ev.Target == "" {
			return nil, errors.Errorf("event %d (%s): missing target", i+1, ev.Type)
		}
	}
	return &r, nil
}

// Bubbling reports the effective bubbles flag.
func (e ReplayEvent) Bubbling() bool {
	return e.Bubbles == nil || *e.Bubbles
}
