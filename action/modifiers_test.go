package action

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chrisuehlinger/eventdispatch/dom"
)

func eventWith(eventType string, init func(*dom.Event)) *dom.Event {
	ev := dom.NewEvent(eventType)
	if init != nil {
		init(ev)
	}
	return ev
}

func keys(s string) *string { return &s }

func TestIsAllowedEvent(t *testing.T) {
	alt := func(ev *dom.Event) { ev.AltKey = true }
	ctrl := func(ev *dom.Event) { ev.CtrlKey = true }
	shiftMeta := func(ev *dom.Event) { ev.ShiftKey, ev.MetaKey = true, true }
	rightButton := func(ev *dom.Event) { ev.Button = 2 }

	tests := []struct {
		name    string
		ev      *dom.Event
		allowed *string
		want    bool
	}{
		{"plain click", eventWith("click", nil), nil, true},
		{"alt click", eventWith("click", alt), nil, false},
		{"right click", eventWith("click", rightButton), nil, false},
		{"mousedown with ctrl", eventWith("mousedown", ctrl), nil, false},
		{"touchstart plain", eventWith("touchstart", nil), nil, true},
		{"keyup plain", eventWith("keyup", nil), nil, true},
		{"keyup with ctrl", eventWith("keyup", ctrl), nil, false},
		{"alt click allowed", eventWith("click", alt), keys("alt"), true},
		{"ctrl click with alt allowed", eventWith("click", ctrl), keys("alt"), false},
		{"shift meta both allowed", eventWith("click", shiftMeta), keys("shift meta"), true},
		{"shift meta one allowed", eventWith("click", shiftMeta), keys("shift"), false},
		{"any", eventWith("click", shiftMeta), keys("any"), true},
		{"right click with allowed keys", eventWith("click", rightButton), keys(""), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAllowedEvent(tt.ev, tt.allowed))
		})
	}
}
