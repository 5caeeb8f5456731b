package web

import (
	"testing"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/chat"
)

func TestFrameFor(t *testing.T) {
	f, ok := frameFor(chat.SetWindow{Open: false})
	if !ok || f.Type != "window" || f.Open == nil || *f.Open {
		t.Errorf("window frame = %+v, %v", f, ok)
	}

	f, ok = frameFor(chat.Say{Message: chat.Message{From: chat.SenderBot, Text: "oi"}})
	if !ok || f.Type != "message" || f.Message == nil || f.Message.Text != "oi" {
		t.Errorf("message frame = %+v, %v", f, ok)
	}

	for _, e := range []chat.Effect{chat.Delay{}, chat.FetchSnapshot{}, chat.CancelIdleTimer{}} {
		if _, ok := frameFor(e); ok {
			t.Errorf("frameFor(%T) produced a frame", e)
		}
	}
}

func TestClientFrameEvent(t *testing.T) {
	if ev, ok := (clientFrame{Type: "input", Text: "aluguel"}).event(); !ok || ev != (chat.Input{Text: "aluguel"}) {
		t.Errorf("input frame = %#v, %v", ev, ok)
	}
	if ev, ok := (clientFrame{Type: "close"}).event(); !ok || ev != (chat.Close{}) {
		t.Errorf("close frame = %#v, %v", ev, ok)
	}
	if _, ok := (clientFrame{Type: "open"}).event(); !ok {
		t.Error("open frame not recognised")
	}
	if _, ok := (clientFrame{Type: "bogus"}).event(); ok {
		t.Error("unknown frame accepted")
	}
}
