package llm

import (
	"context"
	"strings"
	"time"
)

// demoBackend simulates generations without any network dependency. It backs
// the demo mode so the reconciliation pipeline behaves identically offline.
type demoBackend struct {
	*sessionRegistry
	replies []string
	delay   time.Duration
	next    int
}

// NewDemoBackend returns a Backend that cycles through canned replies,
// emitting them word by word with the given inter-word delay.
func NewDemoBackend(delay time.Duration) Backend {
	return &demoBackend{
		sessionRegistry: newSessionRegistry(),
		delay:           delay,
		replies: []string{
			"This is the demo assistant. Nothing you send here leaves this process.",
			"Demo mode replays canned answers so you can explore the interface offline.",
			"Still here. Switch to live mode to talk to a real model.",
		},
	}
}

func (b *demoBackend) GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- Delta) error {
	defer close(ch)

	reply := b.replies[b.next%len(b.replies)]
	b.next++

	words := strings.Fields(reply)
	for i, word := range words {
		if i > 0 {
			word = " " + word
		}
		select {
		case ch <- Delta{Content: word}:
		case <-ctx.Done():
			return ctx.Err()
		}
		if b.delay > 0 {
			select {
			case <-time.After(b.delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	select {
	case ch <- Delta{Done: true}:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
