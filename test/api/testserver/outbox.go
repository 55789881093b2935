//go:build api

package testserver

import (
	"context"
	"regexp"
	"sync"
	"time"

	"tours-api/internal/mailer"
)

var resetLink = regexp.MustCompile(`/reset-password/([0-9a-f]+)`)

// Outbox is a mailer.Sender that keeps every message in memory.
type Outbox struct {
	mu       sync.Mutex
	messages []mailer.Message
	fail     error
}

// Send records msg.
func (o *Outbox) Send(ctx context.Context, msg mailer.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fail != nil {
		return o.fail
	}
	o.messages = append(o.messages, msg)
	return nil
}

// FailWith makes every following Send return err until Reset.
func (o *Outbox) FailWith(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fail = err
}

// Messages returns a copy of the messages sent to addr.
func (o *Outbox) Messages(addr string) []mailer.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []mailer.Message
	for _, m := range o.messages {
		if m.To == addr {
			out = append(out, m)
		}
	}
	return out
}

// WaitFor polls until a message for addr with subject arrives or the timeout
// passes. Queued mail is delivered by a background worker.
func (o *Outbox) WaitFor(addr, subject string, timeout time.Duration) (mailer.Message, bool) {
	deadline := time.Now().Add(timeout)
	for {
		for _, m := range o.Messages(addr) {
			if m.Subject == subject {
				return m, true
			}
		}
		if time.Now().After(deadline) {
			return mailer.Message{}, false
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// ResetToken extracts the plain reset token from the last reset email sent
// to addr.
func (o *Outbox) ResetToken(addr string) string {
	msgs := o.Messages(addr)
	for i := len(msgs) - 1; i >= 0; i-- {
		if m := resetLink.FindStringSubmatch(msgs[i].Text); m != nil {
			return m[1]
		}
	}
	return ""
}

// Reset forgets all recorded messages and clears any failure.
func (o *Outbox) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = nil
	o.fail = nil
}

var _ mailer.Sender = (*Outbox)(nil)
