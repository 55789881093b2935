package mailer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tours-api/internal/config"
	"tours-api/internal/logger"
)

func TestPasswordReset(t *testing.T) {
	msg, err := PasswordReset("jonas@example.com", "Jonas Schmedtmann", "http://localhost:8000/api/v1/users/reset-password/abc", 10*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, "jonas@example.com", msg.To)
	assert.Equal(t, "Your password reset token (valid for 10 minutes)", msg.Subject)
	assert.Contains(t, msg.Text, "Hi Jonas,")
	assert.Contains(t, msg.Text, "http://localhost:8000/api/v1/users/reset-password/abc")
	assert.Contains(t, msg.HTML, `href="http://localhost:8000/api/v1/users/reset-password/abc"`)
}

func TestWelcome(t *testing.T) {
	msg, err := Welcome("ann@example.com", "Ann", "http://localhost:8000/me")

	require.NoError(t, err)
	assert.Equal(t, "Welcome to the Tours family!", msg.Subject)
	assert.Contains(t, msg.Text, "Hi Ann,")
}

func TestTemplatesEscapeHTML(t *testing.T) {
	msg, err := Welcome("x@example.com", "<script>", "http://localhost:8000")

	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "<script>")
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Lisa", firstName("Lisa Brown"))
	assert.Equal(t, "Lisa", firstName("Lisa"))
	assert.Equal(t, "", firstName(""))
}

func TestSMTPSender_Build(t *testing.T) {
	s := NewSMTPSender(config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "Tours <hello@tours.local>"})

	m := s.build(Message{To: "a@example.com", Subject: "Hi", Text: "plain", HTML: "<p>html</p>"})

	assert.Equal(t, []string{"Tours <hello@tours.local>"}, m.GetHeader("From"))
	assert.Equal(t, []string{"a@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Hi"}, m.GetHeader("Subject"))
}

func TestSenders_RejectMissingRecipient(t *testing.T) {
	ctx := context.Background()

	assert.ErrorIs(t, NewSMTPSender(config.SMTPConfig{}).Send(ctx, Message{}), ErrNoRecipient)
	assert.ErrorIs(t, NewLogSender(logger.Nop()).Send(ctx, Message{}), ErrNoRecipient)
}

func TestSMTPSender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewSMTPSender(config.SMTPConfig{Host: "smtp.example.com"}).Send(ctx, Message{To: "a@example.com"})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	log := logger.Nop()
	relay := config.SMTPConfig{Host: "smtp.example.com"}

	t.Run("relay configured", func(t *testing.T) {
		for _, env := range []string{config.EnvDevelopment, config.EnvProduction} {
			_, isSMTP := New(&config.Config{Env: env, SMTP: relay}, log).(*SMTPSender)
			assert.True(t, isSMTP, env)
		}
	})

	t.Run("development logs mail", func(t *testing.T) {
		_, isLog := New(&config.Config{Env: config.EnvDevelopment}, log).(*LogSender)
		assert.True(t, isLog)
	})

	t.Run("production refuses to deliver", func(t *testing.T) {
		sender := New(&config.Config{Env: config.EnvProduction}, log)

		_, isLog := sender.(*LogSender)
		assert.False(t, isLog)
		err := sender.Send(context.Background(), Message{To: "jonas@example.com", Text: "reset link"})
		assert.ErrorIs(t, err, ErrNotConfigured)
		assert.ErrorIs(t, sender.Send(context.Background(), Message{}), ErrNoRecipient)
	})
}
