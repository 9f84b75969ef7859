package email

import (
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendHTML_NotConfigured(t *testing.T) {
	s := NewEmailService(EmailConfig{})
	assert.False(t, s.Enabled())
	assert.ErrorIs(t, s.SendHTML("a@b.c", "Receipt", "<p>hi</p>"), ErrNotConfigured)
}

func TestSendHTML_BuildsMessage(t *testing.T) {
	s := NewEmailService(EmailConfig{
		SMTPHost:  "smtp.test",
		SMTPPort:  2525,
		FromName:  "Cafe",
		FromEmail: "noreply@cafe.test",
	})

	var gotAddr string
	var gotTo []string
	var gotMsg string
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotTo = to
		gotMsg = string(msg)
		return nil
	}

	require.NoError(t, s.SendHTML("guest@example.com", "Your receipt ORD-0001", "<p>Total 382.32</p>"))
	assert.Equal(t, "smtp.test:2525", gotAddr)
	assert.Equal(t, []string{"guest@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "To: guest@example.com\r\n")
	assert.Contains(t, gotMsg, "Content-Type: text/html")
	assert.True(t, strings.HasSuffix(gotMsg, "<p>Total 382.32</p>"))
}

func TestSendHTML_RejectsHeaderInjection(t *testing.T) {
	s := NewEmailService(EmailConfig{SMTPHost: "smtp.test", SMTPPort: 25})
	s.send = func(string, smtp.Auth, string, []string, []byte) error { return nil }
	assert.Error(t, s.SendHTML("a@b.c\r\nBcc: x@y.z", "s", "b"))
}
