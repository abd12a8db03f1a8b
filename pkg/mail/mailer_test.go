package mail

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMTPMailerValidatesConfig(t *testing.T) {
	_, err := NewSMTPMailer(SMTPSettings{Enabled: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host is required")

	mailer, err := NewSMTPMailer(SMTPSettings{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, mailer)
}

func TestSMTPMailerSendDisabled(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPSettings{Enabled: false})
	require.NoError(t, err)

	err = mailer.Send(context.Background(), Message{
		To:      []string{"owner@example.com"},
		Subject: "Rent reminder",
		Body:    "Invoice INV-202503-0001 is due in 7 days",
	})
	require.ErrorIs(t, err, ErrSMTPDisabled)
}

func TestFormatMessage(t *testing.T) {
	content := formatMessage("from@example.com", []string{"to@example.com"}, "Subject\r\nBreak", "Body")

	assert.Contains(t, content, "From: from@example.com")
	assert.Contains(t, content, "Subject: Subject  Break")
	assert.True(t, strings.HasSuffix(content, "\r\n\r\nBody"), "headers and body must be separated by a blank line: %q", content)
}

func TestFormatMessageEncodesThaiSubject(t *testing.T) {
	content := formatMessage("from@example.com", []string{"to@example.com"}, "แจ้งเตือนค่าเช่า", "Body")

	assert.Contains(t, content, "Subject: =?utf-8?")
	assert.NotContains(t, content, "Subject: แจ้งเตือนค่าเช่า")
}

func TestSMTPMailerDefaultTimeout(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPSettings{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "no-reply@example.com",
		UseTLS:  true,
	})
	require.NoError(t, err)

	sm, ok := mailer.(*smtpMailer)
	require.True(t, ok)
	assert.Equal(t, 10*time.Second, sm.cfg.Timeout)
}

func TestSMTPMailerSendRequiresRecipients(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPSettings{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "no-reply@example.com",
	})
	require.NoError(t, err)

	err = mailer.Send(context.Background(), Message{
		To:      []string{"   ", "\t"},
		Subject: "No recipients",
		Body:    "Body",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one recipient")
}
