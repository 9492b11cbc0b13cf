package mail

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSignupCode(t *testing.T) {
	subject, html, text, err := RenderSignupCode("482917", 10*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "482917 is your verification code", subject)
	assert.Contains(t, text, "482917")
	assert.Contains(t, text, "10 minutes")
	assert.Contains(t, html, "482917")
	assert.Contains(t, html, "10 minutes")
}

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(Config{Provider: "noop"})
	require.NoError(t, err)
	assert.NoError(t, m.Send(context.Background(), "a@example.com", "subject", "", "body"))

	m, err = NewMailer(Config{})
	require.NoError(t, err)
	assert.NotNil(t, m)

	_, err = NewMailer(Config{Provider: "carrier-pigeon"})
	assert.Error(t, err)

	_, err = NewMailer(Config{Provider: "smtp"})
	assert.Error(t, err) // missing host

	m, err = NewMailer(Config{
		Provider: "smtp",
		SMTP:     SMTPConfig{Host: "localhost", Port: 1025},
	})
	require.NoError(t, err)
	assert.NotNil(t, m)
}
