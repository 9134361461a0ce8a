package infra

import (
	"errors"
	"net/smtp"
	"os"
	"path/filepath"
	"testing"

	"gestoreventos/internal/config"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailer_EnviarRecibo_SinHost(t *testing.T) {
	m := NewMailer(&config.Config{}, nil)
	assert.ErrorIs(t, m.EnviarRecibo("a@b.com", "x", "y", ""), ErrMailerSinConfigurar)
}

func TestMailer_EnviarRecibo_AdjuntaPDF(t *testing.T) {
	m := NewMailer(&config.Config{
		SMTPHost: "smtp.local", SMTPPort: 2525, SMTPUser: "caja@salon.test", BusinessName: "Salón",
	}, nil)

	pdfPath := filepath.Join(t.TempDir(), "recibo.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.3"), 0o600))

	var enviado *email.Email
	var addr string
	m.send = func(e *email.Email, a string, _ smtp.Auth) error {
		enviado, addr = e, a
		return nil
	}

	require.NoError(t, m.EnviarRecibo("cliente@correo.test", "Recibo", "Gracias", pdfPath))
	require.NotNil(t, enviado)
	assert.Equal(t, "smtp.local:2525", addr)
	assert.Equal(t, []string{"cliente@correo.test"}, enviado.To)
	assert.Equal(t, "Salón <caja@salon.test>", enviado.From)
	require.Len(t, enviado.Attachments, 1)
	assert.Equal(t, "recibo.pdf", enviado.Attachments[0].Filename)
}

func TestMailer_EnviarRecibo_FallasAbrenBreaker(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "smtp", FailureThreshold: 1})
	m := NewMailer(&config.Config{SMTPHost: "smtp.local", SMTPPort: 25}, cb)
	m.send = func(*email.Email, string, smtp.Auth) error { return errors.New("conexión rechazada") }

	require.Error(t, m.EnviarRecibo("a@b.com", "x", "y", ""))
	assert.ErrorIs(t, m.EnviarRecibo("a@b.com", "x", "y", ""), ErrCircuitOpen)
}
