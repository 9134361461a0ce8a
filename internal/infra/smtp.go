package infra

import (
	"errors"
	"fmt"
	"net/smtp"

	"gestoreventos/internal/config"

	"github.com/jordan-wright/email"
)

// ErrMailerSinConfigurar is returned when SMTP_HOST is empty.
var ErrMailerSinConfigurar = errors.New("mailer: smtp no configurado")

// Mailer sends receipts to event clients through the configured SMTP relay.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
	cb       *CircuitBreaker
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config, cb *CircuitBreaker) *Mailer {
	if cb == nil {
		cb = NewCircuitBreaker(DefaultCBConfig("smtp"))
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     fmt.Sprintf("%s <%s>", cfg.BusinessName, cfg.SMTPUser),
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       cb,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

func (m *Mailer) Breaker() *CircuitBreaker { return m.cb }

// EnviarRecibo mails body to `to`, attaching the PDF at pdfPath when set.
func (m *Mailer) EnviarRecibo(to, subject, body, pdfPath string) error {
	if m.host == "" {
		return ErrMailerSinConfigurar
	}

	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)
	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.cb.Execute(func() error {
		return m.send(e, m.addr, auth)
	})
}
