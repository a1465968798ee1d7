// Package mailer delivers the transactional emails the auth flows send.
package mailer

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/wneessen/go-mail"

	auth "github.com/descuentoclub/beneficios-api"
)

// Config holds the SMTP connection options.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTP sends mail through a real SMTP relay.
type SMTP struct {
	cfg    Config
	logger auth.Logger
}

var _ auth.Mailer = (*SMTP)(nil)

func NewSMTP(cfg Config, logger auth.Logger) *SMTP {
	if logger == nil {
		logger = auth.NewLogger("MAIL")
	}
	return &SMTP{cfg: cfg, logger: logger}
}

// SendPasswordReset mails the reset link to the user's registered address.
// A missing sender address is a deployment error and surfaces as one.
func (s *SMTP) SendPasswordReset(ctx context.Context, to, username, resetLink string) error {
	if s.cfg.From == "" {
		return goerrors.New("remitente de correo no configurado", goerrors.CategoryInternal)
	}

	m := mail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid sender address")
	}
	if err := m.To(to); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid recipient address")
	}

	m.Subject("Restablecimiento de contraseña")
	m.SetBodyString(mail.TypeTextPlain, resetBody(username, resetLink))

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to create SMTP client")
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to send reset email")
	}

	s.logger.Info("sent password reset email to %s", to)

	return nil
}

func resetBody(username, resetLink string) string {
	return fmt.Sprintf(
		"Hola %s,\n\n"+
			"Recibimos una solicitud para restablecer tu contraseña.\n"+
			"Usa el siguiente enlace para continuar:\n\n%s\n\n"+
			"El enlace expira en poco tiempo. Si no solicitaste este cambio, ignora este correo.\n",
		username, resetLink,
	)
}

// Noop logs instead of sending. It backs dev environments without an SMTP
// relay.
type Noop struct {
	logger auth.Logger
}

var _ auth.Mailer = (*Noop)(nil)

func NewNoop(logger auth.Logger) *Noop {
	if logger == nil {
		logger = auth.NewLogger("MAIL")
	}
	return &Noop{logger: logger}
}

func (n *Noop) SendPasswordReset(_ context.Context, to, username, resetLink string) error {
	n.logger.Info("password reset for %q would be sent to %s: %s", username, to, resetLink)
	return nil
}
