package mailer

import (
	"context"

	"app/internal/config"

	"github.com/wneessen/go-mail"
)

// Mailerはメール送信の約束
type Mailer interface {
	Send(ctx context.Context, to string, subject string, htmlBody string) error
}

// SMTPMailerはgo-mailによるSMTP送信
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// DI
func NewSMTPMailer(cfg config.Config) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUser),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, err
	}

	return &SMTPMailer{
		client: client,
		from:   cfg.MailFrom,
	}, nil
}

// SendはHTMLメールを1通送る
func (m *SMTPMailer) Send(ctx context.Context, to string, subject string, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	return m.client.DialAndSendWithContext(ctx, msg)
}
