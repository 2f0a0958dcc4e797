package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

type EmailConfig struct {
	Enabled bool
	Host    string
	Port    int
	User    string
	Pass    string
	From    string
	To      []string
}

// mailSender is the part of *mail.Client the channel uses.
type mailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Email sends the report over SMTP with PLAIN auth. Port 465 uses implicit
// TLS; any other port upgrades with STARTTLS when the server offers it.
type Email struct {
	cfg  EmailConfig
	dial func(EmailConfig) (mailSender, error)
}

func NewEmail(cfg EmailConfig) *Email {
	return &Email{cfg: cfg, dial: dialSMTP}
}

func dialSMTP(cfg EmailConfig) (mailSender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Pass),
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	return mail.NewClient(cfg.Host, opts...)
}

func (e *Email) Name() string  { return "email" }
func (e *Email) Enabled() bool { return e.cfg.Enabled }

func (e *Email) Ready() error {
	return missing(map[string]bool{
		"smtp user":  e.cfg.User == "",
		"smtp pass":  e.cfg.Pass == "",
		"smtp host":  e.cfg.Host == "",
		"smtp port":  e.cfg.Port == 0,
		"email from": e.cfg.From == "",
		"email to":   len(e.cfg.To) == 0,
	})
}

func (e *Email) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(e.cfg.From); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := m.To(e.cfg.To...); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	client, err := e.dial(e.cfg)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
