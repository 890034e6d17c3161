// Package mail delivers account credentials over SMTP.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// SiteName and SiteURL appear in the message body so recipients know
	// where the credentials belong.
	SiteName string
	SiteURL  string
}

// Enabled reports whether the config is complete enough to send mail.
func (c Config) Enabled() bool {
	return c.Host != "" && c.From != ""
}

type Client struct {
	cfg    Config
	client *gomail.Client
}

// NewClient builds an SMTP client from the config. Call only when
// cfg.Enabled().
func NewClient(cfg Config) (*Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("init smtp client: %w", err)
	}
	return &Client{cfg: cfg, client: client}, nil
}

// SendCredentials mails a freshly generated password to an account holder.
func (c *Client) SendCredentials(ctx context.Context, to, username, password string, reset bool) error {
	msg := gomail.NewMsg()
	if err := msg.From(c.cfg.From); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}

	subject := fmt.Sprintf("Your %s account", c.cfg.SiteName)
	intro := "An account has been created for you"
	if reset {
		subject = fmt.Sprintf("Your %s password was reset", c.cfg.SiteName)
		intro = "Your password has been reset"
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"%s on %s (%s).\n\nUsername: %s\nPassword: %s\n\nPlease log in and change this password.\n",
		intro, c.cfg.SiteName, c.cfg.SiteURL, username, password,
	))

	if err := c.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send credentials mail: %w", err)
	}
	return nil
}
