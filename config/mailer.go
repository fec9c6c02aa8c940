package config

import (
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail/v2"
)

// SendMail delivers an HTML message through the configured SMTP relay.
func SendMail(to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	if !Cfg.SMTPConfigured() {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	m := mail.NewMessage()
	m.SetHeader("From", Cfg.SMTPFrom)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := mail.NewDialer(Cfg.SMTPHost, Cfg.SMTPPort, Cfg.SMTPUser, Cfg.SMTPPass)

	// STARTTLS is mandatory on 587 for the usual relays (Gmail, Office365).
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         Cfg.SMTPHost,
		InsecureSkipVerify: Cfg.SMTPSkipTLSVerify,
	}

	return d.DialAndSend(m)
}
