// Package mailer delivers document-request emails over SMTP. When no
// SMTP credentials are configured it logs the email and reports success,
// so unconfigured environments can exercise the full workflow.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func New(host, port, username, password, from string) *Mailer {
	if from == "" {
		from = username
	}
	return &Mailer{host: host, port: port, username: username, password: password, from: from}
}

// Configured reports whether real delivery is possible.
func (m *Mailer) Configured() bool {
	return m.host != "" && m.username != "" && m.password != ""
}

// Send delivers one plain-text email. In mock mode the email is logged
// and the send is treated as successful.
func (m *Mailer) Send(to, subject, body string) error {
	if !m.Configured() {
		log.Printf("mailer: SMTP not configured, mock send to %s: %q", to, subject)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}

	log.Printf("mailer: sent %q to %s", subject, to)
	return nil
}
