package smtpmail

import (
	"fmt"
	"net"
	"net/smtp"
)

// Notifier delivers operator alerts over plain SMTP. Callers treat delivery
// as fire-and-forget: a failed send is logged by the caller and dropped.
type Notifier struct {
	host      string
	port      string
	sender    string
	password  string
	recipient string
}

func (n *Notifier) Notify(subject, body string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		n.sender, n.recipient, subject, body,
	)
	addr := net.JoinHostPort(n.host, n.port)
	auth := smtp.PlainAuth("", n.sender, n.password, n.host)
	if err := smtp.SendMail(addr, auth, n.sender, []string{n.recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}
	return nil
}

func NewNotifier(host, port, sender, password, recipient string) *Notifier {
	return &Notifier{host: host, port: port, sender: sender, password: password, recipient: recipient}
}
