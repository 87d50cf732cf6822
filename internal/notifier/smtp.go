package notifier

import (
	"time"

	mail "github.com/go-mail/mail/v2"
)

// SMTPNotifier mails failure alerts to an operations inbox.
type SMTPNotifier struct {
	dialer    *mail.Dialer
	sender    string
	recipient string
}

func NewSMTPNotifier(host string, port int, username, password, sender, recipient string) *SMTPNotifier {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second

	return &SMTPNotifier{
		dialer:    dialer,
		sender:    sender,
		recipient: recipient,
	}
}

func (n *SMTPNotifier) Send(message string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", n.sender)
	msg.SetHeader("To", n.recipient)
	msg.SetHeader("Subject", "Payment approval failure")
	msg.SetBody("text/plain", message)

	return n.dialer.DialAndSend(msg)
}
