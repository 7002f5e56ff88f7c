package notify

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type EmailNotifier struct {
	addr     string
	from     string
	to       []string
	auth     smtp.Auth
	sendMail sendMailFunc
}

func NewEmailNotifier(addr, from string, to []string, username, password string) *EmailNotifier {
	n := &EmailNotifier{
		addr:     addr,
		from:     from,
		to:       to,
		sendMail: smtp.SendMail,
	}
	if username != "" {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}
		n.auth = smtp.PlainAuth("", username, password, host)
	}
	return n
}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	fmt.Fprintf(&body, "From: %s\r\n", n.from)
	fmt.Fprintf(&body, "To: %s\r\n", strings.Join(n.to, ", "))
	fmt.Fprintf(&body, "Subject: [pagure] %s\r\n", msg.Topic)
	fmt.Fprintf(&body, "Message-ID: <%s@pagure>\r\n", msg.ID)
	body.WriteString("Content-Type: application/json; charset=utf-8\r\n\r\n")
	body.Write(msg.Payload)
	body.WriteString("\r\n")

	if err := n.sendMail(n.addr, n.auth, n.from, n.to, body.Bytes()); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
