package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-stomp/stomp/v3"
	"github.com/go-stomp/stomp/v3/frame"
)

type stompConn interface {
	Send(destination, contentType string, body []byte, opts ...func(*frame.Frame) error) error
	Disconnect() error
}

// STOMPNotifier sends each message to <destination>.<topic>.
type STOMPNotifier struct {
	conn        stompConn
	destination string
}

func DialSTOMP(addr, login, passcode, destination string) (*STOMPNotifier, error) {
	var opts []func(*stomp.Conn) error
	if login != "" {
		opts = append(opts, stomp.ConnOpt.Login(login, passcode))
	}

	conn, err := stomp.Dial("tcp", addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect stomp %s: %w", addr, err)
	}

	return newSTOMPNotifier(conn, destination), nil
}

func newSTOMPNotifier(conn stompConn, destination string) *STOMPNotifier {
	return &STOMPNotifier{conn: conn, destination: strings.TrimSuffix(destination, ".")}
}

func (n *STOMPNotifier) Name() string { return "stomp" }

func (n *STOMPNotifier) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return n.conn.Send(
		n.destination+"."+msg.Topic,
		"application/json",
		msg.Payload,
		stomp.SendOpt.Header("pagure-msg-id", msg.ID),
	)
}

func (n *STOMPNotifier) Close() error {
	return n.conn.Disconnect()
}
