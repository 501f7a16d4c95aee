package websocket

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/uruz/messages"
	"golang.org/x/net/websocket"
)

// Receiver receives the next message from a connection, returning the
// message and its size in bytes.
type Receiver func() (messages.Msg, int, error)

// Sender sends a message over a connection, returning its size in
// bytes.
type Sender func(messages.Msg) (int, error)

// ResponseSender queues messages to be sent to the connected client.
type ResponseSender interface {
	Send(messages.OutMsg)
	SendMsg(messages.Msg)
}

// Receive reads the next message from the given connection. Messages
// are JSON text frames.
func Receive(conn *websocket.Conn) (messages.Msg, int, error) {
	var s string
	if err := websocket.Message.Receive(conn, &s); err != nil {
		return messages.Msg{}, 0, err
	}

	msg, err := messages.MsgFromBytes([]byte(s))
	if err != nil {
		return messages.Msg{}, len(s), errors.New("receiving message failed").Wrap(err)
	}
	return msg, len(s), nil
}

// Send writes the given message to the given connection.
func Send(conn *websocket.Conn, msg messages.Msg) (int, error) {
	b := msg.Bytes()
	if err := websocket.Message.Send(conn, string(b)); err != nil {
		return 0, errors.New("sending message failed").
			WithTag("msg_type", msg.Type).
			Wrap(err)
	}
	return len(b), nil
}

// SendOut encodes and writes the given outgoing message to the given
// connection.
func SendOut(conn *websocket.Conn, out messages.OutMsg) (int, error) {
	msg, err := messages.MsgFromOut(out)
	if err != nil {
		return 0, err
	}
	return Send(conn, msg)
}
