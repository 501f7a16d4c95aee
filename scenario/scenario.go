package scenario

import (
	"context"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/uruz/messages"
	"golang.org/x/net/websocket"
)

// ErrScenarioMsgSkip is returned by a filter to skip the current message
// explicitly.
var ErrScenarioMsgSkip = errors.New("message skipped")

// A filter that reports whether a received message is the one a scenario
// step waits for. A non-nil error makes the step skip the message and keep
// waiting.
type Filter func(messages.Msg) error

// Returns a filter that matches messages with the given type.
func FilterByType(msgType messages.MsgType) Filter {
	return func(msg messages.Msg) error {
		if msg.Type != msgType {
			return errors.New("message type does not match").
				WithTag("expected_type", msgType).
				WithTag("current_type", msg.Type)
		}
		return nil
	}
}

// Returns a filter that matches messages with the given request id.
func FilterByRequestID(requestID uint32) Filter {
	return func(msg messages.Msg) error {
		if msg.RequestID != requestID {
			return errors.New("request id does not match").
				WithTag("expected_request_id", requestID).
				WithTag("current_request_id", msg.RequestID)
		}
		return nil
	}
}

// A sequence of send and receive steps performed on a websocket connection.
type Scenario struct {
	conn  *websocket.Conn
	steps []step
}

type step struct {
	newMsg  func() messages.OutMsg
	filters []Filter
}

// Creates a scenario that runs on the given connection.
func NewScenario(conn *websocket.Conn) *Scenario {
	return &Scenario{conn: conn}
}

// Adds a step that sends the message returned by the given function.
func (s *Scenario) Send(newMsg func() messages.OutMsg) *Scenario {
	s.steps = append(s.steps, step{newMsg: newMsg})
	return s
}

// Adds a step that waits for a message that passes all the given filters.
// Messages that do not pass the filters are skipped.
func (s *Scenario) Receive(filters ...Filter) *Scenario {
	s.steps = append(s.steps, step{filters: filters})
	return s
}

// Runs the scenario steps in order. Receive steps honor the context
// deadline.
func (s *Scenario) Run(ctx context.Context) error {
	for _, step := range s.steps {
		if err := ctx.Err(); err != nil {
			return errors.New("scenario is interrupted").Wrap(err)
		}

		if step.newMsg != nil {
			if err := s.send(step.newMsg()); err != nil {
				return errors.New("sending scenario message failed").
					Wrap(err)
			}
			continue
		}

		if err := s.receive(ctx, step.filters); err != nil {
			return errors.New("receiving scenario message failed").
				Wrap(err)
		}
	}
	return nil
}

func (s *Scenario) send(out messages.OutMsg) error {
	msg, err := messages.MsgFromOut(out)
	if err != nil {
		return errors.New("encoding message failed").
			WithTag("msg_type", out.MsgType()).
			Wrap(err)
	}
	return websocket.Message.Send(s.conn, string(msg.Bytes()))
}

func (s *Scenario) receive(ctx context.Context, filters []Filter) error {
	deadline, _ := ctx.Deadline()
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return errors.New("setting read deadline failed").Wrap(err)
	}

	for {
		var frame string
		if err := websocket.Message.Receive(s.conn, &frame); err != nil {
			return err
		}

		msg, err := messages.MsgFromBytes([]byte(frame))
		if err != nil {
			return err
		}

		if filterMsg(msg, filters) == nil {
			return nil
		}
	}
}

func filterMsg(msg messages.Msg, filters []Filter) error {
	for _, filter := range filters {
		if err := filter(msg); err != nil {
			return err
		}
	}
	return nil
}
