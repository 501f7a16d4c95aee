package scenario

import (
	"testing"

	"github.com/aukilabs/uruz/messages"
	"github.com/stretchr/testify/require"
)

func TestFilterByType(t *testing.T) {
	filter := FilterByType(messages.MsgTypePingResponse)

	require.NoError(t, filter(messages.Msg{Type: messages.MsgTypePingResponse}))
	require.Error(t, filter(messages.Msg{Type: messages.MsgTypeSyncClock}))
}

func TestFilterByRequestID(t *testing.T) {
	filter := FilterByRequestID(42)

	require.NoError(t, filter(messages.Msg{RequestID: 42}))
	require.Error(t, filter(messages.Msg{RequestID: 21}))
}

func TestFilterMsg(t *testing.T) {
	msg := messages.Msg{
		Type:      messages.MsgTypePingResponse,
		RequestID: 42,
	}

	require.NoError(t, filterMsg(msg, []Filter{
		FilterByType(messages.MsgTypePingResponse),
		FilterByRequestID(42),
	}))
	require.Error(t, filterMsg(msg, []Filter{
		FilterByType(messages.MsgTypePingResponse),
		FilterByRequestID(7),
	}))
}
