package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metrogo/internal/transit"
)

func TestChatImmediateReply(t *testing.T) {
	s := loggedIn(t)
	require.NoError(t, s.OpenChat())
	assert.True(t, s.State().ChatOpen)

	_, ok := s.Send("   ")
	assert.False(t, ok)

	msg, ok := s.Send("where is my bus?")
	require.True(t, ok)
	assert.Equal(t, FromUser, msg.Sender)

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, greeting, msgs[0].Text)
	assert.Equal(t, "where is my bus?", msgs[1].Text)
	assert.Equal(t, autoReply, msgs[2].Text)
	assert.Equal(t, FromBot, msgs[2].Sender)

	s.CloseChat()
	assert.False(t, s.State().ChatOpen)
}

func TestChatDelayedReply(t *testing.T) {
	s := NewSession(transit.Builtin(), Options{ReplyDelay: 5 * time.Millisecond})
	defer s.Close()
	_, err := s.Login("9876543210")
	require.NoError(t, err)

	_, ok := s.Send("hello")
	require.True(t, ok)
	assert.Len(t, s.Messages(), 2)
	assert.Eventually(t, func() bool { return len(s.Messages()) == 3 }, time.Second, time.Millisecond)
}

func TestCloseCancelsReplies(t *testing.T) {
	s := NewSession(transit.Builtin(), Options{ReplyDelay: time.Hour})
	_, ok := s.Send("hello")
	require.True(t, ok)
	s.Close()
	assert.Len(t, s.Messages(), 2)
	_, ok = s.Send("again")
	assert.False(t, ok)
}
