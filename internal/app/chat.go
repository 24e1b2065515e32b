package app

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

func (s *Session) OpenChat() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ErrNotLoggedIn
	}
	s.chatOpen = true
	return nil
}

func (s *Session) CloseChat() {
	s.mu.Lock()
	s.chatOpen = false
	s.mu.Unlock()
}

// Send posts a user message and schedules the bot reply. Blank text is
// ignored and reported as false.
func (s *Session) Send(text string) (Message, bool) {
	if strings.TrimSpace(text) == "" {
		return Message{}, false
	}
	msg := Message{ID: uuid.NewString(), Text: text, Sender: FromUser}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Message{}, false
	}
	s.chat = append(s.chat, msg)
	if s.replyDelay <= 0 {
		s.chat = append(s.chat, botReply())
		return msg, true
	}
	var timer *time.Timer
	timer = time.AfterFunc(s.replyDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.timers, timer)
		if s.closed {
			return
		}
		s.chat = append(s.chat, botReply())
	})
	s.timers[timer] = struct{}{}
	return msg, true
}

func botReply() Message {
	return Message{ID: uuid.NewString(), Text: autoReply, Sender: FromBot}
}

// Messages returns the chat transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.chat...)
}

// Close cancels pending bot replies. The session rejects new chat
// messages afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for t := range s.timers {
		t.Stop()
	}
	clear(s.timers)
}
