package assistant

import (
	"time"

	"github.com/google/uuid"
)

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	RoleUser  MessageRole = "user"
	RoleModel MessageRole = "model"
)

// ChatMessage is one entry in the conversation log. Live marks messages
// assembled from live-session transcript fragments; those remain open for
// further appends, one-shot messages do not.
type ChatMessage struct {
	ID             string
	Role           MessageRole
	Text           string
	Timestamp      time.Time
	Live           bool
	GroundingLinks []GroundingLink
}

// NewMessage creates a closed one-shot message.
func NewMessage(role MessageRole, text string) ChatMessage {
	return ChatMessage{
		ID:        uuid.New().String(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// Transcript is an append-only conversation log. It is not safe for
// concurrent use; the dispatch loop owns it.
type Transcript struct {
	messages []ChatMessage
}

// Messages returns the log in order.
func (t *Transcript) Messages() []ChatMessage {
	return t.messages
}

// Append adds a one-shot message. Subsequent live fragments of the same
// role start a fresh message instead of merging into it.
func (t *Transcript) Append(msg ChatMessage) {
	msg.Live = false
	t.messages = append(t.messages, msg)
}

// AppendLive folds a live transcript fragment into the log. Consecutive
// fragments of the same role merge into the most recent message, joined by
// a single space, as long as that message is itself a live one; otherwise a
// new live message is started. Fragments never merge across roles.
func (t *Transcript) AppendLive(role MessageRole, fragment string) {
	if n := len(t.messages); n > 0 {
		last := &t.messages[n-1]
		if last.Live && last.Role == role {
			last.Text += " " + fragment
			return
		}
	}
	t.messages = append(t.messages, ChatMessage{
		ID:        uuid.New().String(),
		Role:      role,
		Text:      fragment,
		Timestamp: time.Now(),
		Live:      true,
	})
}
