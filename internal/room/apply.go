package room

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Hetav2211/Frontend-Codac/internal/domain"
	"github.com/Hetav2211/Frontend-Codac/internal/event"
)

// Apply folds one server notification into the room view. Unknown events
// are logged and ignored so a newer server does not break an older client.
func (c *Controller) Apply(env event.Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch env.Event {
	case event.UserJoined:
		c.applyRoster(env.Data)
	case event.CodeUpdate:
		c.applyCodeUpdate(env.Data)
	case event.UserTyping:
		c.applyTyping(env.Data)
	case event.LanguageUpdate:
		c.applyLanguageUpdate(env.Data)
	case event.CodeResponse:
		c.applyCodeResponse(env.Data)
	case event.TypingLocked:
		c.applyTypingLocked(env.Data)
	case event.ChatMessage:
		c.applyChatMessage(env.Data)
	case event.ClearChat:
		c.chat = nil
	case event.ToastMessage:
		c.applyToast(env.Data)
	default:
		c.log.WithField("event", env.Event).Warn("ignoring unknown event")
	}
}

// applyRoster replaces the roster wholesale. The leader is derived, never
// stored: first entry of whatever the server last broadcast.
func (c *Controller) applyRoster(data json.RawMessage) {
	users := event.DecodeRoster(data)
	c.users = users
	c.log.WithField("users", len(users)).Debug("roster updated")
}

func (c *Controller) applyCodeUpdate(data json.RawMessage) {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		c.log.WithError(err).Warn("malformed codeUpdate payload")
		return
	}
	c.code = code
}

// applyTyping shows "<name>... is Typing" for typingIndicatorTTL, the name
// truncated to 8 characters. A newer indicator supersedes the pending
// expiry; the sequence counter keeps a stale timer from clearing it.
func (c *Controller) applyTyping(data json.RawMessage) {
	name := decodeUserName(data)
	if name == "" {
		return
	}
	c.typing = fmt.Sprintf("%s... is Typing", truncateName(name))
	c.typingSeq++
	seq := c.typingSeq
	time.AfterFunc(typingIndicatorTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.typingSeq == seq {
			c.typing = ""
		}
	})
}

func (c *Controller) applyLanguageUpdate(data json.RawMessage) {
	var lang string
	if err := json.Unmarshal(data, &lang); err != nil {
		c.log.WithError(err).Warn("malformed languageUpdate payload")
		return
	}
	l := domain.Language(lang)
	if !l.IsValid() {
		c.log.WithField("language", lang).Warn("server sent unsupported language")
		return
	}
	c.language = l
	c.code = l.DefaultCode()
	c.notifyLocked("info", fmt.Sprintf("Language changed to %s", lang))
}

func (c *Controller) applyCodeResponse(data json.RawMessage) {
	var p event.CodeResponsePayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.log.WithError(err).Warn("malformed codeResponse payload")
		return
	}
	c.output = p.Run.Output
}

func (c *Controller) applyTypingLocked(data json.RawMessage) {
	var p event.TypingLockedPayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.log.WithError(err).Warn("malformed typingLocked payload")
		return
	}
	c.lock = domain.LockState{Locked: p.IsLocked, Owner: p.User}
	if !p.IsLocked {
		c.lock.Owner = ""
		c.notifyLocked("info", "Editor is now unlocked")
		return
	}
	c.notifyLocked("info", fmt.Sprintf("%s... has locked the editor", truncateName(p.User)))
}

// applyChatMessage appends the echoed message. Everyone's messages arrive
// through this path, including our own; unread only counts messages from
// others while the panel is closed.
func (c *Controller) applyChatMessage(data json.RawMessage) {
	var msg domain.ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.log.WithError(err).Warn("malformed chatMessage payload")
		return
	}
	c.chat = append(c.chat, msg)
	if !c.chatOpen && msg.UserName != c.userName {
		c.unread++
	}
	c.log.WithFields(logrus.Fields{"from": msg.UserName}).Debug("chat message received")
}

// decodeUserName tolerates both shapes the server sends for a user: a bare
// string or a {userName} record.
func decodeUserName(data json.RawMessage) string {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	var p event.TypingPayload
	if err := json.Unmarshal(data, &p); err == nil {
		return p.UserName
	}
	return ""
}

// truncateName cuts a user name to 8 runes for display.
func truncateName(name string) string {
	r := []rune(name)
	if len(r) > 8 {
		return string(r[:8])
	}
	return name
}

func (c *Controller) applyToast(data json.RawMessage) {
	var p event.ToastPayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.log.WithError(err).Warn("malformed toastMessage payload")
		return
	}
	if p.Type == "" {
		p.Type = "info"
	}
	c.notifyLocked(p.Type, p.Message)
}
