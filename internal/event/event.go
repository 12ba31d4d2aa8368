// Package event defines the named events exchanged with the room backend
// over the realtime channel, and their JSON payloads. The client is a thin
// relay: outgoing names are user intents, incoming names are server
// notifications applied verbatim to the room view.
package event

import "encoding/json"

// Outgoing intents.
const (
	Join             = "join"
	LeaveRoom        = "leaveRoom"
	CodeChange       = "codeChange"
	Typing           = "typing"
	LanguageChange   = "languageChange"
	ToggleTypingLock = "toggleTypingLock"
	CompileCode      = "compileCode"
	ChatMessage      = "chatMessage" // also incoming
	ClearChat        = "clearChat"   // also incoming
)

// Incoming notifications.
const (
	UserJoined     = "userJoined"
	CodeUpdate     = "codeUpdate"
	UserTyping     = "userTyping"
	LanguageUpdate = "languageUpdate"
	CodeResponse   = "codeResponse"
	TypingLocked   = "typingLocked"
	ToastMessage   = "toastMessage"
)

// Envelope is the wire frame: an event name plus its raw payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope marshals payload into an Envelope for event name. A nil
// payload produces an envelope with no data (e.g. leaveRoom).
func NewEnvelope(name string, payload any) (Envelope, error) {
	env := Envelope{Event: name}
	if payload == nil {
		return env, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	env.Data = data
	return env, nil
}
