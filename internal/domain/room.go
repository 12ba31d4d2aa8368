package domain

// ChatMessage is one entry of the append-only room chat log.
type ChatMessage struct {
	UserName string `json:"userName"`
	Message  string `json:"message"`
	Time     string `json:"time"`
}

// LockState describes the typing lock. While locked, the buffer is
// read-only for everyone except Owner.
type LockState struct {
	Locked bool   `json:"locked"`
	Owner  string `json:"owner,omitempty"`
}

// Notice is a transient user-facing notification, the equivalent of a
// toast in the original UI.
type Notice struct {
	Type    string `json:"type"` // "success", "error", "info", "warn"
	Message string `json:"message"`
}

// RoomState is an immutable snapshot of the room view, rendered by the
// presentation layer.
type RoomState struct {
	Joined   bool          `json:"joined"`
	RoomID   string        `json:"roomId"`
	UserName string        `json:"userName"`
	Plan     Plan          `json:"plan"`
	Users    []string      `json:"users"`
	Leader   string        `json:"leader"`
	Language Language      `json:"language"`
	Code     string        `json:"code"`
	Lock     LockState     `json:"lock"`
	Editable bool          `json:"editable"`
	Typing   string        `json:"typing,omitempty"`
	Output   string        `json:"output"`
	Chat     []ChatMessage `json:"chat"`
	Unread   int           `json:"unread"`
	Notices  []Notice      `json:"notices"`
}
