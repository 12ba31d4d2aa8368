package room

import "errors"

var (
	ErrMissingRoomInfo   = errors.New("room id and user name are required")
	ErrNotJoined         = errors.New("not in a room")
	ErrRoomQuotaExceeded = errors.New("free plan users can only create up to 3 rooms per day; upgrade to Pro or Team plan for unlimited rooms")
	ErrEditorLocked      = errors.New("editor is locked by another user")
	ErrNotLeader         = errors.New("only the leader can clear the chat")
	ErrChatNotAllowed    = errors.New("chat is available only for Team plan users")
	ErrInvalidLanguage   = errors.New("unsupported language")
	ErrEmptyMessage      = errors.New("message is empty")
)
