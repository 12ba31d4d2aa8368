package event

import "encoding/json"

// JoinPayload is sent with Join.
type JoinPayload struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
}

// CodeChangePayload is sent with CodeChange.
type CodeChangePayload struct {
	RoomID string `json:"roomId"`
	Code   string `json:"code"`
}

// TypingPayload is sent with Typing and ToggleTypingLock.
type TypingPayload struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
}

// LanguageChangePayload is sent with LanguageChange.
type LanguageChangePayload struct {
	RoomID   string `json:"roomId"`
	Language string `json:"language"`
}

// CompileCodePayload is sent with CompileCode. Version is the runtime
// version selector, "*" for latest.
type CompileCodePayload struct {
	Code      string `json:"code"`
	RoomID    string `json:"roomId"`
	Language  string `json:"language"`
	Version   string `json:"version"`
	UserInput string `json:"userInput"`
}

// ChatPayload is sent with ChatMessage.
type ChatPayload struct {
	RoomID   string `json:"roomId"`
	Message  string `json:"message"`
	UserName string `json:"userName"`
}

// ClearChatPayload is sent with ClearChat.
type ClearChatPayload struct {
	RoomID string `json:"roomId"`
}

// TypingLockedPayload arrives with TypingLocked.
type TypingLockedPayload struct {
	User     string `json:"user"`
	IsLocked bool   `json:"isLocked"`
}

// CodeResponsePayload arrives with CodeResponse, carrying the textual
// result of a single execute round trip.
type CodeResponsePayload struct {
	Run struct {
		Output string `json:"output"`
	} `json:"run"`
}

// ToastPayload arrives with ToastMessage.
type ToastPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// rosterEntry tolerates both roster encodings the server may use: plain
// strings or records with a name field.
type rosterEntry struct {
	Name string `json:"name"`
}

// DecodeRoster decodes a userJoined payload. Entries may be strings or
// {name} objects; unknown shapes are skipped.
func DecodeRoster(data json.RawMessage) []string {
	var names []string
	var asStrings []string
	if err := json.Unmarshal(data, &asStrings); err == nil {
		return asStrings
	}
	var asRecords []rosterEntry
	if err := json.Unmarshal(data, &asRecords); err == nil {
		for _, r := range asRecords {
			if r.Name != "" {
				names = append(names, r.Name)
			}
		}
		return names
	}
	// Mixed array: decode element by element.
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	for _, el := range raw {
		var s string
		if err := json.Unmarshal(el, &s); err == nil {
			names = append(names, s)
			continue
		}
		var r rosterEntry
		if err := json.Unmarshal(el, &r); err == nil && r.Name != "" {
			names = append(names, r.Name)
		}
	}
	return names
}
