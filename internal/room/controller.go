// Package room holds the in-memory state of the active editing session and
// maps it both ways: incoming channel notifications become state updates,
// local user intents become outgoing channel events. The client performs no
// merging; the buffer is whatever the server last broadcast or the user
// last typed (last write wins).
package room

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Hetav2211/Frontend-Codac/internal/domain"
	"github.com/Hetav2211/Frontend-Codac/internal/event"
	"github.com/Hetav2211/Frontend-Codac/internal/session"
)

const (
	// maxFreeRoomsPerDay is the client-side creation quota for the Free
	// plan, advisory only; the server applies its own checks.
	maxFreeRoomsPerDay = 3

	// typingIndicatorTTL is how long "X is Typing" stays visible.
	typingIndicatorTTL = 2 * time.Second

	// noticeRing bounds the retained transient notices.
	noticeRing = 50

	// runtimeVersion selects the execution runtime, "*" meaning latest.
	runtimeVersion = "*"
)

// Emitter queues an outgoing event on the realtime channel.
type Emitter interface {
	Emit(name string, payload any) error
}

// Controller is the room view controller. All state transitions run either
// on the event loop (remote notifications) or on a caller goroutine (local
// intents); the mutex keeps the two honest.
type Controller struct {
	mu      sync.Mutex
	log     *logrus.Logger
	store   *session.Store
	emitter Emitter
	now     func() time.Time

	joined   bool
	roomID   string
	userName string
	plan     domain.Plan

	users    []string
	language domain.Language
	code     string
	output   string
	lock     domain.LockState
	chat     []domain.ChatMessage
	chatOpen bool
	unread   int

	typing    string
	typingSeq int

	notices []domain.Notice
}

// NewController builds an unjoined controller. The plan is taken from the
// cached account when its token is still honored, defaulting to Free.
func NewController(store *session.Store, emitter Emitter, log *logrus.Logger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	c := &Controller{
		log:      log,
		store:    store,
		emitter:  emitter,
		now:      time.Now,
		plan:     domain.PlanFree,
		language: domain.DefaultLanguage,
		code:     domain.DefaultLanguage.DefaultCode(),
	}
	if acct, ok := store.Account(); ok && store.TokenValid() {
		c.plan = domain.ParsePlan(string(acct.Plan))
	}
	return c
}

// Run consumes the channel's notification stream until it closes or done
// is signalled. Remote events are applied one at a time.
func (c *Controller) Run(done <-chan struct{}, events <-chan event.Envelope) {
	log := c.log.WithField("component", "room")
	log.Info("room controller running")
	for {
		select {
		case <-done:
			log.Info("room controller stopped")
			return
		case env, ok := <-events:
			if !ok {
				log.Warn("realtime channel closed")
				c.notify("error", "Connection to the room server was lost")
				return
			}
			c.Apply(env)
		}
	}
}

// --- Local intents ---

// CreateRoomID generates a fresh room id, enforcing the Free-plan daily
// quota. The counter only moves for Free-plan sessions.
func (c *Controller) CreateRoomID() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	today := c.now().UTC().Format("2006-01-02")
	if c.plan == domain.PlanFree && c.store.RoomCreations(today) >= maxFreeRoomsPerDay {
		c.notifyLocked("error", ErrRoomQuotaExceeded.Error())
		return "", ErrRoomQuotaExceeded
	}

	id := uuid.NewString()[:10]
	if c.plan == domain.PlanFree {
		c.store.IncrRoomCreations(today)
	}
	c.notifyLocked("success", fmt.Sprintf("New room created: %s", id))
	return id, nil
}

// Join emits exactly one join intent, persists the session and moves the
// view to Joined.
func (c *Controller) Join(roomID, userName string) error {
	roomID = strings.TrimSpace(roomID)
	userName = strings.TrimSpace(userName)
	if roomID == "" || userName == "" {
		return ErrMissingRoomInfo
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	logCtx := c.log.WithFields(logrus.Fields{"room_id": roomID, "user_name": userName})
	if err := c.emitter.Emit(event.Join, event.JoinPayload{RoomID: roomID, UserName: userName}); err != nil {
		logCtx.WithError(err).Warn("failed to emit join intent")
	}
	c.joined = true
	c.roomID = roomID
	c.userName = userName
	c.store.SaveSession(domain.Session{RoomID: roomID, UserName: userName, Joined: true})
	c.notifyLocked("success", "You have joined the room")
	logCtx.Info("joined room")
	return nil
}

// Restore re-enters the persisted session, if one exists, emitting one
// re-join intent. It returns whether a session was restored.
func (c *Controller) Restore() bool {
	sess, ok := c.store.Session()
	if !ok {
		return false
	}
	if err := c.Join(sess.RoomID, sess.UserName); err != nil {
		return false
	}
	c.log.WithField("room_id", sess.RoomID).Info("session restored")
	return true
}

// Leave emits one leaveRoom intent, destroys the persisted session and
// resets the room view to its unjoined defaults.
func (c *Controller) Leave() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.joined {
		return ErrNotJoined
	}

	if err := c.emitter.Emit(event.LeaveRoom, nil); err != nil {
		c.log.WithError(err).Warn("failed to emit leave intent")
	}
	c.store.ClearSession()

	c.joined = false
	c.roomID = ""
	c.userName = ""
	c.users = nil
	c.language = domain.DefaultLanguage
	c.code = domain.DefaultLanguage.DefaultCode()
	c.output = ""
	c.lock = domain.LockState{}
	c.chat = nil
	c.chatOpen = false
	c.unread = 0
	c.typing = ""
	c.typingSeq++

	c.notifyLocked("success", "You have left the room")
	c.log.Info("left room")
	return nil
}

// SetCode applies a local edit and relays it. The edit is refused while
// the typing lock is held by someone else.
func (c *Controller) SetCode(code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.joined {
		return ErrNotJoined
	}
	if c.lock.Locked && c.lock.Owner != c.userName {
		return ErrEditorLocked
	}

	c.code = code
	if err := c.emitter.Emit(event.CodeChange, event.CodeChangePayload{RoomID: c.roomID, Code: code}); err != nil {
		c.log.WithError(err).Warn("failed to emit code change")
	}
	if err := c.emitter.Emit(event.Typing, event.TypingPayload{RoomID: c.roomID, UserName: c.userName}); err != nil {
		c.log.WithError(err).Warn("failed to emit typing")
	}
	return nil
}

// ChangeLanguage switches the room language, resets the buffer to the
// language's starter snippet and relays the change.
func (c *Controller) ChangeLanguage(lang domain.Language) error {
	if !lang.IsValid() {
		return ErrInvalidLanguage
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.joined {
		return ErrNotJoined
	}

	c.language = lang
	c.code = lang.DefaultCode()
	if err := c.emitter.Emit(event.LanguageChange, event.LanguageChangePayload{RoomID: c.roomID, Language: string(lang)}); err != nil {
		c.log.WithError(err).Warn("failed to emit language change")
	}
	c.notifyLocked("success", "Language changed!")
	return nil
}

// ToggleTypingLock asks the server to flip the typing lock. The server is
// the arbiter of who ends up holding it.
func (c *Controller) ToggleTypingLock() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.joined {
		return ErrNotJoined
	}
	if err := c.emitter.Emit(event.ToggleTypingLock, event.TypingPayload{RoomID: c.roomID, UserName: c.userName}); err != nil {
		c.log.WithError(err).Warn("failed to emit lock toggle")
		return err
	}
	return nil
}

// RunCode emits a single execute intent. Exactly one codeResponse is
// expected back; there is no retry or timeout.
func (c *Controller) RunCode(stdin string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.joined {
		return ErrNotJoined
	}
	payload := event.CompileCodePayload{
		Code:      c.code,
		RoomID:    c.roomID,
		Language:  string(c.language),
		Version:   runtimeVersion,
		UserInput: stdin,
	}
	if err := c.emitter.Emit(event.CompileCode, payload); err != nil {
		c.log.WithError(err).Warn("failed to emit compile intent")
		return err
	}
	c.notifyLocked("info", "Running code...")
	return nil
}

// SendChat relays a chat message. Chat is gated to the Team plan; the
// message is appended when the server echoes it back, not here.
func (c *Controller) SendChat(message string) error {
	message = strings.TrimSpace(message)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.joined {
		return ErrNotJoined
	}
	if !c.plan.ChatAllowed() {
		return ErrChatNotAllowed
	}
	if message == "" {
		return ErrEmptyMessage
	}
	if err := c.emitter.Emit(event.ChatMessage, event.ChatPayload{RoomID: c.roomID, Message: message, UserName: c.userName}); err != nil {
		c.log.WithError(err).Warn("failed to emit chat message")
		return err
	}
	return nil
}

// ClearChat asks the server to wipe the chat log. Permitted only for the
// locally derived leader; this is a display-layer convenience, the server
// may apply its own check.
func (c *Controller) ClearChat() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.joined {
		return ErrNotJoined
	}
	if c.userName != c.leaderLocked() {
		c.notifyLocked("warn", ErrNotLeader.Error())
		return ErrNotLeader
	}
	if err := c.emitter.Emit(event.ClearChat, event.ClearChatPayload{RoomID: c.roomID}); err != nil {
		c.log.WithError(err).Warn("failed to emit clear chat")
		return err
	}
	return nil
}

// OpenChat marks the chat panel open and resets the unread counter.
func (c *Controller) OpenChat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chatOpen = true
	c.unread = 0
}

// CloseChat marks the chat panel closed.
func (c *Controller) CloseChat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chatOpen = false
}

// Download writes the buffer to dir as code-<roomId>.<ext> and returns the
// written path.
func (c *Controller) Download(dir string) (string, error) {
	c.mu.Lock()
	name := c.roomID
	if name == "" {
		name = "snippet"
	}
	filename := fmt.Sprintf("code-%s.%s", name, c.language.FileExtension())
	code := c.code
	c.mu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return "", err
	}
	c.notify("success", "Code downloaded!")
	return path, nil
}

// SetTheme persists the theme preference.
func (c *Controller) SetTheme(dark bool) {
	if dark {
		c.store.SaveTheme("dark")
	} else {
		c.store.SaveTheme("light")
	}
}

// SetPlan updates the cached plan for this view (after login or a plan
// change confirmed by the backend).
func (c *Controller) SetPlan(plan domain.Plan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plan = domain.ParsePlan(string(plan))
}

// Leader returns the locally inferred leader: the first roster entry.
func (c *Controller) Leader() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.leaderLocked()
}

func (c *Controller) leaderLocked() string {
	if len(c.users) == 0 {
		return ""
	}
	return c.users[0]
}

// Editable reports whether the local user may type: true unless the lock
// is held by someone else.
func (c *Controller) Editable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editableLocked()
}

func (c *Controller) editableLocked() bool {
	return !c.lock.Locked || c.lock.Owner == c.userName
}

// State returns a snapshot of the room view for rendering.
func (c *Controller) State() domain.RoomState {
	c.mu.Lock()
	defer c.mu.Unlock()

	users := make([]string, len(c.users))
	copy(users, c.users)
	chat := make([]domain.ChatMessage, len(c.chat))
	copy(chat, c.chat)
	notices := make([]domain.Notice, len(c.notices))
	copy(notices, c.notices)

	return domain.RoomState{
		Joined:   c.joined,
		RoomID:   c.roomID,
		UserName: c.userName,
		Plan:     c.plan,
		Users:    users,
		Leader:   c.leaderLocked(),
		Language: c.language,
		Code:     c.code,
		Lock:     c.lock,
		Editable: c.editableLocked(),
		Typing:   c.typing,
		Output:   c.output,
		Chat:     chat,
		Unread:   c.unread,
		Notices:  notices,
	}
}

// --- Notices ---

func (c *Controller) notify(kind, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifyLocked(kind, message)
}

func (c *Controller) notifyLocked(kind, message string) {
	c.notices = append(c.notices, domain.Notice{Type: kind, Message: message})
	if len(c.notices) > noticeRing {
		c.notices = c.notices[len(c.notices)-noticeRing:]
	}
	c.log.WithFields(logrus.Fields{"type": kind}).Info(message)
}
