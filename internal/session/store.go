// Package session is the browser-localStorage equivalent: a small local
// key/value store holding the session (room id, user name, join flag), the
// cached account and token, the theme, per-day room-creation counters and
// the transient checkout plan. Storage failures are never fatal; operations
// degrade to no-ops with a logged warning.
package session

import (
	"encoding/json"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"github.com/Hetav2211/Frontend-Codac/internal/domain"
)

const (
	keyToken        = "token"
	keyUser         = "user"
	keyRoomID       = "roomId"
	keyUserName     = "userName"
	keyJoined       = "joined"
	keyTheme        = "theme"
	keyRoomCreated  = "roomCreatedData"
	keyLastSelected = "lastSelectedPlan"
)

// kv is the storage backend. Implementations must tolerate concurrent use.
type kv interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
	Close() error
}

// Store exposes typed accessors over the persisted keys.
type Store struct {
	kv  kv
	log *logrus.Logger
}

// New wraps a backend in a Store. Use Open for the sqlite backend or
// NewMemory for the volatile fallback.
func New(backend kv, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{kv: backend, log: log}
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.kv.Close()
}

// Session returns the persisted session. ok is false unless all three
// keys are present and the join flag is set, mirroring the original
// presence checks.
func (s *Store) Session() (domain.Session, bool) {
	roomID, ok1 := s.kv.Get(keyRoomID)
	userName, ok2 := s.kv.Get(keyUserName)
	joined, ok3 := s.kv.Get(keyJoined)
	if !ok1 || !ok2 || !ok3 || roomID == "" || userName == "" || joined != "true" {
		return domain.Session{}, false
	}
	return domain.Session{RoomID: roomID, UserName: userName, Joined: true}, true
}

// SaveSession persists the session keys.
func (s *Store) SaveSession(sess domain.Session) {
	s.kv.Set(keyRoomID, sess.RoomID)
	s.kv.Set(keyUserName, sess.UserName)
	if sess.Joined {
		s.kv.Set(keyJoined, "true")
	} else {
		s.kv.Set(keyJoined, "false")
	}
}

// ClearSession removes the session keys.
func (s *Store) ClearSession() {
	s.kv.Delete(keyRoomID)
	s.kv.Delete(keyUserName)
	s.kv.Delete(keyJoined)
}

// Account returns the cached user record, if any.
func (s *Store) Account() (*domain.Account, bool) {
	raw, ok := s.kv.Get(keyUser)
	if !ok || raw == "" {
		return nil, false
	}
	var acct domain.Account
	if err := json.Unmarshal([]byte(raw), &acct); err != nil {
		s.log.WithError(err).Warn("session: cached user record is malformed, ignoring")
		return nil, false
	}
	return &acct, true
}

// SaveAccount caches the user record and its bearer token.
func (s *Store) SaveAccount(acct domain.Account, token string) {
	raw, err := json.Marshal(acct)
	if err != nil {
		s.log.WithError(err).Warn("session: failed to encode user record")
		return
	}
	s.kv.Set(keyUser, string(raw))
	if token != "" {
		s.kv.Set(keyToken, token)
	}
}

// SavePlan updates only the plan of the cached account, creating a bare
// record when none is cached.
func (s *Store) SavePlan(plan domain.Plan) {
	acct, ok := s.Account()
	if !ok {
		acct = &domain.Account{}
	}
	acct.Plan = plan
	s.SaveAccount(*acct, "")
}

// ClearAccount drops the cached user record and token.
func (s *Store) ClearAccount() {
	s.kv.Delete(keyUser)
	s.kv.Delete(keyToken)
}

// Token returns the cached bearer token.
func (s *Store) Token() (string, bool) {
	tok, ok := s.kv.Get(keyToken)
	return tok, ok && tok != ""
}

// TokenValid reports whether the cached token should still be honored. An
// absent token is invalid; an expired one is invalid; a token whose claims
// cannot be parsed falls back to the original presence-only check and is
// treated as valid. The server remains the authority either way.
func (s *Store) TokenValid() bool {
	tok, ok := s.Token()
	if !ok {
		return false
	}
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tok, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.VerifyExpiresAt(nowFunc(), true)
}

// Theme returns the persisted theme, empty when never set.
func (s *Store) Theme() string {
	theme, _ := s.kv.Get(keyTheme)
	return theme
}

// SaveTheme persists "dark" or "light".
func (s *Store) SaveTheme(theme string) {
	s.kv.Set(keyTheme, theme)
}

// RoomCreations returns how many rooms were created on the given date
// string (YYYY-MM-DD). Counters for other dates are retained untouched.
func (s *Store) RoomCreations(date string) int {
	return s.creationMap()[date]
}

// IncrRoomCreations increments and returns the counter for date.
func (s *Store) IncrRoomCreations(date string) int {
	m := s.creationMap()
	m[date]++
	raw, err := json.Marshal(m)
	if err != nil {
		s.log.WithError(err).Warn("session: failed to encode room creation counters")
		return m[date]
	}
	s.kv.Set(keyRoomCreated, string(raw))
	return m[date]
}

func (s *Store) creationMap() map[string]int {
	m := make(map[string]int)
	raw, ok := s.kv.Get(keyRoomCreated)
	if !ok || raw == "" {
		return m
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		s.log.WithError(err).Warn("session: room creation counters are malformed, resetting")
		return make(map[string]int)
	}
	return m
}

// LastSelectedPlan returns the plan stashed across a checkout redirect.
func (s *Store) LastSelectedPlan() (domain.Plan, bool) {
	raw, ok := s.kv.Get(keyLastSelected)
	if !ok || raw == "" {
		return "", false
	}
	return domain.ParsePlan(raw), true
}

// SaveLastSelectedPlan stashes the plan before redirecting to checkout.
func (s *Store) SaveLastSelectedPlan(plan domain.Plan) {
	s.kv.Set(keyLastSelected, string(plan))
}

// ClearLastSelectedPlan removes the stashed plan once consumed.
func (s *Store) ClearLastSelectedPlan() {
	s.kv.Delete(keyLastSelected)
}
