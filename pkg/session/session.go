package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	KeyBaseURL = "ndgm_api_base"
	KeyToken   = "ndgm_token"
	KeyUser    = "ndgm_user"

	DefaultBaseURL = "http://localhost:3000"
)

// Store is the key-value backend a Session persists into.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Option customises a Session.
type Option func(*Session)

// WithDefaultBaseURL overrides the base URL returned when none is stored.
func WithDefaultBaseURL(url string) Option {
	return func(s *Session) {
		if url = strings.TrimSpace(url); url != "" {
			s.defaultBaseURL = strings.TrimSuffix(url, "/")
		}
	}
}

// WithLogger sets the logger used for read failures.
func WithLogger(log Logger) Option {
	return func(s *Session) {
		s.log = ensureLogger(log)
	}
}

// Session reads and writes client credentials.
type Session struct {
	store          Store
	defaultBaseURL string
	log            Logger
}

// New returns a Session over store.
func New(store Store, opts ...Option) *Session {
	s := &Session{
		store:          store,
		defaultBaseURL: DefaultBaseURL,
		log:            noopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BaseURL returns the stored base URL, or the default when unset.
func (s *Session) BaseURL() string {
	if v, ok := s.get(KeyBaseURL); ok && v != "" {
		return v
	}
	return s.defaultBaseURL
}

// SetBaseURL strips a single trailing slash, persists and returns the result.
func (s *Session) SetBaseURL(url string) (string, error) {
	base := strings.TrimSuffix(url, "/")
	if err := s.store.Set(KeyBaseURL, base); err != nil {
		return "", fmt.Errorf("store base url: %w", err)
	}
	return base, nil
}

// Token returns the stored bearer token, or "" when none is stored.
func (s *Session) Token() string {
	v, _ := s.get(KeyToken)
	return v
}

// SetToken persists token and user. An empty token removes the token entry;
// a nil user removes the user entry. The two keys are written independently.
func (s *Session) SetToken(token string, user *User) error {
	if token != "" {
		if err := s.store.Set(KeyToken, token); err != nil {
			return fmt.Errorf("store token: %w", err)
		}
	} else if err := s.store.Delete(KeyToken); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}

	if user != nil {
		raw, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		if err := s.store.Set(KeyUser, string(raw)); err != nil {
			return fmt.Errorf("store user: %w", err)
		}
		return nil
	}
	if err := s.store.Delete(KeyUser); err != nil {
		return fmt.Errorf("remove user: %w", err)
	}
	return nil
}

// StoredUser decodes the persisted user. Missing or malformed data yields nil.
func (s *Session) StoredUser() *User {
	raw, ok := s.get(KeyUser)
	if !ok || raw == "" {
		return nil
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.log.WarnObj("stored user is malformed; ignoring", "session_error", map[string]any{
			"key":   KeyUser,
			"error": err.Error(),
		})
		return nil
	}
	return &u
}

// ClearAuth removes the token and user entries.
func (s *Session) ClearAuth() error {
	var errs []error
	if err := s.store.Delete(KeyToken); err != nil {
		errs = append(errs, fmt.Errorf("remove token: %w", err))
	}
	if err := s.store.Delete(KeyUser); err != nil {
		errs = append(errs, fmt.Errorf("remove user: %w", err))
	}
	return errors.Join(errs...)
}

func (s *Session) get(key string) (string, bool) {
	v, ok, err := s.store.Get(key)
	if err != nil {
		s.log.WarnObj("session read failed", "session_error", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
		return "", false
	}
	return v, ok
}
