package application

import (
	"context"
	"strings"
	"sync"

	"github.com/bnema/devicepool-cli/internal/domain"
	"github.com/bnema/devicepool-cli/internal/ports"
	"github.com/rs/zerolog/log"
)

// SessionService owns the process-wide authentication state. The token is
// mirrored in the SessionStore so later invocations start authenticated.
type SessionService struct {
	remote ports.RemoteService
	store  *SessionStore

	mu          sync.RWMutex
	token       string
	lastMessage string
	subscribers []chan bool

	initOnce sync.Once
	initDone chan struct{}
}

func NewSessionService(remote ports.RemoteService, store *SessionStore) *SessionService {
	return &SessionService{
		remote:   remote,
		store:    store,
		initDone: make(chan struct{}),
	}
}

// Init restores a persisted token and validates it in the background. The
// restored token is visible as soon as Init returns; if the service rejects
// it the session is cleared. The returned channel is closed once validation
// has settled. Only the first call does any work.
func (s *SessionService) Init(ctx context.Context) <-chan struct{} {
	s.initOnce.Do(func() {
		token, err := s.store.Get(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("restore session failed")
		}
		if token == "" {
			close(s.initDone)
			return
		}

		s.setToken(token)

		go func() {
			defer close(s.initDone)

			if s.remote.ValidateToken(ctx).Valid {
				return
			}

			log.Info().Msg("stored session is no longer valid")
			s.clearIfCurrent(ctx, token)
		}()
	})

	return s.initDone
}

func (s *SessionService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *SessionService) IsAuthenticated() bool {
	return s.Session().IsAuthenticated()
}

func (s *SessionService) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Session{Token: s.token}
}

// Login exchanges credentials for a token and persists it. It reports
// whether the user is now authenticated; LastLoginMessage holds the reason
// when not.
func (s *SessionService) Login(ctx context.Context, username, password string) bool {
	result := s.remote.Login(ctx, username, password)

	s.mu.Lock()
	s.lastMessage = strings.TrimSpace(result.Message)
	s.mu.Unlock()

	if !result.Success || result.Token == "" {
		if s.LastLoginMessage() == "" {
			s.setLastMessage("Login failed")
		}
		return false
	}

	if err := s.store.Set(ctx, result.Token); err != nil {
		log.Error().Err(err).Msg("persist session failed")
		s.setLastMessage(err.Error())
		return false
	}

	s.setToken(result.Token)
	return true
}

func (s *SessionService) LastLoginMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessage
}

// Logout forgets the session locally. The in-memory state is cleared even
// when removing the stored token fails.
func (s *SessionService) Logout(ctx context.Context) error {
	err := s.store.Remove(ctx)
	s.setToken("")
	return err
}

// Subscribe returns a channel that receives the authentication state after
// every change. Only the latest state is buffered.
func (s *SessionService) Subscribe() <-chan bool {
	ch := make(chan bool, 1)

	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()

	return ch
}

func (s *SessionService) setLastMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastMessage = message
}

func (s *SessionService) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	was := s.token != ""
	s.token = token
	if now := token != ""; now != was {
		s.notifyLocked(now)
	}
}

// clearIfCurrent drops the session only if nobody logged in again while the
// stale token was being validated.
func (s *SessionService) clearIfCurrent(ctx context.Context, stale string) {
	s.mu.RLock()
	current := s.token
	s.mu.RUnlock()
	if current != stale {
		return
	}

	if err := s.store.Remove(ctx); err != nil {
		log.Warn().Err(err).Msg("remove stale session failed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == stale {
		s.token = ""
		s.notifyLocked(false)
	}
}

func (s *SessionService) notifyLocked(authenticated bool) {
	for _, ch := range s.subscribers {
		publishLatest(ch, authenticated)
	}
}

// publishLatest replaces any unread value in a single-slot channel. Callers
// must be the only sender on ch.
func publishLatest[T any](ch chan T, value T) {
	select {
	case ch <- value:
		return
	default:
	}

	select {
	case <-ch:
	default:
	}
	ch <- value
}
