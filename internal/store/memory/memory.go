// Package memory implementa core.Repository con maps bajo mutex. Para
// desarrollo local y tests; el consumo de refresh tokens es atómico bajo el
// mismo lock que usa Postgres vía DELETE ... RETURNING.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/tgsecret/internal/store/core"
)

type Store struct {
	mu sync.Mutex

	users     map[string]*core.User // por id
	tokens    map[string]*core.RefreshToken
	logs      []core.WebhookLog
	media     []core.SavedMedia
	stories   []core.StoryLog
	sessions  map[string]*core.BotSession
	channels  map[string]*core.Channel
	aiConfigs map[string]*core.AIConfig
}

func New() *Store {
	return &Store{
		users:     make(map[string]*core.User),
		tokens:    make(map[string]*core.RefreshToken),
		sessions:  make(map[string]*core.BotSession),
		channels:  make(map[string]*core.Channel),
		aiConfigs: make(map[string]*core.AIConfig),
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func cloneUser(u *core.User) *core.User {
	c := *u
	return &c
}

// --- users ---

func (s *Store) GetUserByID(_ context.Context, id string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email != nil && *u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) GetUserByTelegramID(_ context.Context, telegramID int64) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.TelegramID != nil && *u.TelegramID == telegramID {
			return cloneUser(u), nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, u *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	for _, ex := range s.users {
		if u.TelegramID != nil && ex.TelegramID != nil && *ex.TelegramID == *u.TelegramID {
			return core.ErrConflict
		}
		if u.Email != nil && ex.Email != nil && *ex.Email == *u.Email {
			return core.ErrConflict
		}
	}
	s.users[u.ID] = cloneUser(u)
	return nil
}

func (s *Store) UpdateUserProfile(_ context.Context, u *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ex, ok := s.users[u.ID]
	if !ok {
		return core.ErrNotFound
	}
	ex.FirstName = u.FirstName
	ex.LastName = u.LastName
	ex.Username = u.Username
	ex.PhotoURL = u.PhotoURL
	ex.UpdatedAt = time.Now().UTC()
	return nil
}

// ForceUpdateUser reemplaza el registro completo, flags incluidos. Sólo para
// tests y tooling; el core de auth usa UpdateUserProfile.
func (s *Store) ForceUpdateUser(u *core.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = cloneUser(u)
}

// --- refresh tokens ---

func (s *Store) CreateRefreshToken(_ context.Context, rt *core.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.tokens[rt.Token]; dup {
		return core.ErrConflict
	}
	c := *rt
	s.tokens[rt.Token] = &c
	return nil
}

func (s *Store) ConsumeRefreshToken(_ context.Context, token string) (*core.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.tokens[token]
	if !ok {
		return nil, core.ErrNotFound
	}
	delete(s.tokens, token)
	c := *rt
	return &c, nil
}

func (s *Store) DeleteRefreshToken(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rt, ok := s.tokens[token]; ok && rt.UserID == userID {
		delete(s.tokens, token)
	}
	return nil
}

func (s *Store) DeleteRefreshTokensByUser(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for tok, rt := range s.tokens {
		if rt.UserID == userID {
			delete(s.tokens, tok)
			n++
		}
	}
	return n, nil
}

func (s *Store) DeleteExpiredRefreshTokens(_ context.Context, userID string, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for tok, rt := range s.tokens {
		if rt.UserID == userID && rt.ExpiresAt.Before(now) {
			delete(s.tokens, tok)
			n++
		}
	}
	return n, nil
}

// CountRefreshTokens devuelve cuántos registros tiene un usuario (tests).
func (s *Store) CountRefreshTokens(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, rt := range s.tokens {
		if rt.UserID == userID {
			n++
		}
	}
	return n
}

// --- webhook / dominio ---

func (s *Store) AppendWebhookLog(_ context.Context, l *core.WebhookLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, *l)
	return nil
}

// WebhookLogs devuelve un snapshot del audit trail (tests).
func (s *Store) WebhookLogs() []core.WebhookLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.WebhookLog, len(s.logs))
	copy(out, s.logs)
	return out
}

func (s *Store) CreateSavedMedia(_ context.Context, m *core.SavedMedia) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.media = append(s.media, *m)
	return nil
}

func (s *Store) CreateStoryLog(_ context.Context, st *core.StoryLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stories = append(s.stories, *st)
	return nil
}

func (s *Store) UpsertBotSession(_ context.Context, userID string, active bool, at time.Time) (*core.BotSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &core.BotSession{UserID: userID, IsActive: active, LastActive: at}
	s.sessions[userID] = sess
	c := *sess
	return &c, nil
}

func (s *Store) ListSavedMedia(_ context.Context, limit, offset int) ([]core.SavedMedia, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pageDesc(s.media, limit, offset, func(m core.SavedMedia) time.Time { return m.CreatedAt }), nil
}

func (s *Store) ListStoryLogs(_ context.Context, limit, offset int) ([]core.StoryLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pageDesc(s.stories, limit, offset, func(st core.StoryLog) time.Time { return st.CreatedAt }), nil
}

func (s *Store) ListBotSessions(_ context.Context) ([]core.BotSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.BotSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, *sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastActive.After(out[j].LastActive) })
	return out, nil
}

func (s *Store) ListChannels(_ context.Context) ([]core.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Channel, 0, len(s.channels))
	for _, c := range s.channels {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CreateChannel(_ context.Context, c *core.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cc := *c
	s.channels[c.ID] = &cc
	return nil
}

func (s *Store) DeleteChannel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.channels[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.channels, id)
	return nil
}

func (s *Store) UpsertAIConfig(_ context.Context, c *core.AIConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cc := *c
	s.aiConfigs[c.UserID] = &cc
	return nil
}

func (s *Store) GetAIConfig(_ context.Context, userID string) (*core.AIConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.aiConfigs[userID]
	if !ok {
		return nil, core.ErrNotFound
	}
	cc := *c
	return &cc, nil
}

func pageDesc[T any](items []T, limit, offset int, createdAt func(T) time.Time) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool { return createdAt(out[i]).After(createdAt(out[j])) })
	if offset >= len(out) {
		return nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
