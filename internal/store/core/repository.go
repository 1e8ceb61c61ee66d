package core

import (
	"context"
	"time"
)

// Interfaces angostas por preocupación: los servicios reciben sólo lo que
// usan (inyección por constructor, sin registry global).

type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*User, error)
	CreateUser(ctx context.Context, u *User) error
	// UpdateUserProfile actualiza sólo campos de perfil (nombre, username,
	// foto); nunca toca identidad (telegram_id, email) ni flags.
	UpdateUserProfile(ctx context.Context, u *User) error
}

type TokenRepository interface {
	CreateRefreshToken(ctx context.Context, rt *RefreshToken) error
	// ConsumeRefreshToken borra y devuelve el registro en un solo paso
	// atómico (delete-if-present). Dos llamadas concurrentes con el mismo
	// token: exactamente una gana, la otra recibe ErrNotFound.
	ConsumeRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, userID, token string) error
	DeleteRefreshTokensByUser(ctx context.Context, userID string) (int64, error)
	DeleteExpiredRefreshTokens(ctx context.Context, userID string, now time.Time) (int64, error)
}

type WebhookRepository interface {
	AppendWebhookLog(ctx context.Context, l *WebhookLog) error
	CreateSavedMedia(ctx context.Context, m *SavedMedia) error
	CreateStoryLog(ctx context.Context, s *StoryLog) error
	UpsertBotSession(ctx context.Context, userID string, active bool, at time.Time) (*BotSession, error)
	ListSavedMedia(ctx context.Context, limit, offset int) ([]SavedMedia, error)
	ListStoryLogs(ctx context.Context, limit, offset int) ([]StoryLog, error)
	ListBotSessions(ctx context.Context) ([]BotSession, error)
}

type ChannelRepository interface {
	ListChannels(ctx context.Context) ([]Channel, error)
	CreateChannel(ctx context.Context, c *Channel) error
	DeleteChannel(ctx context.Context, id string) error
}

type AIConfigRepository interface {
	UpsertAIConfig(ctx context.Context, c *AIConfig) error
	GetAIConfig(ctx context.Context, userID string) (*AIConfig, error)
}

// Repository agrega todo lo que implementa un adapter completo (pg, memory).
type Repository interface {
	Ping(ctx context.Context) error

	UserRepository
	TokenRepository
	WebhookRepository
	ChannelRepository
	AIConfigRepository
}
