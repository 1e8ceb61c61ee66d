// Package channels administra la lista de canales de suscripción forzada:
// CRUD para el dashboard y lectura cacheada para el userbot.
package channels

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/tgsecret/internal/cache"
	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
	"github.com/dropDatabas3/tgsecret/internal/store/core"
)

const (
	cacheKey = "channels:required"
	cacheTTL = 60 * time.Second
)

type Service struct {
	store core.ChannelRepository
	cache cache.Client
}

func NewService(store core.ChannelRepository, c cache.Client) *Service {
	return &Service{store: store, cache: c}
}

// List devuelve todos los canales, sirviendo desde cache cuando puede.
// El userbot consulta esta lista en cada mensaje, de ahí el TTL corto.
func (s *Service) List(ctx context.Context) ([]core.Channel, error) {
	if raw, err := s.cache.Get(ctx, cacheKey); err == nil {
		var out []core.Channel
		if json.Unmarshal([]byte(raw), &out) == nil {
			return out, nil
		}
	}

	out, err := s.store.ListChannels(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(out); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(b), cacheTTL); err != nil {
			logger.From(ctx).Warn("channel cache set failed", logger.Err(err))
		}
	}
	return out, nil
}

// Create da de alta un canal y invalida el cache.
func (s *Service) Create(ctx context.Context, chatID int64, title, username string, required bool) (*core.Channel, error) {
	ch := &core.Channel{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Title:     title,
		Username:  username,
		Required:  required,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateChannel(ctx, ch); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return ch, nil
}

// Delete borra un canal y invalida el cache.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteChannel(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		logger.From(ctx).Warn("channel cache invalidation failed", logger.Err(err))
	}
}
