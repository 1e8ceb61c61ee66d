// Package aiconfig maneja la configuración de IA por usuario. La API key
// nunca toca el disco en claro: se guarda cifrada (cipher/iv/tag) y sólo se
// descifra al servirla al userbot.
package aiconfig

import (
	"context"
	"time"

	"github.com/dropDatabas3/tgsecret/internal/security/cryptobox"
	"github.com/dropDatabas3/tgsecret/internal/store/core"
)

type Service struct {
	store core.AIConfigRepository
	box   *cryptobox.Box
}

func NewService(store core.AIConfigRepository, box *cryptobox.Box) *Service {
	return &Service{store: store, box: box}
}

// Config es la vista descifrada para el userbot.
type Config struct {
	UserID    string    `json:"userId"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model,omitempty"`
	APIKey    string    `json:"apiKey"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Masked es la vista para el dashboard: nunca expone la key completa.
type Masked struct {
	UserID    string    `json:"userId"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model,omitempty"`
	APIKey    string    `json:"apiKey"` // enmascarada
	UpdatedAt time.Time `json:"updatedAt"`
}

// Put cifra la API key y guarda (upsert) la configuración del usuario.
func (s *Service) Put(ctx context.Context, userID, provider, model, apiKey string) error {
	ct, iv, tag, err := s.box.Encrypt(apiKey)
	if err != nil {
		return err
	}
	return s.store.UpsertAIConfig(ctx, &core.AIConfig{
		UserID:       userID,
		Provider:     provider,
		Model:        model,
		APIKeyCipher: ct,
		APIKeyIV:     iv,
		APIKeyTag:    tag,
		UpdatedAt:    time.Now().UTC(),
	})
}

// Get devuelve la configuración con la API key descifrada (para el userbot).
func (s *Service) Get(ctx context.Context, userID string) (*Config, error) {
	c, err := s.store.GetAIConfig(ctx, userID)
	if err != nil {
		return nil, err
	}
	key, err := s.box.Decrypt(c.APIKeyCipher, c.APIKeyIV, c.APIKeyTag)
	if err != nil {
		return nil, err
	}
	return &Config{
		UserID:    c.UserID,
		Provider:  c.Provider,
		Model:     c.Model,
		APIKey:    key,
		UpdatedAt: c.UpdatedAt,
	}, nil
}

// GetMasked devuelve la configuración con la key enmascarada (dashboard).
func (s *Service) GetMasked(ctx context.Context, userID string) (*Masked, error) {
	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Masked{
		UserID:    c.UserID,
		Provider:  c.Provider,
		Model:     c.Model,
		APIKey:    maskKey(c.APIKey),
		UpdatedAt: c.UpdatedAt,
	}, nil
}

func maskKey(k string) string {
	if len(k) <= 8 {
		return "****"
	}
	return k[:4] + "…" + k[len(k)-4:]
}
