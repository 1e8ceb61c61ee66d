package aiconfig

import (
	"context"
	"errors"
	"testing"

	"github.com/dropDatabas3/tgsecret/internal/security/cryptobox"
	"github.com/dropDatabas3/tgsecret/internal/store/core"
	"github.com/dropDatabas3/tgsecret/internal/store/memory"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	box, err := cryptobox.New(testKey)
	if err != nil {
		t.Fatal(err)
	}
	st := memory.New()
	return NewService(st, box), st
}

func TestPutGet_RoundTrip(t *testing.T) {
	svc, st := newTestService(t)

	const apiKey = "sk-proj-1234567890abcdef"
	if err := svc.Put(context.Background(), "u1", "openai", "gpt-4o", apiKey); err != nil {
		t.Fatalf("Put err: %v", err)
	}

	// En reposo la key está cifrada, no en claro.
	raw, err := st.GetAIConfig(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if raw.APIKeyCipher == "" || raw.APIKeyIV == "" || raw.APIKeyTag == "" {
		t.Fatalf("registro sin cifrar: %+v", raw)
	}
	if raw.APIKeyCipher == apiKey {
		t.Fatal("la API key quedó en claro en el store")
	}

	cfg, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if cfg.APIKey != apiKey {
		t.Fatalf("APIKey = %q, want %q", cfg.APIKey, apiKey)
	}
	if cfg.Provider != "openai" || cfg.Model != "gpt-4o" {
		t.Fatalf("config inesperada: %+v", cfg)
	}
}

func TestPut_Upsert(t *testing.T) {
	svc, _ := newTestService(t)

	if err := svc.Put(context.Background(), "u1", "openai", "", "key-one"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Put(context.Background(), "u1", "anthropic", "claude-sonnet-4-5", "key-two"); err != nil {
		t.Fatal(err)
	}

	cfg, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "anthropic" || cfg.APIKey != "key-two" {
		t.Fatalf("upsert no reemplazó: %+v", cfg)
	}
}

func TestGetMasked(t *testing.T) {
	svc, _ := newTestService(t)

	if err := svc.Put(context.Background(), "u1", "openai", "", "sk-proj-1234567890abcdef"); err != nil {
		t.Fatal(err)
	}
	m, err := svc.GetMasked(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if m.APIKey != "sk-p…cdef" {
		t.Fatalf("key enmascarada = %q", m.APIKey)
	}

	// Keys cortas se ocultan por completo.
	if err := svc.Put(context.Background(), "u2", "openai", "", "corta"); err != nil {
		t.Fatal(err)
	}
	m2, err := svc.GetMasked(context.Background(), "u2")
	if err != nil {
		t.Fatal(err)
	}
	if m2.APIKey != "****" {
		t.Fatalf("key corta enmascarada = %q, want ****", m2.APIKey)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Get(context.Background(), "ghost"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want core.ErrNotFound", err)
	}
}
