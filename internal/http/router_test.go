package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/tgsecret/internal/app"
	"github.com/dropDatabas3/tgsecret/internal/auth"
	"github.com/dropDatabas3/tgsecret/internal/config"
	"github.com/dropDatabas3/tgsecret/internal/store/core"
	"github.com/dropDatabas3/tgsecret/internal/store/memory"
)

const (
	testBotToken      = "12345:TEST-BOT-TOKEN"
	testWebhookSecret = "hook-secret-for-tests"
	adminEmail        = "admin@tgsecret.local"
	adminPassword     = "s3cret-password"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "dev"
	cfg.Server.Addr = ":0"
	cfg.Server.CORSAllowedOrigins = []string{"http://localhost:3000"}
	cfg.Cache.Driver = "memory"
	cfg.Rate.Enabled = false
	cfg.Security.TelegramBotToken = testBotToken
	cfg.Security.JWTSecret = "jwt-secret-for-tests"
	cfg.Security.JWTRefreshSecret = "jwt-refresh-secret-for-tests"
	cfg.Security.EncryptionKey = strings.Repeat("ab", 32)
	cfg.Security.WebhookSecret = testWebhookSecret
	return cfg
}

// newTestServer levanta el stack completo (router + middlewares + servicios)
// sobre el store en memoria.
func newTestServer(t *testing.T, mutate func(*config.Config)) (*httptest.Server, *memory.Store) {
	t.Helper()
	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
	}
	c, err := app.Build(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	st, ok := c.Store.(*memory.Store)
	require.True(t, ok, "el store de tests debería ser el de memoria")

	srv := httptest.NewServer(NewRouter(c, nil))
	t.Cleanup(srv.Close)
	return srv, st
}

func seedAdmin(t *testing.T, st *memory.Store) {
	t.Helper()
	hash, err := auth.HashPassword(adminPassword)
	require.NoError(t, err)
	email := adminEmail
	require.NoError(t, st.CreateUser(context.Background(), &core.User{
		Email:        &email,
		PasswordHash: &hash,
		FirstName:    "Root",
		IsAdmin:      true,
		IsActive:     true,
	}))
}

// signTelegram firma el payload como lo haría el login widget.
func signTelegram(d *auth.TelegramAuthData, botToken string) {
	pairs := []string{
		"auth_date=" + strconv.FormatInt(d.AuthDate, 10),
		"id=" + strconv.FormatInt(d.ID, 10),
	}
	if d.FirstName != "" {
		pairs = append(pairs, "first_name="+d.FirstName)
	}
	if d.LastName != "" {
		pairs = append(pairs, "last_name="+d.LastName)
	}
	if d.Username != "" {
		pairs = append(pairs, "username="+d.Username)
	}
	if d.PhotoURL != "" {
		pairs = append(pairs, "photo_url="+d.PhotoURL)
	}
	sort.Strings(pairs)
	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(pairs, "\n")))
	d.Hash = hex.EncodeToString(mac.Sum(nil))
}

func doJSON(t *testing.T, method, url string, body any, headers map[string]string) (*stdhttp.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := stdhttp.NewRequest(method, url, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := stdhttp.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func loginAdmin(t *testing.T, base string) (access, refresh string) {
	t.Helper()
	resp, raw := doJSON(t, "POST", base+"/auth/admin/login", map[string]string{
		"email": adminEmail, "password": adminPassword,
	}, nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode, string(raw))
	var out struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	require.NotEmpty(t, out.AccessToken)
	require.NotEmpty(t, out.RefreshToken)
	return out.AccessToken, out.RefreshToken
}

func bearer(tok string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + tok}
}

func webhookHeaders() map[string]string {
	return map[string]string{"X-Webhook-Secret": testWebhookSecret}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	resp, raw := doJSON(t, "GET", srv.URL+"/healthz", nil, nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(raw))
	// Toda respuesta lleva request id.
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestRequestID_Propagation(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	resp, _ := doJSON(t, "GET", srv.URL+"/healthz", nil, map[string]string{"X-Request-ID": "req-abc-123"})
	require.Equal(t, "req-abc-123", resp.Header.Get("X-Request-ID"))
}

func TestWebhook_SecretGate(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	// Sin header: 401 con el envelope estándar.
	resp, raw := doJSON(t, "GET", srv.URL+"/webhook/channels", nil, nil)
	require.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)
	var e struct {
		Error     string `json:"error"`
		ErrorCode int    `json:"error_code"`
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(raw, &e))
	require.Equal(t, "unauthorized", e.Error)
	require.Equal(t, 1301, e.ErrorCode)
	require.NotEmpty(t, e.RequestID)

	// Secreto incorrecto tampoco pasa.
	resp, _ = doJSON(t, "GET", srv.URL+"/webhook/channels", nil, map[string]string{"X-Webhook-Secret": "nope"})
	require.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, "GET", srv.URL+"/webhook/channels", nil, webhookHeaders())
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
}

func TestWebhookHealth_NoSecretRequired(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	// El health check queda fuera del guard: el userbot sondea sin
	// autenticarse.
	resp, raw := doJSON(t, "GET", srv.URL+"/webhook/health", nil, nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode, string(raw))
	var h struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	require.NoError(t, json.Unmarshal(raw, &h))
	require.Equal(t, "ok", h.Status)
	require.Equal(t, "tgsecret", h.Service)
}

func TestWebhookMedia_ThenAdminList(t *testing.T) {
	srv, st := newTestServer(t, nil)
	seedAdmin(t, st)

	// El userbot reporta una media guardada.
	resp, raw := doJSON(t, "POST", srv.URL+"/webhook/media", map[string]any{
		"userId":           "u-123",
		"media_type":       "photo",
		"original_chat_id": 777,
		"original_msg_id":  10,
		"saved_msg_id":     42,
		"file_name":        "foto.jpg",
		"is_view_once":     true,
	}, webhookHeaders())
	require.Equal(t, stdhttp.StatusCreated, resp.StatusCode, string(raw))
	var created struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))
	require.True(t, created.Success)
	require.NotEmpty(t, created.ID)

	// Payload incompleto: 400.
	resp, _ = doJSON(t, "POST", srv.URL+"/webhook/media", map[string]any{"userId": "u-123"}, webhookHeaders())
	require.Equal(t, stdhttp.StatusBadRequest, resp.StatusCode)

	// El dashboard lo ve.
	access, _ := loginAdmin(t, srv.URL)
	resp, raw = doJSON(t, "GET", srv.URL+"/admin/media", nil, bearer(access))
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode, string(raw))
	var page struct {
		Items []struct {
			ID         string `json:"id"`
			MediaType  string `json:"media_type"`
			IsViewOnce bool   `json:"is_view_once"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(raw, &page))
	require.Len(t, page.Items, 1)
	require.Equal(t, created.ID, page.Items[0].ID)
	require.Equal(t, "PHOTO", page.Items[0].MediaType)
	require.True(t, page.Items[0].IsViewOnce)
}

func TestWebhookStatus_Heartbeat(t *testing.T) {
	srv, st := newTestServer(t, nil)

	// Heartbeat camelCase, tal como lo manda el userbot.
	resp, raw := doJSON(t, "POST", srv.URL+"/webhook/status", map[string]any{
		"userId": "u-7", "isActive": true,
	}, webhookHeaders())
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode, string(raw))
	var out struct {
		UserID   string `json:"userId"`
		IsActive bool   `json:"isActive"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Equal(t, "u-7", out.UserID)
	require.True(t, out.IsActive)

	// El estado persistido refleja el heartbeat.
	ss, err := st.ListBotSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, ss, 1)
	require.True(t, ss[0].IsActive)

	// El bot reporta desconexión.
	resp, raw = doJSON(t, "POST", srv.URL+"/webhook/status", map[string]any{
		"userId": "u-7", "isActive": false,
	}, webhookHeaders())
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode, string(raw))
	ss, err = st.ListBotSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, ss, 1)
	require.False(t, ss[0].IsActive)
}

func TestAdmin_ChannelsCRUD(t *testing.T) {
	srv, st := newTestServer(t, nil)
	seedAdmin(t, st)

	// Sin token: 401.
	resp, _ := doJSON(t, "GET", srv.URL+"/admin/channels", nil, nil)
	require.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)

	// Password incorrecta: mismo 401 genérico.
	resp, _ = doJSON(t, "POST", srv.URL+"/auth/admin/login", map[string]string{
		"email": adminEmail, "password": "incorrecta",
	}, nil)
	require.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)

	access, _ := loginAdmin(t, srv.URL)

	// Alta. Required por defecto es true.
	resp, raw := doJSON(t, "POST", srv.URL+"/admin/channels", map[string]any{
		"chat_id": -100123, "title": "Canal oficial", "username": "canal",
	}, bearer(access))
	require.Equal(t, stdhttp.StatusCreated, resp.StatusCode, string(raw))
	var ch struct {
		ID       string `json:"id"`
		Required bool   `json:"required"`
	}
	require.NoError(t, json.Unmarshal(raw, &ch))
	require.NotEmpty(t, ch.ID)
	require.True(t, ch.Required)

	// El userbot ve la lista por su superficie.
	resp, raw = doJSON(t, "GET", srv.URL+"/webhook/channels", nil, webhookHeaders())
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	var wl struct {
		Channels []struct {
			ID string `json:"id"`
		} `json:"channels"`
	}
	require.NoError(t, json.Unmarshal(raw, &wl))
	require.Len(t, wl.Channels, 1)

	// Baja, y baja repetida → 404.
	resp, _ = doJSON(t, "DELETE", srv.URL+"/admin/channels/"+ch.ID, nil, bearer(access))
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, "DELETE", srv.URL+"/admin/channels/"+ch.ID, nil, bearer(access))
	require.Equal(t, stdhttp.StatusNotFound, resp.StatusCode)
}

func TestTelegramLogin_HTTPAndAdminForbidden(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	d := auth.TelegramAuthData{
		ID:        987654,
		FirstName: "Ana",
		Username:  "ana_tg",
		AuthDate:  time.Now().Unix(),
	}
	signTelegram(&d, testBotToken)

	resp, raw := doJSON(t, "POST", srv.URL+"/auth/telegram", d, nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode, string(raw))
	var out struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			TelegramID string `json:"telegramId"`
			IsAdmin    bool   `json:"isAdmin"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Equal(t, "987654", out.User.TelegramID)
	require.False(t, out.User.IsAdmin)

	// Un usuario común no entra al dashboard.
	resp, raw = doJSON(t, "GET", srv.URL+"/admin/media", nil, bearer(out.AccessToken))
	require.Equal(t, stdhttp.StatusForbidden, resp.StatusCode)
	var e struct {
		ErrorCode int `json:"error_code"`
	}
	require.NoError(t, json.Unmarshal(raw, &e))
	require.Equal(t, 1204, e.ErrorCode)

	// Hash adulterado: 401.
	d2 := d
	d2.FirstName = "Eve"
	resp, _ = doJSON(t, "POST", srv.URL+"/auth/telegram", d2, nil)
	require.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)
}

func TestRefresh_RotationOverHTTP(t *testing.T) {
	srv, st := newTestServer(t, nil)
	seedAdmin(t, st)
	_, refresh := loginAdmin(t, srv.URL)

	resp, raw := doJSON(t, "POST", srv.URL+"/auth/refresh", map[string]string{"refreshToken": refresh}, nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode, string(raw))
	var out struct {
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	require.NotEqual(t, refresh, out.RefreshToken)

	// El token canjeado es single-use: el segundo canje falla.
	resp, _ = doJSON(t, "POST", srv.URL+"/auth/refresh", map[string]string{"refreshToken": refresh}, nil)
	require.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)

	// El rotado sigue vivo.
	resp, _ = doJSON(t, "POST", srv.URL+"/auth/refresh", map[string]string{"refreshToken": out.RefreshToken}, nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
}

func TestLogout_RevokesEverything(t *testing.T) {
	srv, st := newTestServer(t, nil)
	seedAdmin(t, st)
	access, refresh := loginAdmin(t, srv.URL)

	// Body vacío = cerrar todas las sesiones.
	resp, raw := doJSON(t, "POST", srv.URL+"/auth/logout", nil, bearer(access))
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode, string(raw))

	resp, _ = doJSON(t, "POST", srv.URL+"/auth/refresh", map[string]string{"refreshToken": refresh}, nil)
	require.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMe(t *testing.T) {
	srv, st := newTestServer(t, nil)
	seedAdmin(t, st)
	access, _ := loginAdmin(t, srv.URL)

	resp, raw := doJSON(t, "GET", srv.URL+"/auth/me", nil, bearer(access))
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode, string(raw))
	var u struct {
		ID      string `json:"id"`
		IsAdmin bool   `json:"isAdmin"`
	}
	require.NoError(t, json.Unmarshal(raw, &u))
	require.NotEmpty(t, u.ID)
	require.True(t, u.IsAdmin)

	resp, _ = doJSON(t, "GET", srv.URL+"/auth/me", nil, nil)
	require.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)
}

func TestAIConfig_AdminPutMasked_WebhookDecrypted(t *testing.T) {
	srv, st := newTestServer(t, nil)
	seedAdmin(t, st)
	access, _ := loginAdmin(t, srv.URL)

	const apiKey = "sk-proj-0123456789abcdef"
	resp, raw := doJSON(t, "PUT", srv.URL+"/admin/ai-config/u-9", map[string]string{
		"provider": "openai", "model": "gpt-4o", "apiKey": apiKey,
	}, bearer(access))
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode, string(raw))

	// El dashboard nunca ve la key completa.
	resp, raw = doJSON(t, "GET", srv.URL+"/admin/ai-config/u-9", nil, bearer(access))
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	var masked struct {
		APIKey string `json:"apiKey"`
	}
	require.NoError(t, json.Unmarshal(raw, &masked))
	require.NotEqual(t, apiKey, masked.APIKey)
	require.Contains(t, masked.APIKey, "…")

	// El userbot sí la recibe descifrada.
	resp, raw = doJSON(t, "GET", srv.URL+"/webhook/ai-config/u-9", nil, webhookHeaders())
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	var full struct {
		APIKey string `json:"apiKey"`
	}
	require.NoError(t, json.Unmarshal(raw, &full))
	require.Equal(t, apiKey, full.APIKey)

	// Config inexistente: 404.
	resp, _ = doJSON(t, "GET", srv.URL+"/webhook/ai-config/nadie", nil, webhookHeaders())
	require.Equal(t, stdhttp.StatusNotFound, resp.StatusCode)
}

func TestRateLimit_Returns429(t *testing.T) {
	srv, _ := newTestServer(t, func(cfg *config.Config) {
		cfg.Rate.Enabled = true
		cfg.Rate.MaxRequests = 3
		// Ventana larga para que el test nunca cruce el borde.
		cfg.Rate.Window = "1h"
	})

	var last *stdhttp.Response
	for i := 0; i < 3; i++ {
		last, _ = doJSON(t, "GET", srv.URL+"/auth/me", nil, nil)
		require.Equal(t, stdhttp.StatusUnauthorized, last.StatusCode, fmt.Sprintf("hit %d", i+1))
	}
	resp, raw := doJSON(t, "GET", srv.URL+"/auth/me", nil, nil)
	require.Equal(t, stdhttp.StatusTooManyRequests, resp.StatusCode, string(raw))
	require.NotEmpty(t, resp.Header.Get("Retry-After"))

	// La salud nunca se limita.
	resp, _ = doJSON(t, "GET", srv.URL+"/healthz", nil, nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
}

func TestCORS_Preflight(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	req, err := stdhttp.NewRequest("OPTIONS", srv.URL+"/auth/telegram", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := stdhttp.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, stdhttp.StatusNoContent, resp.StatusCode)
	require.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))

	// Un origin no permitido no recibe los headers CORS.
	req2, _ := stdhttp.NewRequest("OPTIONS", srv.URL+"/auth/telegram", nil)
	req2.Header.Set("Origin", "http://evil.example")
	req2.Header.Set("Access-Control-Request-Method", "POST")
	resp2, err := stdhttp.DefaultClient.Do(req2)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Empty(t, resp2.Header.Get("Access-Control-Allow-Origin"))
}
