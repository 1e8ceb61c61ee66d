package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
	"github.com/dropDatabas3/tgsecret/internal/store/core"
)

const (
	// TTLs fijos del protocolo: access corto y stateless, refresh largo y
	// con bookkeeping en el TokenStore.
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenPayload es el valor puro embebido (firmado) en access y refresh.
// Nunca se persiste tal cual.
type TokenPayload struct {
	Subject    string
	TelegramID string
	Username   string
	IsAdmin    bool
}

type tokenClaims struct {
	TelegramID string `json:"telegramId,omitempty"`
	Username   string `json:"username,omitempty"`
	IsAdmin    bool   `json:"isAdmin"`
	jwtv5.RegisteredClaims
}

// TokenPair es el par emitido en cada login/refresh exitoso.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Issuer emite y rota pares de tokens firmados HS256: el access con
// accessSecret, el refresh con un refreshSecret distinto. El refresh además
// se registra en el TokenRepository para habilitar revocación y single-use.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	store         core.TokenRepository
	now           func() time.Time
}

func NewIssuer(accessSecret, refreshSecret string, store core.TokenRepository) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     AccessTokenTTL,
		refreshTTL:    RefreshTokenTTL,
		store:         store,
		now:           time.Now,
	}
}

func payloadFor(u *core.User) TokenPayload {
	p := TokenPayload{Subject: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
	if u.TelegramID != nil {
		p.TelegramID = strconv.FormatInt(*u.TelegramID, 10)
	}
	return p
}

func (i *Issuer) sign(p TokenPayload, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := i.now().UTC()
	exp := now.Add(ttl)
	claims := tokenClaims{
		TelegramID: p.TelegramID,
		Username:   p.Username,
		IsAdmin:    p.IsAdmin,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   p.Subject,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
			// jti: dos emisiones en el mismo segundo no deben producir el
			// mismo string firmado (el refresh es PK en el store)
			ID: uuid.NewString(),
		},
	}
	signed, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (i *Issuer) parse(raw string, secret []byte) (*TokenPayload, error) {
	var claims tokenClaims
	tk, err := jwtv5.ParseWithClaims(raw, &claims, func(t *jwtv5.Token) (any, error) {
		return secret, nil
	}, jwtv5.WithValidMethods([]string{"HS256"}), jwtv5.WithExpirationRequired())
	if err != nil || !tk.Valid {
		// firma mala, token malformado o exp vencido: una sola causa externa
		return nil, ErrInvalidToken
	}
	return &TokenPayload{
		Subject:    claims.Subject,
		TelegramID: claims.TelegramID,
		Username:   claims.Username,
		IsAdmin:    claims.IsAdmin,
	}, nil
}

// Issue emite un par nuevo para u y persiste el RefreshToken. La poda de
// registros ya vencidos del usuario es best-effort: si falla se loggea y la
// emisión sigue adelante.
func (i *Issuer) Issue(ctx context.Context, u *core.User) (*TokenPair, error) {
	p := payloadFor(u)

	access, _, err := i.sign(p, i.accessSecret, i.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, exp, err := i.sign(p, i.refreshSecret, i.refreshTTL)
	if err != nil {
		return nil, err
	}

	if err := i.store.CreateRefreshToken(ctx, &core.RefreshToken{
		Token:     refresh,
		UserID:    u.ID,
		CreatedAt: i.now().UTC(),
		ExpiresAt: exp,
	}); err != nil {
		return nil, err
	}

	if _, err := i.store.DeleteExpiredRefreshTokens(ctx, u.ID, i.now().UTC()); err != nil {
		logger.From(ctx).Warn("refresh token prune failed",
			logger.UserID(u.ID), logger.Err(err))
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Redeem valida y consume un refresh token (rotación single-use) y devuelve
// el ID del usuario dueño. El mismo string jamás se canjea dos veces: el
// consumo en el store es delete-if-present atómico, así que de dos Redeem
// concurrentes con el mismo token exactamente uno gana.
func (i *Issuer) Redeem(ctx context.Context, raw string) (string, error) {
	if _, err := i.parse(raw, i.refreshSecret); err != nil {
		return "", err
	}
	rt, err := i.store.ConsumeRefreshToken(ctx, raw)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	if !i.now().Before(rt.ExpiresAt) {
		// registro vencido que la poda todavía no levantó
		return "", ErrInvalidToken
	}
	return rt.UserID, nil
}

// VerifyAccess valida un access token (firma + expiración, sin estado) y
// devuelve su payload.
func (i *Issuer) VerifyAccess(raw string) (*TokenPayload, error) {
	return i.parse(raw, i.accessSecret)
}

// Revoke borra el RefreshToken indicado del dueño, o TODOS los del dueño si
// token es vacío (logout-everywhere; comportamiento deliberado del logout
// por defecto).
func (i *Issuer) Revoke(ctx context.Context, userID, token string) error {
	if token != "" {
		return i.store.DeleteRefreshToken(ctx, userID, token)
	}
	_, err := i.store.DeleteRefreshTokensByUser(ctx, userID)
	return err
}
