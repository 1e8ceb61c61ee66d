package auth

import (
	"context"
	"errors"
	"strconv"

	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
	"github.com/dropDatabas3/tgsecret/internal/store/core"
)

// PublicUser son los campos de identidad que sí se devuelven al cliente.
type PublicUser struct {
	ID         string `json:"id"`
	TelegramID string `json:"telegramId,omitempty"`
	Username   string `json:"username,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	PhotoURL   string `json:"photoUrl,omitempty"`
	IsAdmin    bool   `json:"isAdmin"`
}

// LoginResult es la respuesta de login/refresh: par de tokens + identidad
// pública.
type LoginResult struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         PublicUser `json:"user"`
}

// Service compone verificador de Telegram, autenticador de credenciales e
// Issuer en las cuatro operaciones de cara al usuario. Es el único componente
// que toca los stores externos de usuarios/tokens directamente.
type Service struct {
	verifier *TelegramVerifier
	creds    *CredentialAuthenticator
	issuer   *Issuer
	users    core.UserRepository
}

func NewService(verifier *TelegramVerifier, creds *CredentialAuthenticator, issuer *Issuer, users core.UserRepository) *Service {
	return &Service{verifier: verifier, creds: creds, issuer: issuer, users: users}
}

func publicUser(u *core.User) PublicUser {
	p := PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		PhotoURL:  u.PhotoURL,
		IsAdmin:   u.IsAdmin,
	}
	if u.TelegramID != nil {
		p.TelegramID = strconv.FormatInt(*u.TelegramID, 10)
	}
	return p
}

// TelegramLogin verifica el handshake del widget y emite un par de tokens.
// Primer login crea el User; logins posteriores sólo actualizan campos de
// perfil (nunca identidad).
func (s *Service) TelegramLogin(ctx context.Context, d TelegramAuthData) (*LoginResult, error) {
	if err := s.verifier.Verify(d); err != nil {
		return nil, err
	}

	u, err := s.users.GetUserByTelegramID(ctx, d.ID)
	switch {
	case errors.Is(err, core.ErrNotFound):
		tgID := d.ID
		u = &core.User{
			TelegramID: &tgID,
			FirstName:  d.FirstName,
			LastName:   d.LastName,
			Username:   d.Username,
			PhotoURL:   d.PhotoURL,
			IsActive:   true,
		}
		if err := s.users.CreateUser(ctx, u); err != nil {
			return nil, err
		}
		logger.From(ctx).Info("telegram user created", logger.UserID(u.ID))
	case err != nil:
		return nil, err
	default:
		u.FirstName = d.FirstName
		u.LastName = d.LastName
		u.Username = d.Username
		u.PhotoURL = d.PhotoURL
		if err := s.users.UpdateUserProfile(ctx, u); err != nil {
			return nil, err
		}
	}

	return s.finishLogin(ctx, u)
}

// AdminLogin autentica email/password de un admin y emite un par de tokens.
func (s *Service) AdminLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.creds.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.finishLogin(ctx, u)
}

// Refresh canjea un refresh token (single-use) por un par nuevo. El usuario
// dueño tiene que seguir existiendo y estar activo.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	userID, err := s.issuer.Redeem(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrInvalidToken
	}
	return s.finishLogin(ctx, u)
}

// Logout revoca el refresh token dado, o todos los del usuario si viene
// vacío (logout en todos los dispositivos).
func (s *Service) Logout(ctx context.Context, userID, refreshToken string) error {
	return s.issuer.Revoke(ctx, userID, refreshToken)
}

// CurrentUser resuelve el payload de un access token válido a la identidad
// pública. Usuario inexistente o inactivo invalida el token.
func (s *Service) CurrentUser(ctx context.Context, accessToken string) (*PublicUser, error) {
	p, err := s.issuer.VerifyAccess(accessToken)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetUserByID(ctx, p.Subject)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrInvalidToken
	}
	pub := publicUser(u)
	return &pub, nil
}

func (s *Service) finishLogin(ctx context.Context, u *core.User) (*LoginResult, error) {
	pair, err := s.issuer.Issue(ctx, u)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         publicUser(u),
	}, nil
}
