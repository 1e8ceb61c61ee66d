package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/dropDatabas3/tgsecret/internal/store/core"
)

// dummyHash es un hash bcrypt válido ("password", cost 10) contra el que se
// compara cuando el usuario no existe, para que la clase de latencia de
// "no existe" y "password incorrecta" sea la misma.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// CredentialAuthenticator verifica email/password de administradores contra
// el hash adaptativo almacenado.
type CredentialAuthenticator struct {
	users core.UserRepository
}

func NewCredentialAuthenticator(users core.UserRepository) *CredentialAuthenticator {
	return &CredentialAuthenticator{users: users}
}

// Authenticate devuelve el usuario admin si email y password son válidos.
// Usuario inexistente, sin flag admin, sin hash o password incorrecta:
// siempre el mismo ErrInvalidCredentials (anti user-enumeration).
func (a *CredentialAuthenticator) Authenticate(ctx context.Context, email, password string) (*core.User, error) {
	u, err := a.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.IsAdmin || u.PasswordHash == nil || *u.PasswordHash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// HashPassword genera un hash bcrypt para seed/alta de admins.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
