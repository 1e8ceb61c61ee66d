// Package webhook autoriza y procesa los callbacks del userbot: media
// guardada, stories descargadas y estado de sesión.
package webhook

import (
	"errors"

	"github.com/dropDatabas3/tgsecret/internal/security/signature"
)

// ErrUnauthorized: secreto o firma de webhook inválidos. Se rechaza antes de
// tocar cualquier write.
var ErrUnauthorized = errors.New("webhook: unauthorized")

// Guard valida la confianza de un callback entrante. Dos modos:
//
//   - Authorize: igualdad en tiempo constante del header X-Webhook-Secret
//     contra el secreto configurado (el secreto es un valor estático largo
//     y aleatorio, no una firma por request).
//   - VerifySignature: HMAC-SHA256 del payload crudo, para mensajes que
//     requieren integridad por-mensaje.
type Guard struct {
	secret string
}

func NewGuard(secret string) *Guard {
	return &Guard{secret: secret}
}

func (g *Guard) Authorize(headerSecret string) error {
	if !signature.SecureEquals(headerSecret, g.secret) {
		return ErrUnauthorized
	}
	return nil
}

func (g *Guard) VerifySignature(payload []byte, sig string) error {
	if !signature.Validate([]byte(g.secret), payload, sig) {
		return ErrUnauthorized
	}
	return nil
}
