// Package signature provee HMAC-SHA256 y comparación en tiempo constante,
// compartidos por la verificación del login de Telegram y por los webhooks
// del userbot.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HMACSHA256 devuelve HMAC-SHA256(secret, payload) en hex.
func HMACSHA256(secret, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SecureEquals compara dos strings en tiempo constante.
// Longitudes distintas son simplemente "no igual" — input atacante con
// longitud arbitraria es un caso normal y no debe producir panic ni timing
// distinguible sobre el contenido.
func SecureEquals(a, b string) bool {
	if subtle.ConstantTimeEq(int32(len(a)), int32(len(b))) != 1 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Validate verifica que signature sea el HMAC-SHA256 hex de payload bajo secret.
func Validate(secret, payload []byte, sig string) bool {
	return SecureEquals(HMACSHA256(secret, payload), sig)
}
