package auth

import "errors"

// Errores del core de autenticación. Hacia afuera todos terminan en 401
// uniforme; la causa interna sólo se loggea (sin oráculos para el caller).
var (
	// ErrAuthentication: handshake de Telegram inválido o vencido.
	ErrAuthentication = errors.New("auth: invalid telegram authentication")

	// ErrInvalidCredentials: login admin fallido. Nunca se distingue
	// "usuario inexistente" de "password incorrecta".
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrInvalidToken: token malformado, con firma inválida, expirado o
	// ya canjeado. Una sola causa externa para todos los casos.
	ErrInvalidToken = errors.New("auth: invalid token")
)
