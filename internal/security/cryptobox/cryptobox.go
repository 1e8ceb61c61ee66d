// Package cryptobox implementa cifrado simétrico AES-256-GCM para secretos
// en reposo (API keys, credenciales de sesión) más helpers de hashing y
// generación aleatoria.
//
// El formato de salida es hex por compatibilidad con los registros existentes:
// (ciphertext, iv, authTag) como strings hexadecimales independientes.
package cryptobox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

const (
	keyLen   = 32 // AES-256
	ivLen    = 16 // IV de 16 bytes (GCM con nonce extendido)
	tagLen   = 16 // GCM auth tag
	hexKeyLn = keyLen * 2
)

// ErrDecryption indica que el ciphertext o el auth tag fueron alterados.
// Nunca se devuelve plaintext parcial junto con este error.
var ErrDecryption = errors.New("cryptobox: authentication failed")

// Box cifra y descifra con una clave fija de 32 bytes. Inmutable después de
// New, seguro para uso concurrente.
type Box struct {
	aead cipher.AEAD
}

// New construye un Box desde una clave hex de 64 caracteres (32 bytes).
// Cualquier otra longitud o hex inválido es un error de configuración fatal:
// el proceso no debe aceptar tráfico sin clave válida.
func New(hexKey string) (*Box, error) {
	if len(hexKey) != hexKeyLn {
		return nil, fmt.Errorf("cryptobox: la clave debe ser hex de %d caracteres (%d bytes), obtuvo %d", hexKeyLn, keyLen, len(hexKey))
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("cryptobox: clave hex inválida: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptobox: aes.NewCipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, ivLen)
	if err != nil {
		return nil, fmt.Errorf("cryptobox: cipher.NewGCM: %w", err)
	}
	return &Box{aead: aead}, nil
}

// Encrypt cifra plaintext con un IV aleatorio fresco de 16 bytes por llamada
// (reusar IV con la misma clave está prohibido) y devuelve ciphertext, IV y
// auth tag como hex.
func (b *Box) Encrypt(plaintext string) (cipherHex, ivHex, tagHex string, err error) {
	iv := make([]byte, ivLen)
	if _, err = io.ReadFull(rand.Reader, iv); err != nil {
		return "", "", "", fmt.Errorf("cryptobox: iv random: %w", err)
	}
	sealed := b.aead.Seal(nil, iv, []byte(plaintext), nil)
	// Seal devuelve ciphertext||tag; separamos el tag de 16 bytes.
	ct, tag := sealed[:len(sealed)-tagLen], sealed[len(sealed)-tagLen:]
	return hex.EncodeToString(ct), hex.EncodeToString(iv), hex.EncodeToString(tag), nil
}

// Decrypt descifra (cipherHex, ivHex, tagHex). Si el tag no autentica
// (ciphertext o tag alterados) devuelve ErrDecryption.
func (b *Box) Decrypt(cipherHex, ivHex, tagHex string) (string, error) {
	ct, err := hex.DecodeString(cipherHex)
	if err != nil {
		return "", ErrDecryption
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != ivLen {
		return "", ErrDecryption
	}
	tag, err := hex.DecodeString(tagHex)
	if err != nil || len(tag) != tagLen {
		return "", ErrDecryption
	}
	pt, err := b.aead.Open(nil, iv, append(ct, tag...), nil)
	if err != nil {
		return "", ErrDecryption
	}
	return string(pt), nil
}

// Hash devuelve sha256(text) en hex.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// RandomHex genera nBytes aleatorios y los devuelve como hex
// (2*nBytes caracteres). Para tokens y secretos.
func RandomHex(nBytes int) (string, error) {
	buf := make([]byte, nBytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
