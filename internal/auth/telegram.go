package auth

import (
	"crypto/sha256"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dropDatabas3/tgsecret/internal/security/signature"
)

// maxAuthAge: un handshake del widget de login vale 24 horas.
const maxAuthAge = 86400 * time.Second

// TelegramAuthData es el payload firmado que devuelve el Telegram Login
// Widget. Se parsea/tipa en el borde HTTP; el verificador nunca opera sobre
// datos sueltos.
type TelegramAuthData struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
	AuthDate  int64  `json:"auth_date"`
	Hash      string `json:"hash"`
}

// checkString arma la forma canónica que firma Telegram: pares key=value
// ordenados lexicográficamente y unidos por '\n', excluyendo el hash.
// Campos opcionales ausentes se omiten por completo (nunca un "undefined"
// literal); los números van en decimal plano.
func (d TelegramAuthData) checkString() string {
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
	return strings.Join(pairs, "\n")
}

// TelegramVerifier valida el handshake del login widget contra el bot token
// compartido. Puro: función de (payload, secreto configurado, hora actual).
type TelegramVerifier struct {
	secretKey []byte
	now       func() time.Time
}

// NewTelegramVerifier deriva la clave HMAC como SHA-256 del bot token
// (bytes crudos, no hex), igual que el protocolo del widget.
func NewTelegramVerifier(botToken string) *TelegramVerifier {
	sum := sha256.Sum256([]byte(botToken))
	return &TelegramVerifier{secretKey: sum[:], now: time.Now}
}

// Verify chequea firma y frescura. Ambos chequeos corren siempre: un
// handshake con firma correcta pero auth_date vencido falla igual, y ambas
// fallas colapsan en el mismo ErrAuthentication.
func (v *TelegramVerifier) Verify(d TelegramAuthData) error {
	sigOK := signature.Validate(v.secretKey, []byte(d.checkString()), d.Hash)
	fresh := v.now().Unix()-d.AuthDate <= int64(maxAuthAge/time.Second)
	if !sigOK || !fresh {
		return ErrAuthentication
	}
	return nil
}
