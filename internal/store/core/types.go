package core

import "time"

// User es la identidad de la aplicación. Se crea en el primer login por
// Telegram (o por seed para admins) y nunca se borra desde el core de auth.
// TelegramID es único a nivel global; las cuentas admin siempre llevan
// PasswordHash.
type User struct {
	ID           string
	TelegramID   *int64
	Email        *string
	PasswordHash *string
	FirstName    string
	LastName     string
	Username     string
	PhotoURL     string
	IsAdmin      bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken es el registro persistido que respalda un refresh token
// firmado. Inmutable después de creado: sólo se borra (rotación, logout o
// poda por expiración).
type RefreshToken struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// WebhookLog es el audit trail append-only de los callbacks del userbot.
type WebhookLog struct {
	ID        string
	Event     string
	Payload   []byte // snapshot JSON del payload recibido
	Status    string // success | error
	Error     *string
	CreatedAt time.Time
}

type SavedMedia struct {
	ID             string
	UserID         string
	MediaType      string
	OriginalChatID int64
	OriginalMsgID  int64
	SavedMsgID     int64
	FileName       string
	FilePath       string
	FileSize       int64
	MimeType       string
	Caption        string
	SenderUsername string
	SenderName     string
	IsViewOnce     bool
	Metadata       []byte
	CreatedAt      time.Time
}

type StoryLog struct {
	ID             string
	UserID         string
	TargetUsername string
	StoryID        int64
	MediaType      string
	FilePath       string
	FileSize       int64
	Caption        string
	ViewCount      int64
	ExpiresAt      *time.Time
	Metadata       []byte
	CreatedAt      time.Time
}

// BotSession refleja el estado del userbot por usuario.
type BotSession struct {
	UserID     string
	IsActive   bool
	LastActive time.Time
}

// Channel es un canal de suscripción forzada que el userbot consulta.
type Channel struct {
	ID        string
	ChatID    int64
	Title     string
	Username  string
	Required  bool
	CreatedAt time.Time
}

// AIConfig guarda la configuración de IA por usuario. La API key vive
// cifrada en reposo (AES-256-GCM): cipher/iv/tag en hex.
type AIConfig struct {
	UserID       string
	Provider     string
	Model        string
	APIKeyCipher string
	APIKeyIV     string
	APIKeyTag    string
	UpdatedAt    time.Time
}
