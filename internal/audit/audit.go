// Package audit escribe el trail append-only de eventos de webhook
// (webhook_logs). Todo acá es best-effort: un fallo de auditoría se loggea y
// jamás hace fallar la operación primaria.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
	"github.com/dropDatabas3/tgsecret/internal/store/core"
)

type Recorder struct {
	store core.WebhookRepository
}

func NewRecorder(store core.WebhookRepository) *Recorder {
	return &Recorder{store: store}
}

// Record persiste un evento con snapshot del payload. status: success|error.
func (r *Recorder) Record(ctx context.Context, event string, payload any, status string, errText string) {
	snap, err := json.Marshal(payload)
	if err != nil {
		snap = []byte(`{}`)
	}
	l := &core.WebhookLog{
		ID:        uuid.NewString(),
		Event:     event,
		Payload:   snap,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	if errText != "" {
		l.Error = &errText
	}
	if err := r.store.AppendWebhookLog(ctx, l); err != nil {
		logger.From(ctx).Warn("audit event write failed",
			logger.Event(event), logger.Err(err))
	}
}
