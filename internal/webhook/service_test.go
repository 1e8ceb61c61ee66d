package webhook

import (
	"context"
	"testing"

	"github.com/dropDatabas3/tgsecret/internal/audit"
	"github.com/dropDatabas3/tgsecret/internal/store/memory"
)

func newTestService() (*Service, *memory.Store) {
	st := memory.New()
	return NewService(st, audit.NewRecorder(st)), st
}

func TestLogMedia(t *testing.T) {
	svc, st := newTestService()

	id, err := svc.LogMedia(context.Background(), MediaPayload{
		UserID:         "u1",
		MediaType:      "photo",
		OriginalChatID: -100123,
		OriginalMsgID:  77,
		SavedMsgID:     901,
		IsViewOnce:     true,
	})
	if err != nil {
		t.Fatalf("LogMedia err: %v", err)
	}
	if id == "" {
		t.Fatal("id vacío")
	}

	ms, err := st.ListSavedMedia(context.Background(), 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(ms) != 1 {
		t.Fatalf("media guardada = %d, want 1", len(ms))
	}
	if ms[0].MediaType != "PHOTO" {
		t.Fatalf("media_type = %q, want PHOTO (normalizado)", ms[0].MediaType)
	}
	if string(ms[0].Metadata) != `{}` {
		t.Fatalf("metadata = %q, want {}", ms[0].Metadata)
	}

	// El audit trail registró el éxito.
	logs := st.WebhookLogs()
	if len(logs) != 1 || logs[0].Event != "media_saved" || logs[0].Status != "success" {
		t.Fatalf("audit inesperado: %+v", logs)
	}
}

func TestLogMedia_DefaultType(t *testing.T) {
	svc, st := newTestService()

	if _, err := svc.LogMedia(context.Background(), MediaPayload{
		UserID:     "u1",
		SavedMsgID: 1,
	}); err != nil {
		t.Fatal(err)
	}
	ms, _ := st.ListSavedMedia(context.Background(), 1, 0)
	if ms[0].MediaType != "DOCUMENT" {
		t.Fatalf("media_type = %q, want DOCUMENT", ms[0].MediaType)
	}
}

func TestLogStory(t *testing.T) {
	svc, st := newTestService()

	id, err := svc.LogStory(context.Background(), StoryPayload{
		UserID:         "u1",
		TargetUsername: "target",
		StoryID:        5,
		Metadata:       []byte(`{"src":"story"}`),
	})
	if err != nil {
		t.Fatalf("LogStory err: %v", err)
	}
	if id == "" {
		t.Fatal("id vacío")
	}

	ss, _ := st.ListStoryLogs(context.Background(), 10, 0)
	if len(ss) != 1 {
		t.Fatalf("stories = %d, want 1", len(ss))
	}
	if ss[0].MediaType != "PHOTO" {
		t.Fatalf("media_type = %q, want PHOTO por defecto", ss[0].MediaType)
	}
	if string(ss[0].Metadata) != `{"src":"story"}` {
		t.Fatalf("metadata = %q", ss[0].Metadata)
	}
}

func TestUpdateSessionStatus_Upsert(t *testing.T) {
	svc, st := newTestService()

	s1, err := svc.UpdateSessionStatus(context.Background(), "u1", true)
	if err != nil {
		t.Fatal(err)
	}
	if !s1.IsActive {
		t.Fatal("is_active = false, want true")
	}

	s2, err := svc.UpdateSessionStatus(context.Background(), "u1", false)
	if err != nil {
		t.Fatal(err)
	}
	if s2.IsActive {
		t.Fatal("is_active = true, want false")
	}

	all, _ := st.ListBotSessions(context.Background())
	if len(all) != 1 {
		t.Fatalf("sesiones = %d, want 1 (upsert)", len(all))
	}
}
