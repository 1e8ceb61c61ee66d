package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/dropDatabas3/tgsecret/internal/store/core"
	"github.com/dropDatabas3/tgsecret/internal/store/memory"
)

func newTestService(st *memory.Store, nowUnix int64) *Service {
	verifier := verifierAt("123:ABC", nowUnix)
	creds := NewCredentialAuthenticator(st)
	issuer := NewIssuer("access-secret", "refresh-secret", st)
	return NewService(verifier, creds, issuer, st)
}

func signedAuthData(id int64, first, username string, authDate int64) TelegramAuthData {
	d := TelegramAuthData{ID: id, FirstName: first, Username: username, AuthDate: authDate}
	d.Hash = signAuthData("123:ABC", d)
	return d
}

func TestTelegramLogin_CreatesThenUpdates(t *testing.T) {
	st := memory.New()
	svc := newTestService(st, 1700000100)

	// Primer login: crea el usuario.
	res, err := svc.TelegramLogin(context.Background(), signedAuthData(55, "Ana", "ana", 1700000000))
	if err != nil {
		t.Fatalf("TelegramLogin err: %v", err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatal("tokens vacíos")
	}
	if res.User.TelegramID != "55" || res.User.FirstName != "Ana" {
		t.Fatalf("user inesperado: %+v", res.User)
	}
	if res.User.IsAdmin {
		t.Fatal("login de Telegram jamás otorga admin")
	}

	// Segundo login del mismo telegram id: mismo usuario, perfil actualizado.
	res2, err := svc.TelegramLogin(context.Background(), signedAuthData(55, "Ana María", "anam", 1700000050))
	if err != nil {
		t.Fatalf("segundo login err: %v", err)
	}
	if res2.User.ID != res.User.ID {
		t.Fatalf("se creó un usuario nuevo: %s != %s", res2.User.ID, res.User.ID)
	}
	if res2.User.FirstName != "Ana María" || res2.User.Username != "anam" {
		t.Fatalf("perfil no actualizado: %+v", res2.User)
	}
}

func TestTelegramLogin_RejectsBadSignature(t *testing.T) {
	st := memory.New()
	svc := newTestService(st, 1700000100)

	d := signedAuthData(55, "Ana", "ana", 1700000000)
	d.FirstName = "Eva" // campo alterado después de firmar

	if _, err := svc.TelegramLogin(context.Background(), d); !errors.Is(err, ErrAuthentication) {
		t.Fatalf("err = %v, want ErrAuthentication", err)
	}
	if _, err := st.GetUserByTelegramID(context.Background(), 55); !errors.Is(err, core.ErrNotFound) {
		t.Fatal("un login fallido no debe crear usuarios")
	}
}

func TestAdminLogin_And_Refresh(t *testing.T) {
	st := memory.New()
	svc := newTestService(st, 1700000100)
	seedAdmin(t, st, "root@example.com", "hunter22")

	res, err := svc.AdminLogin(context.Background(), "root@example.com", "hunter22")
	if err != nil {
		t.Fatalf("AdminLogin err: %v", err)
	}
	if !res.User.IsAdmin {
		t.Fatal("falta isAdmin en el resultado")
	}

	// Refresh rota: el par nuevo sirve, el refresh viejo muere.
	res2, err := svc.Refresh(context.Background(), res.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh err: %v", err)
	}
	if res2.RefreshToken == res.RefreshToken {
		t.Fatal("el refresh no rotó")
	}
	if _, err := svc.Refresh(context.Background(), res.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh viejo: err = %v, want ErrInvalidToken", err)
	}
}

func TestRefresh_InactiveUser(t *testing.T) {
	st := memory.New()
	svc := newTestService(st, 1700000100)

	res, err := svc.TelegramLogin(context.Background(), signedAuthData(77, "Bob", "", 1700000000))
	if err != nil {
		t.Fatal(err)
	}

	// Desactivar al usuario por fuera del core de auth.
	u, err := st.GetUserByID(context.Background(), res.User.ID)
	if err != nil {
		t.Fatal(err)
	}
	u.IsActive = false
	st.ForceUpdateUser(u)

	if _, err := svc.Refresh(context.Background(), res.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("usuario inactivo: err = %v, want ErrInvalidToken", err)
	}
}

func TestCurrentUser(t *testing.T) {
	st := memory.New()
	svc := newTestService(st, 1700000100)

	res, err := svc.TelegramLogin(context.Background(), signedAuthData(88, "Cleo", "cleo", 1700000000))
	if err != nil {
		t.Fatal(err)
	}

	u, err := svc.CurrentUser(context.Background(), res.AccessToken)
	if err != nil {
		t.Fatalf("CurrentUser err: %v", err)
	}
	if u.ID != res.User.ID || u.Username != "cleo" {
		t.Fatalf("identidad inesperada: %+v", u)
	}

	if _, err := svc.CurrentUser(context.Background(), res.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh como access: err = %v, want ErrInvalidToken", err)
	}
}

func TestLogout_AllDevices(t *testing.T) {
	st := memory.New()
	svc := newTestService(st, 1700000100)

	r1, err := svc.TelegramLogin(context.Background(), signedAuthData(99, "Dan", "", 1700000000))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.TelegramLogin(context.Background(), signedAuthData(99, "Dan", "", 1700000010)); err != nil {
		t.Fatal(err)
	}

	if err := svc.Logout(context.Background(), r1.User.ID, ""); err != nil {
		t.Fatal(err)
	}
	if n := st.CountRefreshTokens(r1.User.ID); n != 0 {
		t.Fatalf("quedan %d sesiones, want 0", n)
	}
}
