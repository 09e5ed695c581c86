package services

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/amelfit-backend/internal/platform/apierr"
	"github.com/yungbote/amelfit-backend/internal/platform/clock"
	"github.com/yungbote/amelfit-backend/internal/platform/ctxutil"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

type authFixture struct {
	svc    AuthService
	users  *fakeUsers
	resets *fakeResets
	mailer *fakeMailer
	clock  *clock.Manual
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	f := &authFixture{
		users:  newFakeUsers(),
		resets: &fakeResets{},
		mailer: &fakeMailer{},
		clock:  clock.NewManual(time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)),
	}
	f.svc = NewAuthService(logger.Nop(), f.users, f.resets, f.mailer, f.clock, AuthConfig{
		JWTSecret:         "test-secret",
		TokenTTL:          time.Hour,
		AdminEmail:        "admin@amelfit.fr",
		AdminPasswordHash: string(adminHash),
		ResetURL:          "https://amelfit.fr/reset-password",
	})
	return f
}

func (f *authFixture) register(t *testing.T, email, password string) *AuthResult {
	t.Helper()
	res, err := f.svc.Register(context.Background(), RegisterInput{Email: email, Password: password, FirstName: " Amel "})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return res
}

func TestRegisterAndLogin(t *testing.T) {
	f := newAuthFixture(t)
	res := f.register(t, "Amel@Example.com", "secret1")
	if res.TokenType != "bearer" || res.AccessToken == "" {
		t.Fatalf("unexpected auth result: %+v", res)
	}
	if res.User.Email != "amel@example.com" || res.User.FirstName != "Amel" {
		t.Fatalf("user not normalized: %+v", res.User)
	}
	if settings := res.User.NotificationSettings(); !settings.Enabled || settings.TrainingDays == nil {
		t.Fatalf("default notification settings missing: %+v", settings)
	}
	if got := string(res.User.Settings); got != `{"enabled":true,"training_days":[],"training_time":null}` {
		t.Fatalf("stored notification settings: %s", got)
	}

	if _, err := f.svc.Login(context.Background(), "amel@example.com", "secret1"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "amel@example.com", "wrong"); statusOf(t, err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "nobody@example.com", "secret1"); statusOf(t, err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown email, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "taken@example.com", "secret1")

	cases := []RegisterInput{
		{Email: "not-an-email", Password: "secret1", FirstName: "A"},
		{Email: "short@example.com", Password: "12345", FirstName: "A"},
		{Email: "noname@example.com", Password: "secret1", FirstName: "  "},
		{Email: "TAKEN@example.com", Password: "secret1", FirstName: "A"},
	}
	for _, in := range cases {
		if _, err := f.svc.Register(context.Background(), in); statusOf(t, err) != http.StatusBadRequest {
			t.Fatalf("%+v: expected 400, got %v", in, err)
		}
	}
}

func TestTokenRoundTripAndExpiry(t *testing.T) {
	f := newAuthFixture(t)
	res := f.register(t, "amel@example.com", "secret1")

	ctx, err := f.svc.SetContextFromToken(context.Background(), res.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID != res.User.ID || rd.IsAdmin() {
		t.Fatalf("unexpected request data: %+v", rd)
	}

	if _, err := f.svc.SetContextFromToken(context.Background(), res.AccessToken+"x"); statusOf(t, err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 for tampered token, got %v", err)
	}

	f.clock.Advance(2 * time.Hour)
	_, err = f.svc.SetContextFromToken(context.Background(), res.AccessToken)
	ae, ok := apierr.As(err)
	if !ok || ae.Code != "token_expired" {
		t.Fatalf("expected token_expired, got %v", err)
	}
}

func TestAdminLogin(t *testing.T) {
	f := newAuthFixture(t)
	tok, err := f.svc.AdminLogin(context.Background(), "Admin@Amelfit.fr", "admin-pass")
	if err != nil {
		t.Fatalf("AdminLogin: %v", err)
	}
	ctx, err := f.svc.SetContextFromToken(context.Background(), tok)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if rd := ctxutil.GetRequestData(ctx); rd == nil || !rd.IsAdmin() {
		t.Fatalf("expected admin request data, got %+v", rd)
	}
	if _, err := f.svc.AdminLogin(context.Background(), "admin@amelfit.fr", "nope"); statusOf(t, err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func resetTokenFromMail(t *testing.T, m *fakeMailer) string {
	t.Helper()
	if len(m.sent) == 0 {
		t.Fatalf("no reset email sent")
	}
	body := m.sent[len(m.sent)-1].Text
	i := strings.Index(body, "?token=")
	if i < 0 {
		t.Fatalf("no token in email: %q", body)
	}
	return strings.TrimSpace(body[i+len("?token="):])
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "amel@example.com", "secret1")

	msg, err := f.svc.ForgotPassword(context.Background(), "nobody@example.com")
	if err != nil || msg != forgotPasswordMessage || len(f.mailer.sent) != 0 {
		t.Fatalf("unknown email should be silent: %q %v", msg, err)
	}

	if _, err := f.svc.ForgotPassword(context.Background(), "amel@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	token := resetTokenFromMail(t, f.mailer)
	if f.resets.rows[0].TokenHash == token {
		t.Fatalf("raw token must not be stored")
	}

	if err := f.svc.ResetPassword(context.Background(), token, "newpass1"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "amel@example.com", "newpass1"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if err := f.svc.ResetPassword(context.Background(), token, "another1"); statusOf(t, err) != http.StatusBadRequest {
		t.Fatalf("token must be single use, got %v", err)
	}
}

func TestPasswordResetExpires(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "amel@example.com", "secret1")
	if _, err := f.svc.ForgotPassword(context.Background(), "amel@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	token := resetTokenFromMail(t, f.mailer)
	f.clock.Advance(resetTokenTTL + time.Minute)
	if err := f.svc.ResetPassword(context.Background(), token, "newpass1"); statusOf(t, err) != http.StatusBadRequest {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}
