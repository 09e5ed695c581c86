package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/amelfit-backend/internal/data/repos"
	userrepo "github.com/yungbote/amelfit-backend/internal/data/repos/user"
	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/platform/apierr"
	"github.com/yungbote/amelfit-backend/internal/platform/clock"
	"github.com/yungbote/amelfit-backend/internal/platform/ctxutil"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
	"github.com/yungbote/amelfit-backend/internal/platform/sendgrid"
)

const (
	minPasswordLength = 6
	resetTokenTTL     = time.Hour

	forgotPasswordMessage = "If the email exists, a reset link will be sent"
)

type RegisterInput struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FirstName   string  `json:"first_name"`
	FitnessGoal *string `json:"fitness_goal"`
}

type AuthResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *types.User `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// ForgotPassword always returns the same message whether or not the email is known.
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	AdminLogin(ctx context.Context, email, password string) (string, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	TokenTTL() time.Duration
}

type AuthConfig struct {
	JWTSecret         string
	TokenTTL          time.Duration
	AdminEmail        string
	AdminPasswordHash string
	// ResetURL is the frontend page receiving ?token=.
	ResetURL string
}

type authService struct {
	log    *logger.Logger
	users  repos.UserRepo
	resets repos.PasswordResetRepo
	mailer sendgrid.Client
	clock  clock.Clock
	cfg    AuthConfig
}

type tokenClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// NewAuthService accepts a nil mailer; reset links are then only logged.
func NewAuthService(
	log *logger.Logger,
	users repos.UserRepo,
	resets repos.PasswordResetRepo,
	mailer sendgrid.Client,
	clk clock.Clock,
	cfg AuthConfig,
) AuthService {
	if clk == nil {
		clk = clock.Real()
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &authService{
		log:    log.With("service", "AuthService"),
		users:  users,
		resets: resets,
		mailer: mailer,
		clock:  clk,
		cfg:    cfg,
	}
}

func (as *authService) TokenTTL() time.Duration { return as.cfg.TokenTTL }

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (as *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := userrepo.NormalizeEmail(in.Email)
	firstName := strings.TrimSpace(in.FirstName)
	if !validEmail(email) {
		return nil, apierr.BadRequest("invalid_email", "invalid email")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apierr.BadRequest("invalid_password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if firstName == "" {
		return nil, apierr.BadRequest("invalid_request", "first_name is required")
	}

	dbc := dbctx.Context{Ctx: ctx}
	exists, err := as.users.EmailExists(dbc, email)
	if err != nil {
		return nil, storageError(as.log, "register", err)
	}
	if exists {
		return nil, apierr.BadRequest("email_taken", "Email already registered")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, storageError(as.log, "register", err)
	}

	u := &types.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		FitnessGoal:  trimmedOrNil(in.FitnessGoal),
	}
	if err := u.SetNotificationSettings(types.DefaultNotificationSettings()); err != nil {
		return nil, storageError(as.log, "register", err)
	}
	created, err := as.users.Create(dbc, []*types.User{u})
	if err != nil {
		// Lost a race against a concurrent registration of the same email.
		if taken, _ := as.users.EmailExists(dbc, email); taken {
			return nil, apierr.BadRequest("email_taken", "Email already registered")
		}
		return nil, storageError(as.log, "register", err)
	}
	if len(created) > 0 && created[0] != nil {
		u = created[0]
	}
	as.log.Info("user registered", "user_id", u.ID)
	return as.issue(u)
}

func (as *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := as.users.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, storageError(as.log, "login", err)
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apierr.Unauthorized("invalid_credentials", "Invalid credentials")
	}
	return as.issue(u)
}

func (as *authService) issue(u *types.User) (*AuthResult, error) {
	tok, err := as.signToken(u.ID.String(), u.Email, ctxutil.RoleUser)
	if err != nil {
		as.log.Error("sign token failed", "error", err)
		return nil, apierr.Internal("token_signing_failed")
	}
	return &AuthResult{AccessToken: tok, TokenType: "bearer", User: u}, nil
}

func (as *authService) signToken(subject, email, role string) (string, error) {
	if as.cfg.JWTSecret == "" {
		return "", errors.New("jwt secret not configured")
	}
	now := as.clock.Now()
	claims := tokenClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.cfg.TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.cfg.JWTSecret))
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (as *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	dbc := dbctx.Context{Ctx: ctx}
	u, err := as.users.GetByEmail(dbc, email)
	if err != nil {
		return "", storageError(as.log, "forgot_password", err)
	}
	if u == nil {
		return forgotPasswordMessage, nil
	}
	token := uuid.NewString()
	if _, err := as.resets.Create(dbc, &types.PasswordReset{
		UserID:    u.ID,
		TokenHash: hashResetToken(token),
		ExpiresAt: as.clock.Now().Add(resetTokenTTL),
	}); err != nil {
		return "", storageError(as.log, "forgot_password", err)
	}
	as.sendResetEmail(ctx, u, token)
	return forgotPasswordMessage, nil
}

func (as *authService) sendResetEmail(ctx context.Context, u *types.User, token string) {
	link := as.cfg.ResetURL
	if link == "" {
		link = "/reset-password"
	}
	link += "?token=" + token
	if as.mailer == nil {
		as.log.Info("password reset requested, email delivery disabled", "user_id", u.ID, "reset_link", link)
		return
	}
	_, err := as.mailer.Send(ctx, sendgrid.SendEmailRequest{
		To:         []sendgrid.EmailAddress{{Email: u.Email, Name: u.FirstName}},
		Subject:    "Reset your password",
		Text:       "Hello " + u.FirstName + ",\n\nUse this link within one hour to choose a new password:\n" + link + "\n",
		Categories: []string{"password-reset"},
	})
	if err != nil {
		// The response is identical either way; delivery failures are only visible in logs.
		as.log.Warn("password reset email failed", "user_id", u.ID, "error", err)
	}
}

func (as *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apierr.BadRequest("invalid_token", "Invalid or expired token")
	}
	if len(newPassword) < minPasswordLength {
		return apierr.BadRequest("invalid_password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	dbc := dbctx.Context{Ctx: ctx}
	reset, err := as.resets.GetByTokenHash(dbc, hashResetToken(token))
	if err != nil {
		return storageError(as.log, "reset_password", err)
	}
	now := as.clock.Now()
	if !reset.Usable(now) {
		return apierr.BadRequest("invalid_token", "Invalid or expired token")
	}
	claimed, err := as.resets.MarkUsed(dbc, reset.ID, now)
	if err != nil {
		return storageError(as.log, "reset_password", err)
	}
	if !claimed {
		return apierr.BadRequest("invalid_token", "Invalid or expired token")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return storageError(as.log, "reset_password", err)
	}
	if err := as.users.UpdatePasswordHash(dbc, reset.UserID, string(hash)); err != nil {
		return storageError(as.log, "reset_password", err)
	}
	as.log.Info("password reset", "user_id", reset.UserID)
	return nil
}

func (as *authService) AdminLogin(ctx context.Context, email, password string) (string, error) {
	if as.cfg.AdminEmail == "" || as.cfg.AdminPasswordHash == "" {
		return "", apierr.Unauthorized("invalid_credentials", "Invalid credentials")
	}
	if userrepo.NormalizeEmail(email) != userrepo.NormalizeEmail(as.cfg.AdminEmail) ||
		bcrypt.CompareHashAndPassword([]byte(as.cfg.AdminPasswordHash), []byte(password)) != nil {
		as.log.Warn("admin login rejected")
		return "", apierr.Unauthorized("invalid_credentials", "Invalid credentials")
	}
	tok, err := as.signToken(ctxutil.RoleAdmin, userrepo.NormalizeEmail(email), ctxutil.RoleAdmin)
	if err != nil {
		as.log.Error("sign admin token failed", "error", err)
		return "", apierr.Internal("token_signing_failed")
	}
	return tok, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(as.cfg.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(as.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ctx, apierr.Unauthorized("token_expired", "Token expired")
		}
		return ctx, apierr.Unauthorized("invalid_token", "Invalid token")
	}

	rd := &ctxutil.RequestData{TokenString: tokenString, Role: claims.Role}
	switch claims.Role {
	case ctxutil.RoleAdmin:
	default:
		id, err := uuid.Parse(claims.Subject)
		if err != nil || id == uuid.Nil {
			return ctx, apierr.Unauthorized("invalid_token", "Invalid token")
		}
		rd.UserID = id
		rd.Role = ctxutil.RoleUser
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
