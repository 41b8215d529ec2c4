package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/coordenaplus/backend/internal/app/models"
	"github.com/coordenaplus/backend/internal/app/models/dto"
	"github.com/coordenaplus/backend/internal/pkg/apperrors"
	"github.com/coordenaplus/backend/internal/pkg/auth"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret-key-for-unit-tests",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "coordenaplus.test",
	})
}

func setupTestAuthService() (*AuthService, *mockUserRepo, *mockTokenRepo, *mockDispatcher) {
	userRepo := newMockUserRepo()
	tokenRepo := newMockTokenRepo()
	dispatcher := newMockDispatcher()
	svc := NewAuthService(userRepo, tokenRepo, newTestJWTService(), dispatcher, zerolog.Nop())
	return svc, userRepo, tokenRepo, dispatcher
}

// createTestUser seeds a user directly into the mock repository. MinCost
// keeps the bcrypt work factor out of the test runtime.
func createTestUser(userRepo *mockUserRepo, email, password string, role models.RoleType, status models.AccountStatus) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &models.User{
		Name:     "Ana Souza",
		Email:    email,
		Password: string(hash),
		Role:     role,
		Status:   status,
	}
	id, _ := userRepo.Create(context.Background(), user)
	user.ID = id
	return user
}

func TestRegister_StudentDomain(t *testing.T) {
	svc, userRepo, _, _ := setupTestAuthService()

	profile, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Ana Souza",
		Email:    "Ana@alunos.estacio.br",
		Password: "senha123",
	})

	if err != nil {
		t.Fatalf("Register should succeed: %v", err)
	}
	if profile.Role != string(models.RoleStudent) {
		t.Errorf("expected role %q, got %q", models.RoleStudent, profile.Role)
	}
	if profile.Status != string(models.AccountPending) {
		t.Errorf("expected status %q, got %q", models.AccountPending, profile.Status)
	}
	if profile.Email != "ana@alunos.estacio.br" {
		t.Errorf("email should be lowercased, got %q", profile.Email)
	}

	stored, err := userRepo.GetByEmail(context.Background(), "ana@alunos.estacio.br")
	if err != nil {
		t.Fatalf("registered user not persisted: %v", err)
	}
	if stored.Password == "senha123" {
		t.Error("password must be stored hashed")
	}
}

func TestRegister_ProfessorDomain(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	profile, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Carlos Lima",
		Email:    "carlos@professor.estacio.br",
		Password: "senha123",
	})

	if err != nil {
		t.Fatalf("Register should succeed: %v", err)
	}
	if profile.Role != string(models.RoleProfessor) {
		t.Errorf("expected role %q, got %q", models.RoleProfessor, profile.Role)
	}
}

func TestRegister_NonInstitutionalEmail(t *testing.T) {
	svc, userRepo, _, _ := setupTestAuthService()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Ana Souza",
		Email:    "ana@gmail.com",
		Password: "senha123",
	})

	if !errors.Is(err, apperrors.ErrInvalidEmail) {
		t.Errorf("expected ErrInvalidEmail, got: %v", err)
	}
	if len(userRepo.users) != 0 {
		t.Error("rejected registration must not persist a user")
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	cases := []struct {
		name     string
		password string
	}{
		{"too short", "ab1"},
		{"no digit", "somepassword"},
		{"no letter", "12345678"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), &dto.RegisterRequest{
				Name:     "Ana Souza",
				Email:    "ana@alunos.estacio.br",
				Password: tc.password,
			})
			if !errors.Is(err, apperrors.ErrInvalidPassword) {
				t.Errorf("expected ErrInvalidPassword, got: %v", err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, userRepo, _, _ := setupTestAuthService()
	createTestUser(userRepo, "ana@alunos.estacio.br", "senha123", models.RoleStudent, models.AccountPending)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Outra Ana",
		Email:    "ana@alunos.estacio.br",
		Password: "senha456",
	})

	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists, got: %v", err)
	}
}

func TestRegister_NotifiesApprovedAdmins(t *testing.T) {
	svc, userRepo, _, dispatcher := setupTestAuthService()
	admin := createTestUser(userRepo, "admin@professor.estacio.br", "senha123", models.RoleAdmin, models.AccountApproved)
	// A pending admin must not be notified
	createTestUser(userRepo, "pending-admin@professor.estacio.br", "senha123", models.RoleAdmin, models.AccountPending)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Ana Souza",
		Email:    "ana@alunos.estacio.br",
		Password: "senha123",
	})
	if err != nil {
		t.Fatalf("Register should succeed: %v", err)
	}

	if len(dispatcher.registrationRequests) != 1 {
		t.Fatalf("expected 1 registration notification, got %d", len(dispatcher.registrationRequests))
	}
	call := dispatcher.registrationRequests[0]
	if len(call.adminIDs) != 1 || call.adminIDs[0] != admin.ID {
		t.Errorf("expected notification for admin %d only, got %v", admin.ID, call.adminIDs)
	}
	if call.user.Email != "ana@alunos.estacio.br" {
		t.Errorf("notification should carry the new user, got %q", call.user.Email)
	}
}

func TestLogin_Success(t *testing.T) {
	svc, userRepo, tokenRepo, _ := setupTestAuthService()
	user := createTestUser(userRepo, "ana@alunos.estacio.br", "senha123", models.RoleStudent, models.AccountApproved)

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ana@alunos.estacio.br",
		Password: "senha123",
	})

	if err != nil {
		t.Fatalf("Login should succeed: %v", err)
	}
	if result.Token.AccessToken == "" {
		t.Error("AccessToken must not be empty")
	}
	if result.Token.TokenType != "Bearer" {
		t.Errorf("expected token type Bearer, got %q", result.Token.TokenType)
	}
	if result.Token.ExpiresIn != 900 {
		t.Errorf("expected ExpiresIn=900, got %d", result.Token.ExpiresIn)
	}
	if result.User.ID != user.ID {
		t.Errorf("expected user id %d, got %d", user.ID, result.User.ID)
	}

	stored, err := tokenRepo.GetRefreshTokenByValue(context.Background(), result.Token.RefreshToken)
	if err != nil {
		t.Fatalf("refresh token not persisted: %v", err)
	}
	if stored.UserID != user.ID {
		t.Errorf("refresh token stored for wrong user: %d", stored.UserID)
	}

	reloaded, _ := userRepo.GetByID(context.Background(), user.ID)
	if reloaded.LastLoginAt == nil {
		t.Error("LastLoginAt should be stamped on successful login")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, userRepo, _, _ := setupTestAuthService()
	createTestUser(userRepo, "ana@alunos.estacio.br", "senha123", models.RoleStudent, models.AccountApproved)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ana@alunos.estacio.br",
		Password: "errada999",
	})

	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ninguem@alunos.estacio.br",
		Password: "senha123",
	})

	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestLogin_PendingAccount(t *testing.T) {
	svc, userRepo, _, _ := setupTestAuthService()
	createTestUser(userRepo, "ana@alunos.estacio.br", "senha123", models.RoleStudent, models.AccountPending)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ana@alunos.estacio.br",
		Password: "senha123",
	})

	if !errors.Is(err, apperrors.ErrAccountNotApproved) {
		t.Errorf("expected ErrAccountNotApproved, got: %v", err)
	}
}

func TestLogin_AdminBypassesApprovalGate(t *testing.T) {
	svc, userRepo, _, _ := setupTestAuthService()
	createTestUser(userRepo, "admin@professor.estacio.br", "senha123", models.RoleAdmin, models.AccountRejected)

	// A rejected admin can still log in; otherwise rejecting the last admin
	// would leave nobody able to work the approval queue.
	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@professor.estacio.br",
		Password: "senha123",
	})

	if err != nil {
		t.Fatalf("admin login should bypass the approval gate: %v", err)
	}
	if result.Token.AccessToken == "" {
		t.Error("AccessToken must not be empty")
	}
}

func TestLogin_RejectedAccountWrongPassword(t *testing.T) {
	svc, userRepo, _, _ := setupTestAuthService()
	createTestUser(userRepo, "ana@alunos.estacio.br", "senha123", models.RoleStudent, models.AccountRejected)

	// Without the right password a rejected account must look exactly like
	// bad credentials, not like a rejected account.
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ana@alunos.estacio.br",
		Password: "errada999",
	})

	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestRefreshToken_Rotation(t *testing.T) {
	svc, userRepo, tokenRepo, _ := setupTestAuthService()
	createTestUser(userRepo, "ana@alunos.estacio.br", "senha123", models.RoleStudent, models.AccountApproved)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ana@alunos.estacio.br",
		Password: "senha123",
	})
	if err != nil {
		t.Fatalf("Login should succeed: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), login.Token.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken should succeed: %v", err)
	}
	if refreshed.RefreshToken == login.Token.RefreshToken {
		t.Error("rotation must issue a new refresh token")
	}

	old, err := tokenRepo.GetRefreshTokenByValue(context.Background(), login.Token.RefreshToken)
	if err != nil {
		t.Fatalf("old token should still be stored: %v", err)
	}
	if !old.Revoked {
		t.Error("old refresh token must be revoked after rotation")
	}

	// Replaying the consumed token must fail
	_, err = svc.RefreshToken(context.Background(), login.Token.RefreshToken)
	if !errors.Is(err, apperrors.ErrTokenRevoked) {
		t.Errorf("expected ErrTokenRevoked on replay, got: %v", err)
	}
}

func TestRefreshToken_Expired(t *testing.T) {
	svc, userRepo, tokenRepo, _ := setupTestAuthService()
	user := createTestUser(userRepo, "ana@alunos.estacio.br", "senha123", models.RoleStudent, models.AccountApproved)

	expired := &models.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	if err := tokenRepo.CreateRefreshToken(context.Background(), expired); err != nil {
		t.Fatalf("seeding token: %v", err)
	}

	_, err := svc.RefreshToken(context.Background(), expired.Token)
	if !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got: %v", err)
	}

	stored, _ := tokenRepo.GetRefreshTokenByValue(context.Background(), expired.Token)
	if !stored.Revoked {
		t.Error("expired token should be revoked when presented")
	}
}

func TestRefreshToken_Unknown(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	_, err := svc.RefreshToken(context.Background(), uuid.New().String())
	if !errors.Is(err, apperrors.ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound, got: %v", err)
	}
}

func TestRefreshToken_UnapprovedAccount(t *testing.T) {
	svc, userRepo, tokenRepo, _ := setupTestAuthService()
	user := createTestUser(userRepo, "ana@alunos.estacio.br", "senha123", models.RoleStudent, models.AccountPending)

	token := &models.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := tokenRepo.CreateRefreshToken(context.Background(), token); err != nil {
		t.Fatalf("seeding token: %v", err)
	}

	_, err := svc.RefreshToken(context.Background(), token.Token)
	if !errors.Is(err, apperrors.ErrAccountNotApproved) {
		t.Errorf("expected ErrAccountNotApproved, got: %v", err)
	}
}

func TestRefreshToken_AdminBypassesApprovalGate(t *testing.T) {
	svc, userRepo, tokenRepo, _ := setupTestAuthService()
	admin := createTestUser(userRepo, "admin@professor.estacio.br", "senha123", models.RoleAdmin, models.AccountRejected)

	token := &models.RefreshToken{
		UserID:    admin.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := tokenRepo.CreateRefreshToken(context.Background(), token); err != nil {
		t.Fatalf("seeding token: %v", err)
	}

	if _, err := svc.RefreshToken(context.Background(), token.Token); err != nil {
		t.Errorf("admin refresh should bypass the approval gate: %v", err)
	}
}

func TestLogout_RevokesAllTokens(t *testing.T) {
	svc, userRepo, tokenRepo, _ := setupTestAuthService()
	createTestUser(userRepo, "ana@alunos.estacio.br", "senha123", models.RoleStudent, models.AccountApproved)

	first, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ana@alunos.estacio.br", Password: "senha123"})
	if err != nil {
		t.Fatalf("Login should succeed: %v", err)
	}
	second, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ana@alunos.estacio.br", Password: "senha123"})
	if err != nil {
		t.Fatalf("Login should succeed: %v", err)
	}

	if err := svc.Logout(context.Background(), first.User.ID); err != nil {
		t.Fatalf("Logout should succeed: %v", err)
	}

	for _, value := range []string{first.Token.RefreshToken, second.Token.RefreshToken} {
		stored, err := tokenRepo.GetRefreshTokenByValue(context.Background(), value)
		if err != nil {
			t.Fatalf("token lookup: %v", err)
		}
		if !stored.Revoked {
			t.Error("logout must revoke every refresh token of the user")
		}
	}
}

func TestGetProfile(t *testing.T) {
	svc, userRepo, _, _ := setupTestAuthService()
	user := createTestUser(userRepo, "ana@alunos.estacio.br", "senha123", models.RoleStudent, models.AccountApproved)

	profile, err := svc.GetProfile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetProfile should succeed: %v", err)
	}
	if profile.Email != user.Email {
		t.Errorf("expected email %q, got %q", user.Email, profile.Email)
	}

	_, err = svc.GetProfile(context.Background(), 9999)
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got: %v", err)
	}
}
