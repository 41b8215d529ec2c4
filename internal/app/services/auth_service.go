package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/coordenaplus/backend/internal/app/models"
	"github.com/coordenaplus/backend/internal/app/models/dto"
	"github.com/coordenaplus/backend/internal/app/repositories"
	"github.com/coordenaplus/backend/internal/pkg/apperrors"
	"github.com/coordenaplus/backend/internal/pkg/auth"
	"github.com/coordenaplus/backend/internal/pkg/notify"
)

// Institutional email domains. The domain decides the role: student
// addresses get RoleStudent, staff addresses get RoleProfessor.
const (
	studentEmailSuffix   = "@alunos.estacio.br"
	professorEmailSuffix = "@professor.estacio.br"
)

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`)

// AuthService handles authentication and registration
type AuthService struct {
	userRepo   repositories.UserRepository
	tokenRepo  repositories.TokenRepository
	jwtService *auth.JWTService
	dispatcher notify.Dispatcher
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.TokenRepository,
	jwtService *auth.JWTService,
	dispatcher notify.Dispatcher,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// validateInstitutionalEmail checks format and restricts registration to the
// two institutional domains. Returns the role the domain maps to.
func (s *AuthService) validateInstitutionalEmail(email string) (models.RoleType, error) {
	if strings.TrimSpace(email) == "" {
		return "", fmt.Errorf("%w: email cannot be empty", apperrors.ErrValidationFailed)
	}

	if !emailRegex.MatchString(email) {
		return "", apperrors.ErrInvalidEmail
	}

	switch {
	case strings.HasSuffix(email, studentEmailSuffix):
		return models.RoleStudent, nil
	case strings.HasSuffix(email, professorEmailSuffix):
		return models.RoleProfessor, nil
	default:
		return "", fmt.Errorf("%w: email must belong to an institutional domain", apperrors.ErrInvalidEmail)
	}
}

// validatePassword checks if password meets requirements
func (s *AuthService) validatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password cannot be empty", apperrors.ErrValidationFailed)
	}

	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters long", apperrors.ErrInvalidPassword)
	}

	hasLetter := false
	for _, char := range password {
		if unicode.IsLetter(char) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return fmt.Errorf("%w: password must contain at least one letter", apperrors.ErrInvalidPassword)
	}

	hasDigit := false
	for _, char := range password {
		if unicode.IsDigit(char) {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return fmt.Errorf("%w: password must contain at least one digit", apperrors.ErrInvalidPassword)
	}

	return nil
}

// Register creates a new pending account from an institutional email.
// The account cannot log in until an administrator approves it; every
// approved admin gets a push notification about the new request.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserProfile, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	role, err := s.validateInstitutionalEmail(email)
	if err != nil {
		return nil, err
	}

	if err := s.validatePassword(req.Password); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashedPassword,
		Role:     role,
		Status:   models.AccountPending,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("user creation error: %w", err)
	}
	user.ID = userID

	adminIDs, err := s.userRepo.GetApprovedAdminIDs(ctx)
	if err != nil {
		// Registration already succeeded; the admin ping is best effort.
		s.logger.Warn().Err(err).Msg("Could not load admin ids for registration notification")
	} else {
		s.dispatcher.RegistrationRequest(user, adminIDs)
	}

	s.logger.Info().Int64("userId", userID).Str("role", string(role)).Msg("New account registered, awaiting approval")

	profile := dto.NewUserProfile(user)
	return &profile, nil
}

// Login authenticates a user. Credential failures and unapproved accounts
// are reported with distinct errors so the API can answer 401 vs 403.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperrors.ErrValidationFailed)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	// Checked only after the password so a rejected account cannot be
	// distinguished from a wrong password without knowing the credentials.
	// Admins bypass the gate; otherwise a mistaken rejection of the last
	// admin would lock the approval queue forever.
	if user.Status != models.AccountApproved && user.Role != models.RoleAdmin {
		return nil, apperrors.ErrAccountNotApproved
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userId", user.ID).Msg("Could not update last login time")
	}

	tokens, err := s.generateTokenResponse(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{Token: *tokens, User: dto.NewUserProfile(user)}, nil
}

// RefreshToken rotates a refresh token and mints a new access token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	stored, err := s.tokenRepo.GetRefreshTokenByValue(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenNotFound) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("token validation error: %w", err)
	}

	if stored.Revoked {
		return nil, apperrors.ErrTokenRevoked
	}

	if stored.ExpiresAt.Before(time.Now()) {
		_ = s.tokenRepo.RevokeRefreshToken(ctx, refreshToken)
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if user.Status != models.AccountApproved && user.Role != models.RoleAdmin {
		return nil, apperrors.ErrAccountNotApproved
	}

	// Single use: revoke before issuing the replacement
	if err := s.tokenRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke old token: %w", err)
	}

	return s.generateTokenResponse(ctx, user)
}

// Logout revokes every refresh token of the user
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// GetProfile retrieves the profile of the authenticated user
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*dto.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user information: %w", err)
	}

	profile := dto.NewUserProfile(user)
	return &profile, nil
}

// generateTokenResponse creates a signed access token and stores a fresh
// opaque refresh token for the user.
func (s *AuthService) generateTokenResponse(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshValue, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token pair: %w", err)
	}

	refreshToken := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshValue,
		ExpiresAt: s.jwtService.GetRefreshTokenExpiry(),
	}

	if err := s.tokenRepo.CreateRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             int64(expiresIn),
		RefreshToken:          refreshToken.Token,
		RefreshTokenExpiresIn: int64(refreshExpiresIn),
	}, nil
}
