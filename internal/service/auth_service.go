package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tours-api/internal/cache"
	apperrors "tours-api/internal/errors"
	"tours-api/internal/logger"
	"tours-api/internal/mailer"
	"tours-api/internal/models"
	"tours-api/internal/queue"
	"tours-api/internal/repository"
	"tours-api/pkg/auth"
)

// passwordChangeSkew backdates passwordChangedAt so a token signed in the
// same second as the change stays valid.
const passwordChangeSkew = time.Second

// AuthService handles authentication business logic.
type AuthService struct {
	userRepo   repository.UserRepository
	cache      cache.Cache
	jwtManager auth.TokenManager
	mailer     mailer.Sender
	emailQueue queue.Queue
	loader     *userLoader
	resetTTL   time.Duration
	publicURL  string
	now        func() time.Time
}

// AuthServiceConfig holds configuration for AuthService.
type AuthServiceConfig struct {
	UserRepo     repository.UserRepository
	Cache        cache.Cache
	JWTManager   auth.TokenManager
	Mailer       mailer.Sender
	EmailQueue   queue.Queue
	ResetTTL     time.Duration
	UserCacheTTL time.Duration
	PublicURL    string
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	return &AuthService{
		userRepo:   cfg.UserRepo,
		cache:      cfg.Cache,
		jwtManager: cfg.JWTManager,
		mailer:     cfg.Mailer,
		emailQueue: cfg.EmailQueue,
		loader:     &userLoader{users: cfg.UserRepo, cache: cfg.Cache, ttl: cfg.UserCacheTTL},
		resetTTL:   cfg.ResetTTL,
		publicURL:  strings.TrimRight(cfg.PublicURL, "/"),
		now:        time.Now,
	}
}

// Signup creates a user with the default role and returns a token.
func (s *AuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: hashedPassword,
		Role:     models.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.enqueueWelcome(ctx, user)

	return s.authResponse(user)
}

// enqueueWelcome is best effort; signup never fails because of it.
func (s *AuthService) enqueueWelcome(ctx context.Context, user *models.User) {
	if s.emailQueue == nil {
		return
	}
	msg, err := mailer.Welcome(user.Email, user.Name, s.publicURL+"/api/v1/users/me")
	if err == nil {
		err = s.emailQueue.Enqueue(queue.EmailJob{Message: msg})
	}
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("user", user.ID.Hex()).Msg("welcome email not queued")
	}
}

// Login checks credentials. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrDocumentNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.CheckPassword(req.Password, user.Password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.authResponse(user)
}

// ForgotPassword stores a reset token hash and emails the plain token.
// Unknown addresses succeed silently.
func (s *AuthService) ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrDocumentNotFound) {
			return nil
		}
		return err
	}

	token, hash, err := auth.NewResetToken()
	if err != nil {
		return err
	}
	if err := s.userRepo.SetResetToken(ctx, user.ID, hash, s.now().Add(s.resetTTL)); err != nil {
		return err
	}

	resetURL := s.publicURL + "/api/v1/users/reset-password/" + token
	msg, err := mailer.PasswordReset(user.Email, user.Name, resetURL, s.resetTTL)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		logger.FromContext(ctx).Error().Err(err).Str("user", user.ID.Hex()).Msg("password reset email failed")
		if clearErr := s.userRepo.ClearResetToken(ctx, user.ID); clearErr != nil {
			logger.FromContext(ctx).Error().Err(clearErr).Str("user", user.ID.Hex()).Msg("failed to clear reset token")
		}
		return apperrors.ErrEmailDelivery
	}
	return nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *AuthService) ResetPassword(ctx context.Context, token string, req *models.ResetPasswordRequest) (*models.AuthResponse, error) {
	if req.Password != req.PasswordConfirm {
		return nil, apperrors.ErrPasswordsDiffer
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user, err := s.userRepo.ConsumeResetToken(ctx, auth.HashToken(token), now, hashedPassword, now.Add(-passwordChangeSkew))
	if err != nil {
		return nil, err
	}

	invalidateUser(ctx, s.cache, user.ID)
	return s.authResponse(user)
}

// UpdatePassword changes the password of a logged-in user after checking the current one.
func (s *AuthService) UpdatePassword(ctx context.Context, userID primitive.ObjectID, req *models.UpdatePasswordRequest) (*models.AuthResponse, error) {
	// The cached identity has no password hash, so read the stored user.
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := auth.CheckPassword(req.PasswordCurrent, user.Password); err != nil {
		return nil, apperrors.ErrWrongPassword
	}
	if req.Password != req.PasswordConfirm {
		return nil, apperrors.ErrPasswordsDiffer
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	changedAt := s.now().Add(-passwordChangeSkew)
	if err := s.userRepo.SetPassword(ctx, user.ID, hashedPassword, changedAt); err != nil {
		return nil, err
	}
	user.Password = hashedPassword
	user.PasswordChangedAt = &changedAt

	invalidateUser(ctx, s.cache, user.ID)
	return s.authResponse(user)
}

// Authenticate resolves a bearer token to the current user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.loader.load(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDocumentNotFound) {
			return nil, apperrors.ErrUserNoLongerExists
		}
		return nil, err
	}

	if user.ChangedPasswordAfter(claims.IssuedAtTime()) {
		return nil, apperrors.ErrPasswordChanged
	}

	return user, nil
}

func (s *AuthService) authResponse(user *models.User) (*models.AuthResponse, error) {
	token, err := s.jwtManager.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}
