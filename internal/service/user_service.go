package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tthornvik/task-api/internal/domain"
	"github.com/tthornvik/task-api/internal/platform/logger"
	"github.com/tthornvik/task-api/internal/service/auth"
	"github.com/tthornvik/task-api/internal/store"
)

// notifyTimeout bounds a single background notification attempt.
const notifyTimeout = 30 * time.Second

// UserUpdate describes a partial profile update. Nil fields are left
// unchanged.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

// UserService implements account lifecycle and session use cases.
// Registration and deletion touch several tables, so the service owns
// the database handle for transactions in addition to the stores.
type UserService struct {
	db         *sql.DB
	userStore  store.UserStore
	taskStore  store.TaskStore
	tokenStore store.TokenStore
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
	verifier   auth.PasswordVerifier
	notifier   Notifier
	logger     *slog.Logger

	notifications sync.WaitGroup
}

// UserServiceConfig collects the dependencies for NewUserService.
type UserServiceConfig struct {
	DB         *sql.DB
	UserStore  store.UserStore
	TaskStore  store.TaskStore
	TokenStore store.TokenStore
	JWTService auth.JWTService
	Hasher     auth.PasswordHasher
	Verifier   auth.PasswordVerifier
	Notifier   Notifier
	Logger     *slog.Logger
}

// NewUserService creates a UserService.
// If cfg.Logger is nil, a default logger will be used.
func NewUserService(cfg UserServiceConfig) *UserService {
	if cfg.UserStore == nil {
		panic("user store cannot be nil")
	}
	if cfg.TaskStore == nil {
		panic("task store cannot be nil")
	}
	if cfg.TokenStore == nil {
		panic("token store cannot be nil")
	}
	if cfg.JWTService == nil {
		panic("jwt service cannot be nil")
	}
	if cfg.Hasher == nil || cfg.Verifier == nil {
		panic("password hasher and verifier cannot be nil")
	}
	if cfg.Notifier == nil {
		panic("notifier cannot be nil")
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &UserService{
		db:         cfg.DB,
		userStore:  cfg.UserStore,
		taskStore:  cfg.TaskStore,
		tokenStore: cfg.TokenStore,
		jwtService: cfg.JWTService,
		hasher:     cfg.Hasher,
		verifier:   cfg.Verifier,
		notifier:   cfg.Notifier,
		logger:     log.With(slog.String("component", "user_service")),
	}
}

// Register creates a new account, issues the first session token and
// triggers the welcome email. The user row and its first session token
// are written in one transaction so a half-registered account never
// becomes visible.
// Returns store.ErrEmailExists if the email is already taken.
func (s *UserService) Register(
	ctx context.Context,
	name, email, password string,
	age *int,
) (*domain.User, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(name, email, password, age)
	if err != nil {
		log.Warn("user validation failed during registration",
			slog.String("error", err.Error()))
		return nil, "", err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password",
			slog.String("error", err.Error()))
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	token, err := s.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		log.Error("failed to generate session token",
			slog.String("error", err.Error()))
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.userStore.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		return s.tokenStore.WithTx(tx).Add(ctx, user.ID, token)
	})
	if err != nil {
		return nil, "", err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()))

	s.notifyAsync(func(ctx context.Context) error {
		return s.notifier.SendWelcome(ctx, user.Email, user.Name)
	})

	return user, token, nil
}

// Login authenticates a user by email and password and issues a new
// session token. Every failure mode returns ErrUnableToLogin.
func (s *UserService) Login(
	ctx context.Context,
	email, password string,
) (*domain.User, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Info("login attempt for unknown email")
			return nil, "", ErrUnableToLogin
		}
		log.Error("failed to look up user during login",
			slog.String("error", err.Error()))
		return nil, "", err
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Info("login attempt with wrong password",
			slog.String("user_id", user.ID.String()))
		return nil, "", ErrUnableToLogin
	}

	token, err := s.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		log.Error("failed to generate session token",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	if err := s.tokenStore.Add(ctx, user.ID, token); err != nil {
		return nil, "", err
	}

	log.Info("user logged in",
		slog.String("user_id", user.ID.String()))
	return user, token, nil
}

// Logout revokes exactly the presented session token. Revoking a token
// that is already gone is not an error, so logout is idempotent.
func (s *UserService) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.tokenStore.Remove(ctx, userID, token); err != nil {
		if store.IsNotFoundError(err) {
			return nil
		}
		return err
	}

	log.Info("user logged out",
		slog.String("user_id", userID.String()))
	return nil
}

// LogoutAll revokes every session token of the user and returns the
// number of sessions that were active.
func (s *UserService) LogoutAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	revoked, err := s.tokenStore.RemoveAll(ctx, userID)
	if err != nil {
		return 0, err
	}

	log.Info("user logged out everywhere",
		slog.String("user_id", userID.String()),
		slog.Int64("sessions_revoked", revoked))
	return revoked, nil
}

// Get retrieves the user's profile.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userStore.GetByID(ctx, userID)
}

// Update applies a partial profile update and returns the updated user.
// A new password is validated against the account rules and hashed
// before it reaches the store.
// Returns store.ErrEmailExists if the new email is already taken.
func (s *UserService) Update(
	ctx context.Context,
	userID uuid.UUID,
	update UserUpdate,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		user.Email = domain.NormalizeEmail(*update.Email)
	}
	if update.Age != nil {
		user.Age = *update.Age
	}
	if update.Password != nil {
		password := strings.TrimSpace(*update.Password)
		if err := domain.ValidatePassword(password); err != nil {
			log.Warn("password validation failed during update",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, err
		}
		hashed, err := s.hasher.Hash(password)
		if err != nil {
			log.Error("failed to hash password",
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hashed
	}

	user.UpdatedAt = time.Now().UTC()
	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Info("user profile updated",
		slog.String("user_id", userID.String()))
	return user, nil
}

// Delete removes the account together with all of its tasks and
// sessions in a single transaction, then triggers the cancellation
// email. Tasks never outlive their owner. The deleted user is returned
// so callers can echo the final profile state.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.taskStore.WithTx(tx).DeleteAllForOwner(ctx, userID); err != nil {
			return err
		}
		if _, err := s.tokenStore.WithTx(tx).RemoveAll(ctx, userID); err != nil {
			return err
		}
		return s.userStore.WithTx(tx).Delete(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	log.Info("user account deleted",
		slog.String("user_id", userID.String()))

	s.notifyAsync(func(ctx context.Context) error {
		return s.notifier.SendCancellation(ctx, user.Email, user.Name)
	})

	return user, nil
}

// SetAvatar normalizes the uploaded image and stores it as the user's
// avatar.
// Returns ErrAvatarTooLarge or ErrUnsupportedAvatarFormat for rejected
// uploads, store.ErrUserNotFound if the user does not exist.
func (s *UserService) SetAvatar(ctx context.Context, userID uuid.UUID, data []byte) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	avatar, err := NormalizeAvatar(data)
	if err != nil {
		log.Warn("avatar upload rejected",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("size_bytes", len(data)))
		return err
	}

	if err := s.userStore.SetAvatar(ctx, userID, avatar); err != nil {
		return err
	}

	log.Info("avatar stored",
		slog.String("user_id", userID.String()))
	return nil
}

// GetAvatar retrieves the stored avatar bytes (always PNG).
// Returns store.ErrAvatarNotFound if no avatar is set and
// store.ErrUserNotFound if the user does not exist.
func (s *UserService) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	return s.userStore.GetAvatar(ctx, userID)
}

// DeleteAvatar removes the user's stored avatar. Clearing an absent
// avatar is not an error.
func (s *UserService) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	return s.userStore.ClearAvatar(ctx, userID)
}

// notifyAsync runs a notification attempt in the background. Delivery
// is best-effort: a failure is logged, never surfaced to the caller,
// and never retried.
func (s *UserService) notifyAsync(send func(ctx context.Context) error) {
	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := send(ctx); err != nil {
			s.logger.Warn("notification delivery failed",
				slog.String("error", err.Error()))
		}
	}()
}

// WaitForNotifications blocks until all in-flight background
// notifications have finished. Called during graceful shutdown.
func (s *UserService) WaitForNotifications() {
	s.notifications.Wait()
}
