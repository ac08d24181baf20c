package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/EgehanKilicarslan/inventory-api/internal/database/models"
	"github.com/EgehanKilicarslan/inventory-api/internal/database/repository"
	"github.com/EgehanKilicarslan/inventory-api/internal/validation"
)

// UserService defines the interface for user business logic
type UserService interface {
	List(ctx context.Context, page int) (*Page[models.User], error)
	Create(ctx context.Context, in validation.UserInput) (*models.User, error)
	Get(ctx context.Context, id uint) (*models.User, error)
	Update(ctx context.Context, id uint, in validation.UserPatch) (*models.User, error)
	SoftDelete(ctx context.Context, id uint) error
	ListSoftDeleted(ctx context.Context) ([]models.User, error)
	Restore(ctx context.Context, id uint) error
}

type userService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	validator        *validation.Validator
	logger           *slog.Logger
}

// NewUserService creates a new user service instance
func NewUserService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	validator *validation.Validator,
	logger *slog.Logger,
) UserService {
	return &userService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		validator:        validator,
		logger:           logger,
	}
}

func (s *userService) List(ctx context.Context, page int) (*Page[models.User], error) {
	page, offset, limit := window(page, UsersPerPage)

	users, total, err := s.userRepo.List(ctx, models.StateActive, offset, limit)
	if err != nil {
		s.logger.Error("❌ [UserService] Failed to list users", "error", err)
		return nil, err
	}

	return newPage(users, total, page, UsersPerPage), nil
}

func (s *userService) Create(ctx context.Context, in validation.UserInput) (*models.User, error) {
	s.logger.Info("📝 [UserService] Creating user", "username", in.Username)

	if err := s.validator.User(ctx, &in, s.userRepo); err != nil {
		return nil, err
	}

	hashedPassword, err := hashPassword(in.Password)
	if err != nil {
		s.logger.Error("❌ [UserService] Failed to hash password", "error", err)
		return nil, err
	}

	user := &models.User{
		FirstName:  in.FirstName,
		MiddleName: in.MiddleName,
		LastName:   in.LastName,
		Username:   in.Username,
		Email:      in.Email,
		Password:   hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, s.writeError(ctx, err, user)
	}

	s.logger.Info("✅ [UserService] User created", "user_id", user.ID)
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id, models.StateActive)
}

// Update applies the present fields of the patch. A new password is hashed
// and revokes the user's refresh tokens.
func (s *userService) Update(ctx context.Context, id uint, in validation.UserPatch) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id, models.StateActive)
	if err != nil {
		return nil, err
	}

	if err := s.validator.UserPatch(ctx, &in, s.userRepo, id); err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.MiddleName != nil {
		if *in.MiddleName == "" {
			user.MiddleName = nil
		} else {
			user.MiddleName = in.MiddleName
		}
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Password != nil {
		hashedPassword, err := hashPassword(*in.Password)
		if err != nil {
			s.logger.Error("❌ [UserService] Failed to hash password", "error", err)
			return nil, err
		}
		user.Password = hashedPassword
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, s.writeError(ctx, err, user)
	}

	if in.Password != nil {
		if err := s.refreshTokenRepo.RevokeAllUserTokens(ctx, id); err != nil {
			s.logger.Error("❌ [UserService] Failed to revoke refresh tokens", "user_id", id, "error", err)
		}
	}

	s.logger.Info("✅ [UserService] User updated", "user_id", id)
	return user, nil
}

func (s *userService) SoftDelete(ctx context.Context, id uint) error {
	if err := s.userRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	if err := s.refreshTokenRepo.RevokeAllUserTokens(ctx, id); err != nil {
		s.logger.Error("❌ [UserService] Failed to revoke refresh tokens", "user_id", id, "error", err)
	}

	s.logger.Info("🗑️ [UserService] User soft deleted", "user_id", id)
	return nil
}

func (s *userService) ListSoftDeleted(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.ListAll(ctx, models.StateSoftDeleted)
	if err != nil {
		s.logger.Error("❌ [UserService] Failed to list soft deleted users", "error", err)
		return nil, err
	}
	return nonNil(users), nil
}

// Restore needs no collision check: usernames and emails stay reserved
// while a user is soft deleted.
func (s *userService) Restore(ctx context.Context, id uint) error {
	if err := s.userRepo.Restore(ctx, id); err != nil {
		return err
	}

	s.logger.Info("♻️ [UserService] User restored", "user_id", id)
	return nil
}

// writeError attributes a unique violation that raced past validation to
// the field that now collides.
func (s *userService) writeError(ctx context.Context, err error, user *models.User) error {
	if !errors.Is(err, repository.ErrDuplicateKey) {
		if !IsNotFound(err) {
			s.logger.Error("❌ [UserService] Failed to persist user", "error", err)
		}
		return err
	}

	s.logger.Warn("⚠️ [UserService] Duplicate user identifier at write time")

	if taken, lookupErr := s.userRepo.UsernameTaken(ctx, user.Username, user.ID); lookupErr == nil && taken {
		return validation.Single("username", validation.Taken("username"))
	}
	return validation.Single("email", validation.Taken("email"))
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
