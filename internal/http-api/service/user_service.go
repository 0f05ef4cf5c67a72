package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"users-api/internal/http-api/dto"
	"users-api/internal/http-api/models"
	"users-api/internal/http-api/repository"
	"users-api/internal/http-api/security"
	"users-api/internal/http-api/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	List(ctx context.Context) ([]dto.UserResponse, error)
	Get(ctx context.Context, id int64) (*dto.UserResponse, error)
	Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	userRepo repository.UserRepository
	hasher   security.PasswordHasher
	resolver *UpdateResolver
	logger   *slog.Logger
	now      func() time.Time
}

func NewUserService(userRepo repository.UserRepository, hasher security.PasswordHasher, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		userRepo: userRepo,
		hasher:   hasher,
		resolver: NewUpdateResolver(hasher),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List returns every user ordered by id; zero users is an empty slice.
func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.FromModelsToUserResponses(users), nil
}

func (s *userService) Get(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

// Create validates, checks email uniqueness, hashes and inserts. Nothing is
// written when validation fails. The unique index on email backs up the
// uniqueness check when two creates race.
func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)

	if err := validation.RequireFields(map[string]string{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"email":      req.Email,
		"password":   req.Password,
	}, "first_name", "last_name", "email", "password"); err != nil {
		return nil, err
	}
	if !validation.IsValidEmail(req.Email) {
		return nil, validation.NewValidationError("invalid email format", "email")
	}

	taken, err := s.userRepo.EmailTaken(ctx, req.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailInUse
	}

	digest, err := hashPassword(s.hasher, req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  digest,
		Birthday:  req.Birthday.Value,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	s.logger.InfoContext(ctx, "user_created", "user_id", user.ID)

	// Reload so store defaults are reflected
	created, err := s.findUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(created), nil
}

// Update applies only the fields present in req and refreshes updated_at.
func (s *userService) Update(ctx context.Context, id int64, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if _, err := s.findUser(ctx, id); err != nil {
		return nil, err
	}

	assignments, err := s.resolver.Resolve(req, s.now())
	if err != nil {
		return nil, err
	}

	if email, ok := ChangedEmail(assignments); ok {
		taken, err := s.userRepo.EmailTaken(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailInUse
		}
	}

	if err := s.resolver.HashPassword(assignments); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, id, assignments); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	s.logger.InfoContext(ctx, "user_updated", "user_id", id, "columns", columnNames(assignments))

	updated, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(updated), nil
}

// Delete removes the row permanently.
func (s *userService) Delete(ctx context.Context, id int64) error {
	if _, err := s.findUser(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		// another request deleted it in between
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.logger.InfoContext(ctx, "user_deleted", "user_id", id)
	return nil
}

func (s *userService) findUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func hashPassword(hasher security.PasswordHasher, password string) (string, error) {
	digest, err := hasher.Hash(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", validation.NewValidationError("password must be at most 72 bytes", "password")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return digest, nil
}

func columnNames(assignments []repository.Assignment) []string {
	names := make([]string, 0, len(assignments))
	for _, a := range assignments {
		names = append(names, a.Column)
	}
	return names
}
