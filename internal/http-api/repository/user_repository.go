package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"users-api/internal/http-api/models"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrUnknownColumn  = errors.New("unknown column")
)

const (
	pgUniqueViolation   = "23505"
	mysqlDuplicateEntry = 1062
	defaultQueryTimeout = 5 * time.Second
)

// Assignment is one column = value pair of an UPDATE. A nil Value writes NULL.
type Assignment struct {
	Column string
	Value  interface{}
}

// updatableColumns guards Update against columns outside the users table.
var updatableColumns = map[string]bool{
	"first_name": true,
	"last_name":  true,
	"email":      true,
	"password":   true,
	"birthday":   true,
	"updated_at": true,
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	// EmailTaken reports whether another user than excludeID owns email.
	// Pass 0 to check against every user.
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id int64, assignments []Assignment) error
	Delete(ctx context.Context, id int64) error
}

// userRepository is the GORM implementation of UserRepository. It works
// against both PostgreSQL and MySQL; dialect differences stay inside GORM.
type userRepository struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

// NewUserRepository creates a new instance of UserRepository in a GORM implementation
func NewUserRepository(db *gorm.DB, queryTimeout time.Duration) UserRepository {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &userRepository{db: db, queryTimeout: queryTimeout}
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	users := make([]models.User, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		// return nil so a zero-value user is never mistaken for a hit
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	// GORM populates user.ID, CreatedAt and UpdatedAt
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, id int64, assignments []Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	values := make(map[string]interface{}, len(assignments))
	for _, a := range assignments {
		if !updatableColumns[a.Column] {
			return fmt.Errorf("update user %d: %w %q", id, ErrUnknownColumn, a.Column)
		}
		values[a.Column] = a.Value
	}

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(values).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("update user %d: %w", id, err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return fmt.Errorf("delete user %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// isDuplicateKey recognises unique-constraint violations from either engine,
// whether or not GORM translated the error.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return false
}
