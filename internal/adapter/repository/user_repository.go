package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"users-api/internal/domain/user"
	apperrors "users-api/pkg/errors"
)

// UserRepository implements user persistence on top of GORM. It works
// against any of the supported engines (sqlite, MySQL, PostgreSQL);
// engine selection happens at connection time.
//
// The repository does not log: query tracing is handled by the GORM zap
// logger and failures are reported to callers as typed errors.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID     string  `gorm:"primaryKey;size:16"` // 16 character hex identifier
	Name   string  // User's full name
	Phone  string  // Contact phone number
	Email  string  // Contact email address
	Age    int64   // Age in years
	Weight float64 // Weight in kilograms
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func toEntity(m UserSchema) user.User {
	return user.User{
		ID:     m.ID,
		Name:   m.Name,
		Phone:  m.Phone,
		Email:  m.Email,
		Age:    m.Age,
		Weight: m.Weight,
	}
}

func toSchema(u user.User) UserSchema {
	return UserSchema{
		ID:     u.ID,
		Name:   u.Name,
		Phone:  u.Phone,
		Email:  u.Email,
		Age:    u.Age,
		Weight: u.Weight,
	}
}

// FindAll retrieves every user in the table.
func (r *UserRepository) FindAll(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, apperrors.NewStoreError("find users", err)
	}

	users := make([]user.User, len(models))
	for i, m := range models {
		users[i] = toEntity(m)
	}
	return users, nil
}

// CountAll returns the total number of users.
func (r *UserRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Count(&total).Error; err != nil {
		return 0, apperrors.NewStoreError("count users", err)
	}
	return total, nil
}

// FindByID retrieves a user by their identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user", id)
		}
		return nil, apperrors.NewStoreError("find user", err)
	}

	entity := toEntity(model)
	return &entity, nil
}

// Insert stores a new user. The identifier must already be set.
func (r *UserRepository) Insert(ctx context.Context, u user.User) error {
	model := toSchema(u)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return apperrors.NewStoreError("insert user", err)
	}
	return nil
}

// Update overwrites every column of an existing user, zero values included.
// Callers are expected to have verified existence first.
func (r *UserRepository) Update(ctx context.Context, u user.User) error {
	model := toSchema(u)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return apperrors.NewStoreError("update user", err)
	}
	return nil
}

// Delete removes a user by their identifier.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&UserSchema{}, "id = ?", id).Error; err != nil {
		return apperrors.NewStoreError("delete user", err)
	}
	return nil
}
