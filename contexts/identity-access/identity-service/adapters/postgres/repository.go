package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"faas/contexts/identity-access/identity-service/domain/entities"
	domainerrors "faas/contexts/identity-access/identity-service/domain/errors"
	"faas/internal/shared/identity"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) GetUserByID(ctx context.Context, userID string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?)", strings.TrimSpace(username)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

// SeedUsers inserts directory users that are not present yet. Existing
// rows are left untouched so operators can edit roles in place.
func (r *Repository) SeedUsers(ctx context.Context, users []entities.User) error {
	for _, user := range users {
		row := userModel{
			UserID:    strings.TrimSpace(user.UserID),
			Username:  strings.TrimSpace(user.Username),
			FullName:  strings.TrimSpace(user.FullName),
			Role:      string(user.Role),
			CreatedAt: user.CreatedAt.UTC(),
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = time.Now().UTC()
		}
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				DoNothing: true,
			}).
			Create(&row).
			Error
		if err != nil {
			return err
		}
	}
	return nil
}

type userModel struct {
	UserID    string    `gorm:"column:user_id;primaryKey"`
	Username  string    `gorm:"column:username"`
	FullName  string    `gorm:"column:full_name"`
	Role      string    `gorm:"column:role"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (userModel) TableName() string {
	return "users"
}

func (m userModel) toEntity() entities.User {
	return entities.User{
		UserID:    m.UserID,
		Username:  m.Username,
		FullName:  m.FullName,
		Role:      identity.ParseRole(m.Role),
		CreatedAt: m.CreatedAt.UTC(),
	}
}
