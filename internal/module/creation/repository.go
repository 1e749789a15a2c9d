package creation

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"github.com/quickai/server/internal/utils/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for creation data access.
type Repository interface {
	Create(ctx context.Context, c *Creation) error
	GetByID(ctx context.Context, id int64) (*Creation, error)
	ListByUser(ctx context.Context, userID string) ([]*Creation, error)
	ListPublished(ctx context.Context, page *pagination.Pagination) ([]*Creation, error)
	// UpdateLikes runs fn on the locked row and stores the likes it leaves behind.
	UpdateLikes(ctx context.Context, id int64, fn func(c *Creation) error) error
}

// repository implements Repository using GORM.
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new creation repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Creation) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Creation, error) {
	var c Creation
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCreationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]*Creation, error) {
	var creations []*Creation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&creations).Error
	return creations, err
}

func (r *repository) ListPublished(ctx context.Context, page *pagination.Pagination) ([]*Creation, error) {
	query := r.db.WithContext(ctx).
		Where("publish = ?", true).
		Order("created_at DESC")
	if page != nil {
		query = query.Offset(page.Offset()).Limit(page.Limit())
	}

	var creations []*Creation
	err := query.Find(&creations).Error
	return creations, err
}

func (r *repository) UpdateLikes(ctx context.Context, id int64, fn func(c *Creation) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c Creation
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCreationNotFound
		}
		if err != nil {
			return err
		}

		if err := fn(&c); err != nil {
			return err
		}

		return tx.Model(&Creation{}).
			Where("id = ?", id).
			Update("likes", pq.StringArray(c.Likes)).Error
	})
}

// Compile-time check
var _ Repository = (*repository)(nil)
