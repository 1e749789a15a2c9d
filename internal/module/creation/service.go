package creation

import (
	"context"
	"fmt"

	"github.com/quickai/server/internal/utils/pagination"
	"go.uber.org/zap"
)

// Service exposes the creations a user owns and the public feed.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new creation service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record appends a provenance record.
func (s *Service) Record(ctx context.Context, c *Creation) error {
	if err := s.repo.Create(ctx, c); err != nil {
		return fmt.Errorf("create creation: %w", err)
	}
	return nil
}

// ListForUser returns the user's creations, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]*Creation, error) {
	creations, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user creations: %w", err)
	}
	return creations, nil
}

// ListPublished returns published creations, newest first.
func (s *Service) ListPublished(ctx context.Context, page *pagination.Pagination) ([]*Creation, error) {
	creations, err := s.repo.ListPublished(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list published creations: %w", err)
	}
	return creations, nil
}

// ToggleLike flips userID's like on a creation and reports whether it is now liked.
func (s *Service) ToggleLike(ctx context.Context, userID string, id int64) (bool, error) {
	var liked bool
	err := s.repo.UpdateLikes(ctx, id, func(c *Creation) error {
		liked = c.ToggleLike(userID)
		return nil
	})
	if err != nil {
		return false, err
	}

	s.logger.Debug("creation like toggled",
		zap.Int64("creation_id", id),
		zap.String("user_id", userID),
		zap.Bool("liked", liked),
	)
	return liked, nil
}
