package store

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for stores
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)
	FindBySlug(ctx context.Context, slug string) (*Store, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]Store, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Save(ctx context.Context, s *Store) error
}
