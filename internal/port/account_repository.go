package port

import (
	"context"

	"github.com/rl1809/cold-storage/internal/core/domain"
)

type ProfileRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Profile, error)
	CreateProfile(ctx context.Context, profile domain.Profile) error
	ListByRole(ctx context.Context, orgID string, role domain.Role) ([]domain.Profile, error)
	DeleteProfile(ctx context.Context, id string) error
}

type OrganizationRepository interface {
	CreateOrganization(ctx context.Context, org domain.Organization) error
	FindOrganization(ctx context.Context, id string) (*domain.Organization, error)
	UpdateWatermark(ctx context.Context, id, watermarkURL string) error
}
