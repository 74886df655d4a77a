package taxonomy

import (
	"context"

	"github.com/pawmart/petsearch/internal/domain"
)

// Repository defines the index contract for catalog vocabulary reads.
type Repository interface {
	UniqueBreeds(ctx context.Context, sp domain.Species) ([]string, error)
	UniqueLifeStages(ctx context.Context, sp domain.Species) ([]string, error)
}
