package taxonomy

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pawmart/petsearch/internal/domain"
)

// Taxonomy is the catalog vocabulary for one species, used by callers to
// ground their filter values in terms the index actually contains.
type Taxonomy struct {
	Species    string   `json:"species"`
	Breeds     []string `json:"breeds"`
	LifeStages []string `json:"life_stages"`
}

// Service serves catalog vocabulary lookups.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// New creates a Service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Breeds lists the distinct breeds indexed for a species.
func (s *Service) Breeds(ctx context.Context, sp domain.Species) ([]string, error) {
	breeds, err := s.repo.UniqueBreeds(ctx, sp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	return breeds, nil
}

// LifeStages lists the distinct life stages indexed for a species.
func (s *Service) LifeStages(ctx context.Context, sp domain.Species) ([]string, error) {
	stages, err := s.repo.UniqueLifeStages(ctx, sp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	return stages, nil
}

// Get assembles the full vocabulary for a species in one call.
func (s *Service) Get(ctx context.Context, sp domain.Species) (Taxonomy, error) {
	breeds, err := s.Breeds(ctx, sp)
	if err != nil {
		return Taxonomy{}, err
	}
	stages, err := s.LifeStages(ctx, sp)
	if err != nil {
		return Taxonomy{}, err
	}
	s.logger.Debug("taxonomy assembled",
		zap.String("species", sp.String()),
		zap.Int("breeds", len(breeds)),
		zap.Int("life_stages", len(stages)),
	)
	return Taxonomy{
		Species:    sp.String(),
		Breeds:     breeds,
		LifeStages: stages,
	}, nil
}
