package service

import (
	"context"
	"fmt"
	"sort"

	"labourhub/internal/model"
	"labourhub/pkg/interfaces"
	"labourhub/pkg/logger"
)

// CoordinatorRouter picks the coordinator for a new request
type CoordinatorRouter struct {
	store interfaces.Store
}

// NewCoordinatorRouter creates a new coordinator router
func NewCoordinatorRouter(store interfaces.Store) *CoordinatorRouter {
	return &CoordinatorRouter{store: store}
}

// Route selects an active coordinator offering workType, preferring the request's district.
// Among candidates the one with the fewest open requests wins, then higher reliability,
// then the oldest registration, then the lowest id.
func (r *CoordinatorRouter) Route(ctx context.Context, loc model.Location, workType model.WorkType) (*model.Coordinator, error) {
	active, err := r.store.Coordinators().ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list coordinators: %w", err)
	}

	district := loc.NormalizedDistrict()
	var local, eligible []*model.Coordinator
	for _, c := range active {
		if !c.Offers(workType) {
			continue
		}
		eligible = append(eligible, c)
		if district != "" && c.Location.NormalizedDistrict() == district {
			local = append(local, c)
		}
	}

	candidates := local
	if len(candidates) == 0 {
		candidates = eligible
	}
	if len(candidates) == 0 {
		return nil, model.NewNoCoordinatorError("no active coordinator offers %s for district %q", workType, loc.District)
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	load, err := r.store.Requests().CountOpen(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count open requests: %w", err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if load[a.ID] != load[b.ID] {
			return load[a.ID] < load[b.ID]
		}
		if a.ReliabilityScore != b.ReliabilityScore {
			return a.ReliabilityScore > b.ReliabilityScore
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	chosen := candidates[0]
	logger.InfoCtx(ctx, "routed %s request in %q to coordinator %s (local=%v, load=%d)",
		workType, loc.District, chosen.ID, len(local) > 0, load[chosen.ID])
	return chosen, nil
}
