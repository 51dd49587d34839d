package service

import (
	"testing"

	"labourhub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoute_PrefersDistrict(t *testing.T) {
	f := newFixture(t)
	f.addCoordinator(t, "Madurai")
	local := f.addCoordinator(t, "Coimbatore")

	c, err := f.engine.Router.Route(f.ctx, model.Location{District: " coimbatore "}, model.WorkTypeHarvesting)
	require.NoError(t, err)
	assert.Equal(t, local.ID, c.ID)
}

func TestRoute_FallsBackToAnyDistrict(t *testing.T) {
	f := newFixture(t)
	remote := f.addCoordinator(t, "Madurai")

	c, err := f.engine.Router.Route(f.ctx, model.Location{District: "Salem"}, model.WorkTypeHarvesting)
	require.NoError(t, err)
	assert.Equal(t, remote.ID, c.ID)
}

func TestRoute_SkillAndActiveFilters(t *testing.T) {
	f := newFixture(t)
	f.addCoordinator(t, "Coimbatore", model.WorkTypeSowing)
	inactive := f.addCoordinator(t, "Coimbatore", model.WorkTypeHarvesting)
	off := false
	_, err := f.engine.Coordinators.Update(f.ctx, inactive.ID, &model.UpdateCoordinatorInput{IsActive: &off})
	require.NoError(t, err)

	_, err = f.engine.Router.Route(f.ctx, model.Location{District: "Coimbatore"}, model.WorkTypeHarvesting)
	assert.ErrorIs(t, err, model.ErrNoCoordinatorAvailable)
}

func TestRoute_NoCoordinators(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Router.Route(f.ctx, model.Location{District: "Coimbatore"}, model.WorkTypeGeneral)
	assert.ErrorIs(t, err, model.ErrNoCoordinatorAvailable)
}

func TestRoute_OtherWorkTypeServedByGeneral(t *testing.T) {
	f := newFixture(t)
	general := f.addCoordinator(t, "Coimbatore", model.WorkTypeGeneral)

	wt, err := model.ParseWorkType("fencing")
	require.NoError(t, err)
	c, err := f.engine.Router.Route(f.ctx, model.Location{District: "Coimbatore"}, wt)
	require.NoError(t, err)
	assert.Equal(t, general.ID, c.ID)
}

func TestRoute_BalancesLoadThenAge(t *testing.T) {
	f := newFixture(t)
	first := f.addCoordinator(t, "Coimbatore")
	second := f.addCoordinator(t, "Coimbatore")

	// equal load and score: the older registration wins
	req := f.createRequest(t, "Coimbatore", model.WorkTypeSowing, 1, testWorkDate)
	assert.Equal(t, first.ID, req.CoordinatorID)

	// first now has one open request
	req = f.createRequest(t, "Coimbatore", model.WorkTypeSowing, 1, testWorkDate)
	assert.Equal(t, second.ID, req.CoordinatorID)

	// a closed request no longer counts as load
	_, err := f.engine.Requests.Decline(f.ctx, req.ID, "", actorOf(second))
	require.NoError(t, err)
	req = f.createRequest(t, "Coimbatore", model.WorkTypeSowing, 1, testWorkDate)
	assert.Equal(t, second.ID, req.CoordinatorID)
}
