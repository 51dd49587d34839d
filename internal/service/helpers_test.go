package service

import (
	"context"
	"fmt"
	"testing"

	"labourhub/internal/model"
	"labourhub/pkg/config"
	"labourhub/pkg/store/memory"

	"github.com/stretchr/testify/require"
)

// 2025-03-10 is a Monday
const testWorkDate = "2025-03-10"

type fixture struct {
	ctx    context.Context
	store  *memory.Store
	engine *Engine
	phones int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	return &fixture{
		ctx:    context.Background(),
		store:  store,
		engine: NewEngine(store, config.EngineConfig{}),
	}
}

func (f *fixture) addCoordinator(t *testing.T, district string, skills ...model.WorkType) *model.Coordinator {
	t.Helper()
	raw := make([]string, 0, len(skills))
	for _, s := range skills {
		raw = append(raw, string(s))
	}
	f.phones++
	c, err := f.engine.Coordinators.Register(f.ctx, &model.RegisterCoordinatorInput{
		UserID:        fmt.Sprintf("user-%d", f.phones),
		Name:          fmt.Sprintf("Coordinator %d", f.phones),
		Phone:         fmt.Sprintf("90000%05d", f.phones),
		Location:      model.Location{District: district},
		SkillsOffered: raw,
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) addWorker(t *testing.T, c *model.Coordinator, standby bool, skills ...model.WorkType) *model.Worker {
	t.Helper()
	in := make([]model.SkillInput, 0, len(skills))
	for _, s := range skills {
		in = append(in, model.SkillInput{Type: string(s), ExperienceYears: 1})
	}
	f.phones++
	w, err := f.engine.Workers.Add(f.ctx, c.ID, &model.AddWorkerInput{
		Name:      fmt.Sprintf("Worker %d", f.phones),
		Phone:     fmt.Sprintf("80000%05d", f.phones),
		Skills:    in,
		IsStandby: standby,
	})
	require.NoError(t, err)
	return w
}

func (f *fixture) addWorkers(t *testing.T, c *model.Coordinator, n int, skills ...model.WorkType) []*model.Worker {
	t.Helper()
	out := make([]*model.Worker, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, f.addWorker(t, c, false, skills...))
	}
	return out
}

func (f *fixture) createRequest(t *testing.T, district string, workType model.WorkType, n int, date string) *model.LabourRequest {
	t.Helper()
	req, err := f.engine.Requests.Create(f.ctx, &model.CreateRequestInput{
		FarmerID:      "farmer-1",
		LandID:        "land-1",
		WorkType:      string(workType),
		WorkersNeeded: n,
		WorkDate:      date,
		Location:      model.Location{District: district},
	})
	require.NoError(t, err)
	return req
}

// acceptedRequest creates and accepts a request of n workers
func (f *fixture) acceptedRequest(t *testing.T, c *model.Coordinator, workType model.WorkType, n int, date string) *model.LabourRequest {
	t.Helper()
	req := f.createRequest(t, c.Location.District, workType, n, date)
	require.Equal(t, c.ID, req.CoordinatorID)
	req, err := f.engine.Requests.Accept(f.ctx, req.ID, actorOf(c))
	require.NoError(t, err)
	return req
}

func actorOf(c *model.Coordinator) model.Actor {
	return model.Actor{Type: model.ActorCoordinator, ID: c.ID}
}

func farmerActor() model.Actor {
	return model.Actor{Type: model.ActorFarmer, ID: "farmer-1"}
}

func workerIDs(ws []*model.Worker) []string {
	ids := make([]string, 0, len(ws))
	for _, w := range ws {
		ids = append(ids, w.ID)
	}
	return ids
}

func eventTypes(logs []*model.LabourLog) []model.EventType {
	out := make([]model.EventType, 0, len(logs))
	for _, l := range logs {
		out = append(out, l.EventType)
	}
	return out
}

func countEvents(logs []*model.LabourLog, et model.EventType) int {
	n := 0
	for _, l := range logs {
		if l.EventType == et {
			n++
		}
	}
	return n
}

func slotStatuses(req *model.LabourRequest) map[model.SlotStatus]int {
	out := make(map[model.SlotStatus]int)
	for _, s := range req.Slots {
		out[s.Status]++
	}
	return out
}
