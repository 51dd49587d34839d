package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"labourhub/internal/model"
	"labourhub/internal/service"
	"labourhub/pkg/config"
	"labourhub/pkg/lock"
	"labourhub/pkg/store/memory"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs  int32
	err   error
	panic bool
}

func (j *countingJob) Name() string            { return "counting" }
func (j *countingJob) Interval() time.Duration { return 10 * time.Millisecond }
func (j *countingJob) Run(ctx context.Context) error {
	atomic.AddInt32(&j.runs, 1)
	if j.panic {
		panic("boom")
	}
	return j.err
}

func TestManager_RunsUntilStopped(t *testing.T) {
	m := NewManager(context.Background())
	job := &countingJob{err: errors.New("ignored")}
	m.Register(job)
	m.Register(nil)
	assert.Equal(t, []string{"counting"}, m.Jobs())

	m.Start()
	m.Start()
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&job.runs) >= 3 }, time.Second, 5*time.Millisecond)

	m.Stop()
	m.Wait()
	runs := atomic.LoadInt32(&job.runs)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, runs, atomic.LoadInt32(&job.runs), "no runs after stop")
}

func TestManager_PanicDoesNotKillLoop(t *testing.T) {
	m := NewManager(context.Background())
	job := &countingJob{panic: true}
	m.Register(job)
	m.Start()
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&job.runs) >= 2 }, time.Second, 5*time.Millisecond)
	m.Stop()
	m.Wait()
}

func TestManager_RegisterAfterStartIgnored(t *testing.T) {
	m := NewManager(context.Background())
	m.Start()
	m.Register(&countingJob{})
	assert.Empty(t, m.Jobs())
	m.Stop()
	m.Wait()
}

type fakeRescanner struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeRescanner) Rescan(ctx context.Context) (*service.RescanResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &service.RescanResult{Coordinators: 1}, nil
}

func TestReliabilityRescanJob_SkipsWhenLockHeld(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	holder := lock.NewRedisLock(client, ReliabilityRescanLockKey, time.Minute)
	acquired, err := holder.TryLock(context.Background())
	require.NoError(t, err)
	require.True(t, acquired)

	scorer := &fakeRescanner{}
	job := NewReliabilityRescanJob(time.Hour, scorer, lock.NewRedisLock(client, ReliabilityRescanLockKey, time.Minute))
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 0, scorer.calls)
	assert.Nil(t, job.LastResult())

	require.NoError(t, holder.Unlock(context.Background()))
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, scorer.calls)
	require.NotNil(t, job.LastResult())
	assert.False(t, mr.Exists(ReliabilityRescanLockKey), "lock released after the run")
}

func TestReliabilityRescanJob_Errors(t *testing.T) {
	job := NewReliabilityRescanJob(time.Minute, nil, nil)
	assert.Error(t, job.Run(context.Background()))

	job = NewReliabilityRescanJob(time.Minute, &fakeRescanner{err: errors.New("db down")}, nil)
	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.False(t, job.AlignToInterval())
}

func TestReliabilityRescanJob_RepairsScores(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	engine := service.NewEngine(store, config.EngineConfig{})

	c, err := engine.Coordinators.Register(ctx, &model.RegisterCoordinatorInput{
		UserID:   "user-1",
		Name:     "Ravi",
		Phone:    "9000000001",
		Location: model.Location{District: "Salem"},
	})
	require.NoError(t, err)
	_, err = store.Coordinators().ApplyOutcome(ctx, c.ID, model.OutcomeDelta{Handled: 4, Successful: 1})
	require.NoError(t, err)

	job := NewReliabilityRescanJob(time.Hour, engine.Scorer, lock.NewRedisLock(nil, ReliabilityRescanLockKey, 0))
	require.NoError(t, RunOnce(ctx, job))

	got, err := store.Coordinators().Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, got.ReliabilityScore)
	assert.True(t, job.AlignToInterval())
}
