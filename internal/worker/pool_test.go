package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MeKo-Tech/noisetex/internal/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockGenerator simulates texture generation for testing
type mockGenerator struct {
	delay     time.Duration
	fail      map[string]bool // textures that should fail
	callCount atomic.Int32
}

func (m *mockGenerator) Generate(ctx context.Context, s scene.Scene, surface scene.Surface, force bool) (string, error) {
	m.callCount.Add(1)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(m.delay):
	}

	name := s.FileName(surface)
	if m.fail[name] {
		return "", errors.New("simulated failure")
	}
	return "/tmp/" + name + ".png", nil
}

func sceneTasks(t *testing.T, names ...string) []Task {
	t.Helper()
	scenes, err := scene.Select(names)
	require.NoError(t, err)
	return Tasks(scenes, scene.AllSurfaces, false)
}

func TestTasksExpandScenesAndSurfaces(t *testing.T) {
	tasks := sceneTasks(t, "jade", "wood")
	require.Len(t, tasks, 6)
	assert.Equal(t, "TextureJadePlane", tasks[0].Name())
	assert.Equal(t, "TextureJadeSphere", tasks[2].Name())
	assert.Equal(t, "TextureWoodSeamless", tasks[4].Name())
}

func TestPool_BasicExecution(t *testing.T) {
	gen := &mockGenerator{delay: 10 * time.Millisecond}
	pool := New(Config{Workers: 2, Generator: gen})

	tasks := sceneTasks(t, "granite")
	results := pool.Run(context.Background(), tasks)

	require.Len(t, results, len(tasks))
	for _, r := range results {
		assert.NoError(t, r.Err, r.Task.Name())
		assert.Equal(t, "/tmp/"+r.Task.Name()+".png", r.Path)
	}
	assert.Equal(t, int32(len(tasks)), gen.callCount.Load())
}

func TestPool_Parallelism(t *testing.T) {
	gen := &mockGenerator{delay: 50 * time.Millisecond}
	pool := New(Config{Workers: 4, Generator: gen})

	tasks := sceneTasks(t, "granite", "jade")[:4]

	start := time.Now()
	results := pool.Run(context.Background(), tasks)
	elapsed := time.Since(start)

	// Four workers finish four 50ms tasks in about one round.
	assert.Less(t, elapsed, 150*time.Millisecond)
	assert.Len(t, results, len(tasks))
}

func TestPool_ErrorHandling(t *testing.T) {
	gen := &mockGenerator{
		delay: 10 * time.Millisecond,
		fail:  map[string]bool{"TextureSkySeamless": true},
	}
	pool := New(Config{Workers: 2, Generator: gen})

	results := pool.Run(context.Background(), sceneTasks(t, "sky"))
	require.Len(t, results, 3)

	var failed []string
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Task.Name())
		}
	}
	assert.Equal(t, []string{"TextureSkySeamless"}, failed, "other textures still run")
}

func TestPool_Cancellation(t *testing.T) {
	gen := &mockGenerator{delay: 100 * time.Millisecond}
	pool := New(Config{Workers: 2, Generator: gen})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	results := pool.Run(ctx, sceneTasks(t))
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 200*time.Millisecond, "returns early on cancellation")
	assert.NotEmpty(t, results)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestPool_ProgressCallback(t *testing.T) {
	gen := &mockGenerator{delay: 10 * time.Millisecond}

	var calls atomic.Int32
	var lastCompleted, lastTotal int
	pool := New(Config{
		Workers:   2,
		Generator: gen,
		OnProgress: func(completed, total, failed int) {
			calls.Add(1)
			lastCompleted = completed
			lastTotal = total
		},
	})

	tasks := sceneTasks(t, "slime")
	pool.Run(context.Background(), tasks)

	assert.Equal(t, int32(len(tasks)), calls.Load())
	assert.Equal(t, len(tasks), lastCompleted)
	assert.Equal(t, len(tasks), lastTotal)
}

func TestPool_EmptyTasks(t *testing.T) {
	gen := &mockGenerator{}
	pool := New(Config{Generator: gen})

	assert.Empty(t, pool.Run(context.Background(), nil))
	assert.Zero(t, gen.callCount.Load())
}
