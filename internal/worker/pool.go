// Package worker provides a parallel texture generation worker pool.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/MeKo-Tech/noisetex/internal/scene"
)

// Generator is the interface for texture generation.
// This matches the signature of pipeline.Generator.Generate.
type Generator interface {
	Generate(ctx context.Context, s scene.Scene, surface scene.Surface, force bool) (path string, err error)
}

// Task represents a single texture generation task.
type Task struct {
	Scene   scene.Scene
	Surface scene.Surface
	Force   bool
}

// Name returns the texture name, e.g. "TextureJadeSphere".
func (t Task) Name() string { return t.Scene.FileName(t.Surface) }

// Tasks expands scenes and surfaces into one task per texture, scene-major.
func Tasks(scenes []scene.Scene, surfaces []scene.Surface, force bool) []Task {
	tasks := make([]Task, 0, len(scenes)*len(surfaces))
	for _, s := range scenes {
		for _, surface := range surfaces {
			tasks = append(tasks, Task{Scene: s, Surface: surface, Force: force})
		}
	}
	return tasks
}

// Result represents the outcome of a texture generation task.
type Result struct {
	Task    Task
	Path    string
	Err     error
	Elapsed time.Duration
}

// ProgressFunc is called after each task completes.
type ProgressFunc func(completed, total, failed int)

// Config configures the worker pool.
type Config struct {
	Workers    int
	Generator  Generator
	OnProgress ProgressFunc
}

// Pool manages parallel texture generation.
type Pool struct {
	workers    int
	generator  Generator
	onProgress ProgressFunc
}

// New creates a new worker pool.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Pool{
		workers:    workers,
		generator:  cfg.Generator,
		onProgress: cfg.OnProgress,
	}
}

// Run executes all tasks and returns results in completion order.
// A failing task does not stop the others. The function blocks until all
// tasks complete or the context is cancelled; tasks never handed to a worker
// are not reported.
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	taskCh := make(chan Task, len(tasks))
	resultCh := make(chan Result, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, taskCh, resultCh)
		}()
	}

	go func() {
		defer close(taskCh)
		for _, task := range tasks {
			select {
			case taskCh <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	results := make([]Result, 0, len(tasks))
	done := make(chan struct{})

	go func() {
		var completed, failed int
		for result := range resultCh {
			results = append(results, result)

			completed++
			if result.Err != nil {
				failed++
			}
			if p.onProgress != nil {
				p.onProgress(completed, len(tasks), failed)
			}
		}
		close(done)
	}()

	wg.Wait()
	close(resultCh)
	<-done

	return results
}

// worker processes tasks from the task channel and sends results to the result channel.
func (p *Pool) worker(ctx context.Context, tasks <-chan Task, results chan<- Result) {
	for task := range tasks {
		if err := ctx.Err(); err != nil {
			results <- Result{Task: task, Err: err}
			continue
		}

		start := time.Now()
		path, err := p.generator.Generate(ctx, task.Scene, task.Surface, task.Force)
		results <- Result{
			Task:    task,
			Path:    path,
			Err:     err,
			Elapsed: time.Since(start),
		}
	}
}
