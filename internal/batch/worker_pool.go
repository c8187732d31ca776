// Package batch scans many independent texts in parallel. Each task gets
// its own collector; the only thing workers share is the extractor, which
// is read-only.
package batch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/btraven00/linkdex/internal/extractor"
)

// WorkerPool manages parallel URL extraction tasks.
type WorkerPool struct {
	ctx            context.Context
	extractor      *extractor.URLExtractor
	logger         *zap.Logger
	tasks          chan Task
	results        chan TaskResult
	progressChan   chan ProgressUpdate
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	numWorkers     int
	totalTasks     int
	completedTasks int
	mu             sync.RWMutex
	submitMu       sync.RWMutex
	closed         bool
	closeOnce      sync.Once
}

// ErrPoolClosed is returned when a task is submitted after Wait or Shutdown.
var ErrPoolClosed = errors.New("worker pool is closed")

// Task is one text to scan.
type Task struct {
	ID   string
	Name string
	Text string
	// Limit bounds the number of distinct URLs; extractor.Unlimited for none.
	Limit int
}

// TaskResult is the outcome of a Task. Texts holds the kept URLs as they
// were found in the text, in the same order as URLs.
type TaskResult struct {
	Error     error
	Task      Task
	URLs      []*url.URL
	Texts     []string
	Malformed []string
	Elapsed   time.Duration
}

// ProgressUpdate provides progress information.
type ProgressUpdate struct {
	TaskID      string
	Name        string
	Status      TaskStatus
	Message     string
	Completed   int
	Total       int
	ElapsedTime time.Duration
}

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// NewWorkerPool creates a pool of numWorkers workers sharing e. A nil
// logger discards output.
func NewWorkerPool(numWorkers int, e *extractor.URLExtractor, logger *zap.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 4
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	if e == nil {
		e = extractor.New(extractor.WithLogger(logger))
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		extractor:    e,
		logger:       logger,
		numWorkers:   numWorkers,
		tasks:        make(chan Task, numWorkers*2),
		results:      make(chan TaskResult, numWorkers*2),
		progressChan: make(chan ProgressUpdate, 100),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start launches the workers.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)

		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(workerID int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case task, ok := <-wp.tasks:
			if !ok {
				return
			}

			wp.processTask(workerID, task)
		}
	}
}

func (wp *WorkerPool) processTask(workerID int, task Task) {
	start := time.Now()

	wp.sendProgress(ProgressUpdate{
		TaskID:  task.ID,
		Name:    task.Name,
		Status:  TaskStatusProcessing,
		Message: fmt.Sprintf("Worker %d started processing", workerID),
	})

	result := wp.scan(task)
	result.Elapsed = time.Since(start)

	wp.mu.Lock()
	wp.completedTasks++
	completed := wp.completedTasks
	total := wp.totalTasks
	wp.mu.Unlock()

	status := TaskStatusCompleted
	message := fmt.Sprintf("Worker %d completed in %v", workerID, result.Elapsed)

	if result.Error != nil {
		status = TaskStatusFailed
		message = fmt.Sprintf("Worker %d failed: %v", workerID, result.Error)

		wp.logger.Warn("task failed", zap.String("task", task.ID), zap.Error(result.Error))
	}

	wp.sendProgress(ProgressUpdate{
		TaskID:      task.ID,
		Name:        task.Name,
		Status:      status,
		Completed:   completed,
		Total:       total,
		ElapsedTime: result.Elapsed,
		Message:     message,
	})

	wp.results <- result
}

func (wp *WorkerPool) scan(task Task) TaskResult {
	collector := extractor.NewCollector(wp.logger)

	if task.Limit != extractor.Unlimited {
		var err error

		collector, err = extractor.NewLimitedCollector(task.Limit, wp.logger)
		if err != nil {
			return TaskResult{Task: task, Error: err}
		}
	}

	wp.extractor.Scan(task.Text, collector)

	return TaskResult{
		Task:      task,
		URLs:      collector.URLs(),
		Texts:     collector.Texts(),
		Malformed: collector.Malformed(),
	}
}

// sendProgress drops the update when nobody is keeping up with the channel.
func (wp *WorkerPool) sendProgress(update ProgressUpdate) {
	select {
	case wp.progressChan <- update:
	default:
	}
}

// SubmitTask queues a task. It blocks while the queue is full.
func (wp *WorkerPool) SubmitTask(task Task) error {
	wp.submitMu.RLock()
	defer wp.submitMu.RUnlock()

	if wp.closed || wp.ctx.Err() != nil {
		return ErrPoolClosed
	}

	wp.mu.Lock()
	wp.totalTasks++
	wp.mu.Unlock()

	wp.sendProgress(ProgressUpdate{
		TaskID:  task.ID,
		Name:    task.Name,
		Status:  TaskStatusPending,
		Message: "Task queued for processing",
	})

	select {
	case wp.tasks <- task:
		return nil
	case <-wp.ctx.Done():
		return ErrPoolClosed
	}
}

// SubmitBatch submits multiple tasks at once, stopping at the first error.
func (wp *WorkerPool) SubmitBatch(tasks []Task) error {
	for _, task := range tasks {
		if err := wp.SubmitTask(task); err != nil {
			return err
		}
	}

	return nil
}

// Results returns the results channel.
func (wp *WorkerPool) Results() <-chan TaskResult {
	return wp.results
}

// Progress returns the progress channel.
func (wp *WorkerPool) Progress() <-chan ProgressUpdate {
	return wp.progressChan
}

// Wait closes the task queue, waits for the workers and closes the output
// channels. Later calls return once the first has finished.
func (wp *WorkerPool) Wait() {
	wp.closeOnce.Do(func() {
		wp.submitMu.Lock()
		wp.closed = true
		close(wp.tasks)
		wp.submitMu.Unlock()

		wp.wg.Wait()
		close(wp.results)
		close(wp.progressChan)
	})
}

// Shutdown stops the workers without waiting for queued tasks.
func (wp *WorkerPool) Shutdown() {
	wp.cancel()
	wp.Wait()
}

// GetStats returns current processing statistics.
func (wp *WorkerPool) GetStats() WorkerPoolStats {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	return WorkerPoolStats{
		TotalTasks:     wp.totalTasks,
		CompletedTasks: wp.completedTasks,
		PendingTasks:   wp.totalTasks - wp.completedTasks,
		NumWorkers:     wp.numWorkers,
	}
}

// WorkerPoolStats provides statistics about the worker pool.
type WorkerPoolStats struct {
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	PendingTasks   int `json:"pending_tasks"`
	NumWorkers     int `json:"num_workers"`
}

// Run scans all tasks with numWorkers workers and returns the results in
// task order. Task IDs must be unique. onProgress, when not nil, receives
// every progress update from the pool's goroutine.
func Run(tasks []Task, numWorkers int, e *extractor.URLExtractor, logger *zap.Logger, onProgress func(ProgressUpdate)) []TaskResult {
	pool := NewWorkerPool(numWorkers, e, logger)
	pool.Start()

	drained := make(chan struct{})

	go func() {
		defer close(drained)

		for update := range pool.Progress() {
			if onProgress != nil {
				onProgress(update)
			}
		}
	}()

	go func() {
		if err := pool.SubmitBatch(tasks); err != nil {
			pool.logger.Warn("batch submission stopped", zap.Error(err))
		}

		pool.Wait()
	}()

	index := make(map[string]int, len(tasks))
	for i, task := range tasks {
		index[task.ID] = i
	}

	ordered := make([]TaskResult, len(tasks))
	for result := range pool.Results() {
		ordered[index[result.Task.ID]] = result
	}

	<-drained

	return ordered
}
