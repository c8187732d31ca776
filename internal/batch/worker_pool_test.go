package batch

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/btraven00/linkdex/internal/extractor"
)

func TestNewWorkerPool(t *testing.T) {
	pool := NewWorkerPool(4, nil, nil)
	if pool == nil {
		t.Fatal("NewWorkerPool returned nil")
	}

	if pool.numWorkers != 4 {
		t.Errorf("Expected 4 workers, got %d", pool.numWorkers)
	}

	if pool.tasks == nil || pool.results == nil || pool.progressChan == nil {
		t.Error("Channels not initialized")
	}

	if pool.extractor == nil {
		t.Error("Expected a default extractor")
	}

	pool.Shutdown()
}

func TestNewWorkerPoolDefaultWorkers(t *testing.T) {
	pool := NewWorkerPool(0, nil, nil)
	defer pool.Shutdown()

	if pool.numWorkers != 4 {
		t.Errorf("Expected default of 4 workers, got %d", pool.numWorkers)
	}
}

func TestWorkerPoolProcessing(t *testing.T) {
	tasks := []Task{
		{ID: "a", Name: "a.txt", Text: "see example.com and example.org"},
		{ID: "b", Name: "b.txt", Text: "nothing here"},
		{ID: "c", Name: "c.txt", Text: "one.com two.com three.com", Limit: 1},
	}

	pool := NewWorkerPool(2, extractor.New(), nil)

	var (
		progressUpdates []ProgressUpdate
		progressMu      sync.Mutex
		wg              sync.WaitGroup
	)

	wg.Add(1)

	go func() {
		defer wg.Done()

		for update := range pool.Progress() {
			progressMu.Lock()
			progressUpdates = append(progressUpdates, update)
			progressMu.Unlock()
		}
	}()

	pool.Start()
	pool.SubmitBatch(tasks)

	results := make(map[string]TaskResult)
	for i := 0; i < len(tasks); i++ {
		result := <-pool.Results()
		results[result.Task.ID] = result
	}

	pool.Wait()
	wg.Wait()

	if got := len(results["a"].URLs); got != 2 {
		t.Errorf("Expected 2 URLs for task a, got %d", got)
	}

	if got := len(results["b"].URLs); got != 0 {
		t.Errorf("Expected no URLs for task b, got %d", got)
	}

	if got := len(results["c"].URLs); got != 1 {
		t.Errorf("Expected limit of 1 URL for task c, got %d", got)
	}

	for id, result := range results {
		if result.Error != nil {
			t.Errorf("Task %s failed: %v", id, result.Error)
		}
	}

	stats := pool.GetStats()
	if stats.TotalTasks != 3 || stats.CompletedTasks != 3 || stats.PendingTasks != 0 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	progressMu.Lock()
	defer progressMu.Unlock()

	completed := 0

	for _, update := range progressUpdates {
		if update.Status == TaskStatusCompleted {
			completed++
		}
	}

	if completed != len(tasks) {
		t.Errorf("Expected %d completed updates, got %d", len(tasks), completed)
	}
}

func TestWorkerPoolInvalidLimit(t *testing.T) {
	results := Run([]Task{{ID: "bad", Text: "example.com", Limit: -2}}, 1, nil, nil, nil)

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}

	if !errors.Is(results[0].Error, extractor.ErrInvalidLimit) {
		t.Errorf("Expected ErrInvalidLimit, got %v", results[0].Error)
	}
}

func TestRunPreservesTaskOrder(t *testing.T) {
	var tasks []Task

	for i := 0; i < 20; i++ {
		tasks = append(tasks, Task{
			ID:   fmt.Sprintf("task-%d", i),
			Text: fmt.Sprintf("host%d.example.com", i),
		})
	}

	tracker := NewProgressTracker()
	results := Run(tasks, 4, extractor.New(), nil, tracker.Update)

	for i, result := range results {
		if result.Task.ID != tasks[i].ID {
			t.Fatalf("Result %d belongs to %s", i, result.Task.ID)
		}

		want := fmt.Sprintf("http://host%d.example.com", i)
		if len(result.URLs) != 1 || result.URLs[0].String() != want {
			t.Errorf("Task %d: expected %s, got %v", i, want, result.URLs)
		}

		tracker.RecordResult(result)
	}

	summary := tracker.GetSummary()
	if summary.TotalURLs != 20 {
		t.Errorf("Expected 20 URLs in summary, got %d", summary.TotalURLs)
	}
}

func TestRunKeepsLonePercent(t *testing.T) {
	results := Run([]Task{{ID: "m", Text: "http://example.com/a%zz"}}, 1, nil, nil, nil)

	if len(results[0].Malformed) != 0 {
		t.Errorf("Expected no malformed candidates, got %v", results[0].Malformed)
	}

	if len(results[0].Texts) != 1 || results[0].Texts[0] != "http://example.com/a%zz" {
		t.Errorf("Unexpected texts: %v", results[0].Texts)
	}

	if len(results[0].URLs) != 1 || results[0].URLs[0].Path != "/a%zz" {
		t.Errorf("Unexpected URLs: %v", results[0].URLs)
	}
}

func TestProgressTracker(t *testing.T) {
	tracker := NewProgressTracker()

	tracker.Update(ProgressUpdate{TaskID: "1", Status: TaskStatusCompleted})
	tracker.Update(ProgressUpdate{TaskID: "2", Status: TaskStatusFailed})
	tracker.Update(ProgressUpdate{TaskID: "3", Status: TaskStatusProcessing})

	summary := tracker.GetSummary()
	if summary.TotalTasks != 3 {
		t.Errorf("Expected 3 tasks, got %d", summary.TotalTasks)
	}

	if summary.UpdateCount != 3 {
		t.Errorf("Expected 3 updates, got %d", summary.UpdateCount)
	}

	var buf bytes.Buffer

	tracker.PrintProgress(&buf)

	out := buf.String()
	if !strings.Contains(out, "2/3 completed") {
		t.Errorf("Unexpected progress line: %q", out)
	}

	if !strings.Contains(out, "(1 failed)") {
		t.Errorf("Expected failure count in %q", out)
	}
}

func TestWorkerPoolWaitThenShutdown(t *testing.T) {
	pool := NewWorkerPool(2, nil, nil)
	pool.Start()

	if err := pool.SubmitTask(Task{ID: "a", Text: "example.com"}); err != nil {
		t.Fatalf("SubmitTask failed: %v", err)
	}

	go func() {
		for range pool.Progress() {
		}
	}()

	go func() {
		for range pool.Results() {
		}
	}()

	pool.Wait()
	pool.Wait()
	pool.Shutdown()
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := NewWorkerPool(1, nil, nil)
	pool.Start()
	pool.Shutdown()

	if err := pool.SubmitTask(Task{ID: "late", Text: "example.com"}); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Expected ErrPoolClosed after Shutdown, got %v", err)
	}

	if err := pool.SubmitBatch([]Task{{ID: "later"}}); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Expected ErrPoolClosed from SubmitBatch, got %v", err)
	}

	waited := NewWorkerPool(1, nil, nil)
	waited.Start()
	waited.Wait()

	if err := waited.SubmitTask(Task{ID: "late"}); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Expected ErrPoolClosed after Wait, got %v", err)
	}
}
