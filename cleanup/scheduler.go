package cleanup

import (
	"container/heap"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/op/go-logging"

	"github.com/qrpstudio/media-services/constants"
	"github.com/qrpstudio/media-services/storage"
)

// DeletionTask is one pending storage delete: the key to remove, when
// to try, and how many attempts have already been made.
type DeletionTask struct {
	Key     string
	RunAt   time.Time
	Attempt int

	index int // heap bookkeeping
}

// StateKeeper records deletion-task progress so operators can find
// leaked files later. All calls are best effort; failures never affect
// the deletion itself.
type StateKeeper interface {
	DeletionAttempted(key string, attempt int, lastErr string)
	DeletionSucceeded(key string, attempts int)
	DeletionExhausted(key string, attempts int, lastErr string)
}

// SchedulerSettings control the scheduler's retry policy and directory
// cleanup boundary.
type SchedulerSettings struct {
	// MaxAttempts is the total number of delete attempts for a locked
	// file before the task is abandoned and the file leaks.
	MaxAttempts int

	// BackoffBase is the delay after the first failed attempt; each
	// subsequent delay doubles, capped at BackoffMax.
	BackoffBase time.Duration
	BackoffMax  time.Duration

	// MediaRoot is the absolute boundary for empty-directory cleanup
	// after a successful delete. Empty disables directory cleanup
	// (e.g. for S3-backed storage).
	MediaRoot string
}

// DefaultSchedulerSettings returns the production retry policy:
// min(30s, 500ms * 2^attempt) backoff, eight attempts total.
func DefaultSchedulerSettings(mediaRoot string) SchedulerSettings {
	return SchedulerSettings{
		MaxAttempts: constants.MaxDeleteAttempts,
		BackoffBase: constants.DeleteBackoffBaseMs * time.Millisecond,
		BackoffMax:  constants.DeleteBackoffMaxMs * time.Millisecond,
		MediaRoot:   mediaRoot,
	}
}

// Scheduler owns the deletion queue and its single background worker.
// Construct one per process, hand it to the lifecycle hooks, and call
// Stop (or Drain then Stop, in tests) at shutdown. The queue is
// process-local and not persisted: retries in flight at process exit
// leak their files, a documented limitation.
type Scheduler struct {
	store    storage.Store
	settings SchedulerSettings
	logger   *logging.Logger
	keeper   StateKeeper

	mu      sync.Mutex
	cond    *sync.Cond
	tasks   taskHeap
	started bool
	stopped bool
	active  bool // worker is mid-delete
	done    chan struct{}
}

func NewScheduler(store storage.Store, settings SchedulerSettings, logger *logging.Logger) *Scheduler {
	s := &Scheduler{
		store:    store,
		settings: settings,
		logger:   logger,
		done:     make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// SetStateKeeper attaches an optional best-effort state keeper. Call
// before Start.
func (s *Scheduler) SetStateKeeper(keeper StateKeeper) {
	s.keeper = keeper
}

// Enqueue schedules key for deletion now. Safe for concurrent use.
// The background worker starts lazily on first enqueue.
func (s *Scheduler) Enqueue(key string) {
	s.enqueueAt(key, time.Now(), 0)
	s.Start()
}

func (s *Scheduler) enqueueAt(key string, runAt time.Time, attempt int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		s.logger.Warningf("Deletion scheduler is stopped, dropping task for %s", key)
		return
	}
	heap.Push(&s.tasks, &DeletionTask{Key: key, RunAt: runAt, Attempt: attempt})
	s.cond.Broadcast()
}

// Start launches the background worker. Calling it more than once is
// harmless: the worker is started exactly once per scheduler.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true
	go s.run()
}

// Stop shuts the worker down. Pending tasks are dropped; their files
// leak, which is the same outcome as a process restart.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	wasStarted := s.started
	s.cond.Broadcast()
	s.mu.Unlock()
	if wasStarted {
		<-s.done
	}
}

// Drain blocks until the queue is empty and no delete is in flight.
// Test teardown calls this to observe every retry outcome.
func (s *Scheduler) Drain() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for (len(s.tasks) > 0 || s.active) && !s.stopped {
		s.cond.Wait()
	}
}

// run is the worker loop: pop the earliest-due task, sleep until it is
// due, attempt the delete.
func (s *Scheduler) run() {
	defer close(s.done)
	for {
		task, ok := s.nextDueTask()
		if !ok {
			return
		}
		s.attemptDelete(task)

		s.mu.Lock()
		s.active = false
		s.cond.Broadcast()
		s.mu.Unlock()
	}
}

// nextDueTask blocks until a task is due or the scheduler stops. It
// marks the worker active before returning a task so Drain cannot slip
// in between pop and delete.
func (s *Scheduler) nextDueTask() (*DeletionTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		if s.stopped {
			return nil, false
		}
		if len(s.tasks) == 0 {
			s.cond.Wait()
			continue
		}
		now := time.Now()
		earliest := s.tasks[0]
		if earliest.RunAt.After(now) {
			// Not due yet. Arrange a wakeup and wait; a new earlier
			// task or Stop also wakes us.
			wait := earliest.RunAt.Sub(now)
			timer := time.AfterFunc(wait, func() {
				s.mu.Lock()
				s.cond.Broadcast()
				s.mu.Unlock()
			})
			s.cond.Wait()
			timer.Stop()
			continue
		}
		task := heap.Pop(&s.tasks).(*DeletionTask)
		s.active = true
		return task, true
	}
}

// attemptDelete performs one delete attempt and decides the task's
// fate: done, retry with backoff, or abandoned.
func (s *Scheduler) attemptDelete(task *DeletionTask) {
	err := s.store.Delete(context.Background(), task.Key)
	if err == nil {
		s.logger.Infof("Deleted stored file %s (attempt %d)", task.Key, task.Attempt+1)
		if s.keeper != nil {
			s.keeper.DeletionSucceeded(task.Key, task.Attempt+1)
		}
		s.cleanupParentDirs(task.Key)
		return
	}

	if storage.IsLocked(err) {
		nextAttempt := task.Attempt + 1
		if s.keeper != nil {
			s.keeper.DeletionAttempted(task.Key, nextAttempt, err.Error())
		}
		if nextAttempt < s.settings.MaxAttempts {
			delay := BackoffDelay(task.Attempt, s.settings.BackoffBase, s.settings.BackoffMax)
			s.logger.Warningf("Stored file %s is locked, retrying in %s (attempt %d/%d): %v",
				task.Key, delay, nextAttempt, s.settings.MaxAttempts, err)
			s.enqueueAt(task.Key, time.Now().Add(delay), nextAttempt)
			return
		}
		s.logger.Warningf("Giving up on stored file %s after %d attempts: %v",
			task.Key, nextAttempt, err)
		if s.keeper != nil {
			s.keeper.DeletionExhausted(task.Key, nextAttempt, err.Error())
		}
		return
	}

	// Non-transient: file already gone, permissions wrong, etc.
	// Retrying won't help.
	s.logger.Warningf("Could not delete stored file %s: %v", task.Key, err)
	if s.keeper != nil {
		s.keeper.DeletionExhausted(task.Key, task.Attempt+1, err.Error())
	}
}

// BackoffDelay returns the retry delay after the given zero-based
// attempt: min(max, base * 2^attempt).
func BackoffDelay(attempt int, base, max time.Duration) time.Duration {
	delay := base << uint(attempt)
	if delay > max || delay <= 0 {
		return max
	}
	return delay
}

// dirStopReason says why the upward directory-cleanup walk stopped.
type dirStopReason int

const (
	stopReachedRoot dirStopReason = iota
	stopDirNotEmpty
	stopNoLocalPath
	stopOutsideRoot
	stopRemoveFailed
)

// cleanupParentDirs removes now-empty parent directories of the
// deleted file, walking upward and stopping at the media root. The
// root itself is never removed, and nothing outside it is touched.
func (s *Scheduler) cleanupParentDirs(key string) {
	if s.settings.MediaRoot == "" {
		return
	}
	fullPath, err := s.store.ResolvePath(key)
	if err != nil {
		if !errors.Is(err, storage.ErrNoLocalPath) {
			s.logger.Warningf("Could not resolve path for %s: %v", key, err)
		}
		return
	}
	reason := removeEmptyDirs(filepath.Dir(fullPath), s.settings.MediaRoot)
	switch reason {
	case stopOutsideRoot:
		s.logger.Warningf("Directory cleanup for %s started outside media root, skipped", key)
	case stopRemoveFailed:
		s.logger.Debugf("Directory cleanup for %s stopped on unremovable directory", key)
	}
}

// removeEmptyDirs walks from startDir toward root, removing each empty
// directory, and returns the typed reason the walk stopped.
func removeEmptyDirs(startDir, root string) dirStopReason {
	current, err := filepath.Abs(startDir)
	if err != nil {
		return stopRemoveFailed
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return stopRemoveFailed
	}
	for {
		if current == absRoot {
			return stopReachedRoot
		}
		if !strings.HasPrefix(current, absRoot+string(os.PathSeparator)) {
			return stopOutsideRoot
		}
		err = os.Remove(current)
		if err != nil {
			// Remove refuses to delete non-empty directories, which
			// is the normal end of the walk.
			if os.IsPermission(err) {
				return stopRemoveFailed
			}
			return stopDirNotEmpty
		}
		current = filepath.Dir(current)
	}
}

// taskHeap is a min-heap of deletion tasks ordered by due time.
type taskHeap []*DeletionTask

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool { return h[i].RunAt.Before(h[j].RunAt) }

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x interface{}) {
	task := x.(*DeletionTask)
	task.index = len(*h)
	*h = append(*h, task)
}

func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	task := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return task
}
