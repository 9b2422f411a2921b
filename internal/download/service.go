package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytget/video-downloader/internal/model"
	"github.com/ytget/video-downloader/internal/progress"
	"github.com/ytget/video-downloader/internal/site"
	"github.com/ytget/video-downloader/internal/ytdl"
)

// Limits and defaults
const (
	MinParallel       = 1
	MaxParallel       = 10
	DefaultParallel   = 2
	DefaultMaxRetries = 1
	DefaultRetryDelay = 2 * time.Second
	OutputTemplate    = "%(title)s.%(ext)s"
	DownloadDirPerms  = 0o755
	taskIDPrefix      = "task-"
	batchIDPrefix     = "batch-"
)

// Errors
var (
	ErrDuplicateTask = errors.New("task already exists for URL")
	ErrTaskNotFound  = errors.New("task not found")
	ErrUnknownBatch  = errors.New("unknown batch")
)

// Options configures a Service
type Options struct {
	DownloadDir string
	MaxParallel int
	Runner      ytdl.Runner           // nil uses yt-dlp from PATH
	FFmpegPath  string                // passed as --ffmpeg-location when set
	Cookies     func() (string, bool) // cookies.txt lookup for the sign-in retry
	Logger      *zap.Logger
	MaxRetries  int           // transient retries, negative disables
	RetryDelay  time.Duration // backoff between transient retries
}

// Summary counts the final states of a batch
type Summary struct {
	Total     int
	Completed int
	Failed    int
	Stopped   int
	Active    int
}

// Service handles download operations
type Service struct {
	tasks       map[string]*model.DownloadTask
	order       []string
	batches     map[string][]string
	cancels     map[string]context.CancelFunc
	tasksMutex  sync.RWMutex
	changed     chan struct{}
	maxParallel int
	activeCount int
	delivering  int // finished tasks whose final callbacks are still running
	downloadDir string
	ffmpegPath  string
	maxRetries  int
	retryDelay  time.Duration
	runner      ytdl.Runner
	cookies     func() (string, bool)
	logger      *zap.Logger
	onUpdate    func(*model.DownloadTask) // callback for UI updates
	onProgress  func(model.ProgressEvent)
}

// NewService creates a new download service
func NewService(opts Options) *Service {
	s := &Service{
		tasks:       make(map[string]*model.DownloadTask),
		batches:     make(map[string][]string),
		cancels:     make(map[string]context.CancelFunc),
		changed:     make(chan struct{}),
		maxParallel: clampParallel(opts.MaxParallel),
		downloadDir: opts.DownloadDir,
		ffmpegPath:  opts.FFmpegPath,
		maxRetries:  opts.MaxRetries,
		retryDelay:  opts.RetryDelay,
		runner:      opts.Runner,
		cookies:     opts.Cookies,
		logger:      opts.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.runner == nil {
		s.runner = ytdl.NewCommandRunner("", s.logger)
	}
	if s.maxRetries == 0 {
		s.maxRetries = DefaultMaxRetries
	} else if s.maxRetries < 0 {
		s.maxRetries = 0
	}
	if s.retryDelay <= 0 {
		s.retryDelay = DefaultRetryDelay
	}
	return s
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.tasksMutex.Lock()
	s.onUpdate = callback
	s.tasksMutex.Unlock()
}

// SetProgressCallback sets the callback function for progress events
func (s *Service) SetProgressCallback(callback func(model.ProgressEvent)) {
	s.tasksMutex.Lock()
	s.onProgress = callback
	s.tasksMutex.Unlock()
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Service) SetMaxParallelDownloads(max int) {
	s.tasksMutex.Lock()
	s.maxParallel = clampParallel(max)
	started := s.scheduleLocked()
	s.tasksMutex.Unlock()
	s.notifyAll(started)
}

// SetDownloadDirectory sets the default download directory
func (s *Service) SetDownloadDirectory(dir string) {
	s.tasksMutex.Lock()
	s.downloadDir = dir
	s.tasksMutex.Unlock()
}

// SetFFmpegPath sets the ffmpeg binary used by tasks started afterwards
func (s *Service) SetFFmpegPath(path string) {
	s.tasksMutex.Lock()
	s.ffmpegPath = path
	s.tasksMutex.Unlock()
}

// AddTask queues a single URL into the default directory. The platform is
// detected from the URL.
func (s *Service) AddTask(url string) (*model.DownloadTask, error) {
	p, ok := site.Detect(url)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ytdl.ErrPlatformMismatch, url)
	}
	_, tasks, err := s.AddBatch([]string{url}, "", p, false)
	if err != nil {
		return nil, err
	}
	return tasks[0], nil
}

// AddBatch queues one task per URL. URLs already being downloaded are
// skipped; the call fails only when nothing could be queued.
func (s *Service) AddBatch(urls []string, outputDir string, platform model.Platform, playlist bool) (string, []*model.DownloadTask, error) {
	if len(urls) == 0 {
		return "", nil, ytdl.ErrNothingSelected
	}
	clean := make([]string, 0, len(urls))
	for _, raw := range urls {
		url := site.CleanURL(raw)
		if url == "" {
			return "", nil, ytdl.ErrEmptyURL
		}
		if !site.IsValidURLForPlatform(url, platform) {
			return "", nil, fmt.Errorf("%w: %s", ytdl.ErrPlatformMismatch, url)
		}
		clean = append(clean, url)
	}

	if outputDir == "" {
		s.tasksMutex.RLock()
		outputDir = s.downloadDir
		s.tasksMutex.RUnlock()
	}
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, DownloadDirPerms); err != nil {
			return "", nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	batchID := generateID(batchIDPrefix)

	s.tasksMutex.Lock()
	var added []*model.DownloadTask
	for _, url := range clean {
		if s.hasActiveURLLocked(url) {
			s.logger.Warn("skipping duplicate URL", zap.String("url", url))
			continue
		}
		task := &model.DownloadTask{
			ID:        generateID(taskIDPrefix),
			BatchID:   batchID,
			URL:       url,
			Platform:  platform,
			OutputDir: outputDir,
			Playlist:  playlist,
			Status:    model.TaskStatusPending,
			ETASec:    -1,
		}
		s.tasks[task.ID] = task
		s.order = append(s.order, task.ID)
		s.batches[batchID] = append(s.batches[batchID], task.ID)
		added = append(added, task.Clone())
	}
	if len(added) == 0 {
		s.tasksMutex.Unlock()
		return "", nil, fmt.Errorf("%w: %s", ErrDuplicateTask, clean[0])
	}
	started := s.scheduleLocked()
	s.tasksMutex.Unlock()

	s.logger.Info("queued downloads",
		zap.String("batch", batchID),
		zap.String("platform", platform.String()),
		zap.Int("tasks", len(added)),
		zap.String("dir", outputDir),
	)
	s.notifyAll(started)
	return batchID, added, nil
}

// GetTask returns a snapshot of a task by ID
func (s *Service) GetTask(id string) (*model.DownloadTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	if !exists {
		return nil, false
	}
	return task.Clone(), true
}

// GetAllTasks returns snapshots of all tasks in queue order
func (s *Service) GetAllTasks() []*model.DownloadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]*model.DownloadTask, 0, len(s.order))
	for _, id := range s.order {
		tasks = append(tasks, s.tasks[id].Clone())
	}
	return tasks
}

// BatchTasks returns snapshots of the tasks of a batch in queue order
func (s *Service) BatchTasks(batchID string) []*model.DownloadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	ids := s.batches[batchID]
	tasks := make([]*model.DownloadTask, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, s.tasks[id].Clone())
	}
	return tasks
}

// BatchProgress returns aggregate progress of a batch in 0..1. Finished
// tasks count as complete.
func (s *Service) BatchProgress(batchID string) float64 {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	ids := s.batches[batchID]
	if len(ids) == 0 {
		return 0
	}
	var sum float64
	for _, id := range ids {
		task := s.tasks[id]
		if task.Status.IsFinished() {
			sum++
			continue
		}
		sum += task.Progress
	}
	return sum / float64(len(ids))
}

// Summarize counts task outcomes of a batch
func (s *Service) Summarize(batchID string) Summary {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	var sum Summary
	for _, id := range s.batches[batchID] {
		sum.Total++
		switch s.tasks[id].Status {
		case model.TaskStatusCompleted:
			sum.Completed++
		case model.TaskStatusError:
			sum.Failed++
		case model.TaskStatusStopped:
			sum.Stopped++
		default:
			sum.Active++
		}
	}
	return sum
}

// StopTask stops a pending or running task
func (s *Service) StopTask(id string) error {
	s.tasksMutex.Lock()
	task, exists := s.tasks[id]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	switch {
	case task.Status == model.TaskStatusPending:
		task.Status = model.TaskStatusStopped
		task.FinishedAt = time.Now()
		s.broadcastLocked()
	case task.Status.CanStop():
		task.Status = model.TaskStatusStopping
		if cancel, ok := s.cancels[id]; ok {
			cancel()
		}
	default:
		s.tasksMutex.Unlock()
		return fmt.Errorf("task is not active: %s", task.Status)
	}
	snapshot := task.Clone()
	s.tasksMutex.Unlock()

	s.logger.Info("stopping task", zap.String("task", id))
	s.notifyUpdate(snapshot)
	return nil
}

// StopBatch stops every unfinished task of a batch and returns how many
// were asked to stop. Pending tasks are stopped before any slot frees up.
func (s *Service) StopBatch(batchID string) int {
	s.tasksMutex.Lock()
	var snapshots []*model.DownloadTask
	for _, id := range s.batches[batchID] {
		task := s.tasks[id]
		switch {
		case task.Status == model.TaskStatusPending:
			task.Status = model.TaskStatusStopped
			task.FinishedAt = time.Now()
		case task.Status.IsActive():
			task.Status = model.TaskStatusStopping
			if cancel, ok := s.cancels[id]; ok {
				cancel()
			}
		default:
			continue
		}
		snapshots = append(snapshots, task.Clone())
	}
	s.broadcastLocked()
	s.tasksMutex.Unlock()

	s.logger.Info("stopping batch", zap.String("batch", batchID), zap.Int("tasks", len(snapshots)))
	s.notifyAll(snapshots)
	return len(snapshots)
}

// RestartTask queues a stopped or failed task again
func (s *Service) RestartTask(id string) error {
	s.tasksMutex.Lock()
	task, exists := s.tasks[id]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if !task.Status.CanRestart() {
		s.tasksMutex.Unlock()
		return fmt.Errorf("task cannot be restarted in status %s", task.Status)
	}
	if s.hasActiveURLLocked(task.URL) {
		s.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateTask, task.URL)
	}

	task.Status = model.TaskStatusPending
	task.Progress = 0
	task.Percent = 0
	task.Speed = ""
	task.ETASec = -1
	task.LastError = ""
	task.Attempts = 0
	task.UsedCookies = false
	task.FinishedAt = time.Time{}
	snapshot := task.Clone()
	started := s.scheduleLocked()
	s.tasksMutex.Unlock()

	s.logger.Info("restarting task", zap.String("task", id))
	s.notifyUpdate(snapshot)
	s.notifyAll(started)
	return nil
}

// RemoveTask forgets a task that is not running
func (s *Service) RemoveTask(id string) error {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	task, exists := s.tasks[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if task.Status.IsActive() {
		return fmt.Errorf("cannot remove active task: %s", task.Status)
	}

	delete(s.tasks, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	batch := slices.DeleteFunc(s.batches[task.BatchID], func(v string) bool { return v == id })
	if len(batch) == 0 {
		delete(s.batches, task.BatchID)
	} else {
		s.batches[task.BatchID] = batch
	}
	s.broadcastLocked()
	return nil
}

// Wait blocks until every task of the batch is finished or ctx is done
func (s *Service) Wait(ctx context.Context, batchID string) error {
	for {
		s.tasksMutex.RLock()
		ids, ok := s.batches[batchID]
		if !ok {
			s.tasksMutex.RUnlock()
			return fmt.Errorf("%w: %s", ErrUnknownBatch, batchID)
		}
		done := s.delivering == 0
		for _, id := range ids {
			if !s.tasks[id].Status.IsFinished() {
				done = false
				break
			}
		}
		changed := s.changed
		s.tasksMutex.RUnlock()

		if done {
			return nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// scheduleLocked claims pending tasks in queue order up to the parallel
// limit. Callers must hold tasksMutex and pass the result to notifyAll.
func (s *Service) scheduleLocked() []*model.DownloadTask {
	var started []*model.DownloadTask
	for _, id := range s.order {
		if s.activeCount >= s.maxParallel {
			break
		}
		task := s.tasks[id]
		if task.Status != model.TaskStatusPending {
			continue
		}
		ctx, cancel := context.WithCancel(context.Background())
		s.cancels[id] = cancel
		s.activeCount++
		task.Status = model.TaskStatusStarting
		task.StartedAt = time.Now()
		started = append(started, task.Clone())
		go s.startTask(ctx, id)
	}
	return started
}

// startTask downloads one task and then releases its slot
func (s *Service) startTask(ctx context.Context, id string) {
	s.tasksMutex.Lock()
	task := s.tasks[id]
	if task.Status == model.TaskStatusStarting {
		task.Status = model.TaskStatusDownloading
	}
	req := s.buildRequest(task)
	snapshot := task.Clone()
	s.tasksMutex.Unlock()
	s.notifyUpdate(snapshot)

	s.logger.Info("download started",
		zap.String("task", id),
		zap.String("url", snapshot.URL),
		zap.String("platform", snapshot.Platform.String()),
	)

	var (
		res *ytdl.Result
		err error
	)
	if ctx.Err() == nil {
		res, err = s.downloadWithRetry(ctx, id, req)
	} else {
		err = ctx.Err()
	}

	s.tasksMutex.Lock()
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		task.Status = model.TaskStatusStopped
	case err != nil:
		task.Status = model.TaskStatusError
		task.LastError = err.Error()
	default:
		task.Status = model.TaskStatusCompleted
		task.Progress = 1.0
		task.Percent = 100
		task.ETASec = 0
		if res != nil && res.Filename != "" {
			task.OutputPath = res.Filename
		}
	}
	task.FinishedAt = time.Now()
	if cancel, ok := s.cancels[id]; ok {
		cancel()
		delete(s.cancels, id)
	}
	s.activeCount--
	snapshot = task.Clone()
	started := s.scheduleLocked()
	s.delivering++
	s.tasksMutex.Unlock()

	if err != nil && snapshot.Status == model.TaskStatusError {
		s.logger.Error("download failed", zap.String("task", id), zap.String("url", snapshot.URL), zap.Error(err))
	} else {
		s.logger.Info("download finished",
			zap.String("task", id),
			zap.String("status", snapshot.Status.String()),
			zap.String("output", snapshot.OutputPath),
		)
	}
	if snapshot.Status == model.TaskStatusCompleted {
		s.notifyProgress(model.ProgressEvent{
			TaskID:   id,
			BatchID:  snapshot.BatchID,
			URL:      snapshot.URL,
			Status:   model.ProgressFinished,
			Percent:  100,
			Filename: snapshot.OutputPath,
		})
	}
	s.notifyUpdate(snapshot)
	s.notifyAll(started)

	// Wait callers wake only after the final callbacks were delivered
	s.tasksMutex.Lock()
	s.delivering--
	s.broadcastLocked()
	s.tasksMutex.Unlock()
}

// buildRequest maps a task onto yt-dlp options. Callers hold tasksMutex.
func (s *Service) buildRequest(task *model.DownloadTask) ytdl.Request {
	profile, _ := site.ProfileFor(task.Platform)
	output := OutputTemplate
	if task.OutputDir != "" {
		output = filepath.Join(task.OutputDir, OutputTemplate)
	}
	id := task.ID
	return ytdl.Request{
		URL:               task.URL,
		Format:            profile.Format,
		MergeOutputFormat: profile.MergeOutputFormat,
		OutputTemplate:    output,
		NoPlaylist:        true,
		FFmpegLocation:    s.ffmpegPath,
		OnProgress: func(p ytdl.Progress) {
			s.updateTaskProgress(id, p)
		},
	}
}

// downloadWithRetry attempts download with retry logic. Not-found and
// sign-in failures are permanent; other failures get maxRetries more tries.
func (s *Service) downloadWithRetry(ctx context.Context, id string, req ytdl.Request) (*ytdl.Result, error) {
	var (
		lastErr error
		result  *ytdl.Result
	)

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.retryDelay):
			case <-ctx.Done():
				return result, ctx.Err()
			}
			s.logger.Info("retrying download", zap.String("task", id), zap.Int("attempt", attempt+1))
		}

		res, err := s.runWithCookieRetry(ctx, id, &req)
		if err == nil {
			return res, nil
		}

		lastErr = err
		result = res
		s.logger.Warn("download attempt failed", zap.String("task", id), zap.Int("attempt", attempt+1), zap.Error(err))

		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if ytdl.IsNotFound(err) {
			break
		}
	}

	return result, lastErr
}

// runWithCookieRetry runs yt-dlp once, and once more with cookies.txt when
// the platform asks the user to sign in. A located cookie file sticks to req
// for later attempts.
func (s *Service) runWithCookieRetry(ctx context.Context, id string, req *ytdl.Request) (*ytdl.Result, error) {
	res, err := s.run(ctx, id, *req)
	if err == nil || req.CookieFile != "" || s.cookies == nil || ctx.Err() != nil {
		return res, err
	}

	s.tasksMutex.RLock()
	platform := s.tasks[id].Platform
	s.tasksMutex.RUnlock()

	profile, ok := site.ProfileFor(platform)
	if !ok || !profile.CookieRetry || !ytdl.IsAuthRequired(err) {
		return res, err
	}
	path, found := s.cookies()
	if !found {
		return res, err
	}

	s.logger.Info("retrying download with cookies", zap.String("task", id), zap.String("cookies", path))
	req.CookieFile = path
	s.tasksMutex.Lock()
	s.tasks[id].UsedCookies = true
	s.tasksMutex.Unlock()
	return s.run(ctx, id, *req)
}

func (s *Service) run(ctx context.Context, id string, req ytdl.Request) (*ytdl.Result, error) {
	s.tasksMutex.Lock()
	s.tasks[id].Attempts++
	s.tasksMutex.Unlock()

	res, err := s.runner.Run(ctx, req)
	if err != nil {
		wrapped := &ytdl.Error{Op: "download", URL: req.URL, Err: err}
		if res != nil {
			wrapped.Stderr = res.Stderr
		}
		return res, wrapped
	}
	return res, nil
}

// updateTaskProgress updates task progress from a yt-dlp progress update
func (s *Service) updateTaskProgress(id string, p ytdl.Progress) {
	s.tasksMutex.Lock()
	task, ok := s.tasks[id]
	if !ok {
		s.tasksMutex.Unlock()
		return
	}

	percent := p.Percent()
	if percent >= 0 {
		task.Percent = int(percent)
		task.Progress = percent / 100.0
	}
	speed := progress.FormatSpeed(p.BytesPerSecond())
	task.Speed = speed
	if p.ETA > 0 {
		task.ETASec = int(p.ETA.Seconds())
	}
	if p.Title != "" && task.Title == "" {
		task.Title = p.Title
	}
	if p.Filename != "" {
		task.OutputPath = p.Filename
	}
	if p.TotalBytes > 0 {
		task.FileSize = int64(p.TotalBytes)
	}
	snapshot := task.Clone()
	s.tasksMutex.Unlock()

	status := model.ProgressDownloading
	if p.Status == model.ProgressFinished {
		status = model.ProgressFinished
	}
	s.notifyProgress(model.ProgressEvent{
		TaskID:   id,
		BatchID:  snapshot.BatchID,
		URL:      snapshot.URL,
		Status:   status,
		Percent:  percent,
		Speed:    speed,
		ETASec:   snapshot.ETASec,
		Filename: p.Filename,
	})
	s.notifyUpdate(snapshot)
}

func (s *Service) hasActiveURLLocked(url string) bool {
	for _, task := range s.tasks {
		if task.URL == url && !task.Status.IsFinished() {
			return true
		}
	}
	return false
}

// broadcastLocked wakes Wait callers. Callers must hold tasksMutex.
func (s *Service) broadcastLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.DownloadTask) {
	s.tasksMutex.RLock()
	callback := s.onUpdate
	s.tasksMutex.RUnlock()
	if callback != nil {
		callback(task)
	}
}

func (s *Service) notifyAll(tasks []*model.DownloadTask) {
	for _, task := range tasks {
		s.notifyUpdate(task)
	}
}

func (s *Service) notifyProgress(ev model.ProgressEvent) {
	s.tasksMutex.RLock()
	callback := s.onProgress
	s.tasksMutex.RUnlock()
	if callback != nil {
		callback(ev)
	}
}

func clampParallel(n int) int {
	if n <= 0 {
		return DefaultParallel
	}
	return max(MinParallel, min(n, MaxParallel))
}

// generateID returns prefix followed by a time-ordered UUID
func generateID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return prefix + id.String()
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	return generateID(taskIDPrefix)
}
