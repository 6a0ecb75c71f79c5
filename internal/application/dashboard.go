package application

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bnema/devicepool-cli/internal/domain"
	"github.com/bnema/devicepool-cli/internal/ports"
	"github.com/rs/zerolog/log"
)

const DefaultPollInterval = 10 * time.Second

// DashboardState is a copy of what the dashboard shows. Loading and
// Submitting are independent and may both be set.
type DashboardState struct {
	Pool        domain.PoolStatus
	Tasks       []domain.Task
	Code        string
	File        *SelectedFile
	Loading     bool
	Submitting  bool
	Error       string
	FocusTasks  bool
	LastRefresh time.Time
}

// SelectedFile describes the file staged for upload.
type SelectedFile struct {
	Name        string
	ContentType string
	Size        int64
}

type Dashboard struct {
	remote    ports.RemoteService
	history   ports.HistoryRepository
	snapshots ports.SnapshotLog
	clock     ports.Clock
	interval  time.Duration

	mu          sync.Mutex
	state       DashboardState
	fileData    []byte
	subscribers []chan DashboardState
}

// NewDashboard wires the dashboard. history and snapshots are optional.
func NewDashboard(remote ports.RemoteService, history ports.HistoryRepository, snapshots ports.SnapshotLog, clock ports.Clock, interval time.Duration) *Dashboard {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Dashboard{
		remote:    remote,
		history:   history,
		snapshots: snapshots,
		clock:     clock,
		interval:  interval,
		state:     DashboardState{Tasks: []domain.Task{}},
	}
}

func (d *Dashboard) PollInterval() time.Duration {
	return d.interval
}

func (d *Dashboard) State() DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

// Subscribe returns a channel that receives the latest state after every
// change. Unread states are replaced, never queued.
func (d *Dashboard) Subscribe() <-chan DashboardState {
	ch := make(chan DashboardState, 1)

	d.mu.Lock()
	d.subscribers = append(d.subscribers, ch)
	d.mu.Unlock()

	return ch
}

// Refresh fetches pool status and tasks once and replaces both.
func (d *Dashboard) Refresh(ctx context.Context) {
	d.refresh(ctx)
}

func (d *Dashboard) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	d.mu.Lock()
	d.state.Loading = true
	d.publishLocked()
	d.mu.Unlock()

	status := d.remote.GetStatus(ctx)
	tasks := d.remote.GetTasks(ctx)
	observedAt := d.clock.Now()

	d.mu.Lock()
	if ctx.Err() != nil {
		// Results of a cancelled poll are dropped.
		d.state.Loading = false
		d.mu.Unlock()
		return
	}
	d.state.Pool = status
	d.state.Tasks = tasks
	d.state.Loading = false
	d.state.LastRefresh = observedAt
	d.publishLocked()
	d.mu.Unlock()

	d.recordSnapshot(ctx, domain.PoolSnapshot{Status: status, ObservedAt: observedAt})
}

// RefreshPool fetches only the pool status. Tasks are left untouched.
func (d *Dashboard) RefreshPool(ctx context.Context) domain.PoolStatus {
	status := d.remote.GetStatus(ctx)
	observedAt := d.clock.Now()

	d.mu.Lock()
	if ctx.Err() != nil {
		d.mu.Unlock()
		return status
	}
	d.state.Pool = status
	d.state.LastRefresh = observedAt
	d.publishLocked()
	d.mu.Unlock()

	d.recordSnapshot(ctx, domain.PoolSnapshot{Status: status, ObservedAt: observedAt})
	return status
}

func (d *Dashboard) recordSnapshot(ctx context.Context, snapshot domain.PoolSnapshot) {
	if d.snapshots == nil || snapshot.Status.IsZero() {
		return
	}
	if err := d.snapshots.Record(ctx, snapshot); err != nil {
		log.Warn().Err(err).Msg("record pool snapshot failed")
	}
}

func (d *Dashboard) SetCode(code string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Code = code
	d.publishLocked()
}

// SelectFile validates and stages a file. A rejected file clears any
// previous selection and sets the error message.
func (d *Dashboard) SelectFile(file domain.FileInput) error {
	err := domain.ValidateFile(file)

	var data []byte
	if err == nil {
		data, err = readFileInput(file)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.publishLocked()

	if err != nil {
		d.state.File = nil
		d.fileData = nil
		d.state.Error = err.Error()
		return err
	}

	d.state.File = &SelectedFile{Name: file.Name, ContentType: file.ContentType, Size: int64(len(data))}
	d.fileData = data
	d.state.Error = ""
	return nil
}

func (d *Dashboard) ClearFile() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.File = nil
	d.fileData = nil
	d.publishLocked()
}

func (d *Dashboard) SetFocusTasks(focus bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.FocusTasks = focus
	d.publishLocked()
}

// Submit sends the staged code and file. On success the returned task is
// put at the head of the list and the form is cleared.
func (d *Dashboard) Submit(ctx context.Context) (domain.Task, error) {
	d.mu.Lock()
	code := d.state.Code
	var file *domain.FileInput
	if d.state.File != nil {
		file = &domain.FileInput{
			Name:        d.state.File.Name,
			ContentType: d.state.File.ContentType,
			Size:        d.state.File.Size,
			Content:     bytes.NewReader(d.fileData),
		}
	}
	if strings.TrimSpace(code) == "" && file == nil {
		d.state.Error = domain.ErrEmptySubmission.Error()
		d.publishLocked()
		d.mu.Unlock()
		return domain.Task{}, domain.ErrEmptySubmission
	}
	d.state.Submitting = true
	d.state.Error = ""
	d.publishLocked()
	d.mu.Unlock()

	task, err := d.remote.SubmitTask(ctx, code, file)
	submittedAt := d.clock.Now()

	d.mu.Lock()
	d.state.Submitting = false
	if err != nil {
		d.state.Error = err.Error()
		d.publishLocked()
		d.mu.Unlock()
		return domain.Task{}, err
	}
	d.state.Tasks = append([]domain.Task{task}, d.state.Tasks...)
	d.state.Code = ""
	d.state.File = nil
	d.fileData = nil
	d.state.FocusTasks = true
	d.publishLocked()
	d.mu.Unlock()

	if d.history != nil {
		if err := d.history.Append(ctx, domain.NewHistoryEntry(task, submittedAt)); err != nil {
			log.Warn().Err(err).Str("task_id", task.ID).Msg("append submission history failed")
		}
	}

	return task, nil
}

// Reset drops everything fetched or staged, as after a logout.
func (d *Dashboard) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = DashboardState{Tasks: []domain.Task{}}
	d.fileData = nil
	d.publishLocked()
}

func (d *Dashboard) snapshotLocked() DashboardState {
	state := d.state
	state.Tasks = append([]domain.Task(nil), d.state.Tasks...)
	if d.state.File != nil {
		file := *d.state.File
		state.File = &file
	}
	return state
}

func (d *Dashboard) publishLocked() {
	if len(d.subscribers) == 0 {
		return
	}
	state := d.snapshotLocked()
	for _, ch := range d.subscribers {
		publishLatest(ch, state)
	}
}

func readFileInput(file domain.FileInput) ([]byte, error) {
	if file.Content == nil {
		return nil, fmt.Errorf("read %s: no content", file.Name)
	}

	data, err := io.ReadAll(io.LimitReader(file.Content, domain.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.Name, err)
	}
	if int64(len(data)) > domain.MaxFileSize {
		return nil, domain.ErrFileTooLarge
	}

	return data, nil
}
