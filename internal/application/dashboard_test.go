package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/devicepool-cli/internal/domain"
	"github.com/bnema/devicepool-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var dashboardNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func fixedClock(t *testing.T) *mocks.MockClock {
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(dashboardNow).Maybe()
	return clock
}

func TestDashboardRefreshReplacesStatusAndTasks(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	snapshots := mocks.NewMockSnapshotLog(t)
	dashboard := NewDashboard(remote, nil, snapshots, fixedClock(t), 0)

	status := domain.PoolStatus{AvailablePhones: 3, BusyPhones: 1, AverageProcessingTime: 60000}
	tasks := []domain.Task{{ID: "t-1", Status: domain.TaskStatusProcessing}}
	remote.EXPECT().GetStatus(mockAnyContext()).Return(status).Once()
	remote.EXPECT().GetTasks(mockAnyContext()).Return(tasks).Once()
	snapshots.EXPECT().Record(mockAnyContext(), domain.PoolSnapshot{Status: status, ObservedAt: dashboardNow}).Return(nil).Once()

	dashboard.Refresh(context.Background())

	state := dashboard.State()
	assert.Equal(t, status, state.Pool)
	assert.Equal(t, tasks, state.Tasks)
	assert.False(t, state.Loading)
	assert.Equal(t, dashboardNow, state.LastRefresh)
	assert.Equal(t, DefaultPollInterval, dashboard.PollInterval())
}

func TestDashboardRefreshSkipsSnapshotForUnknownStatus(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	snapshots := mocks.NewMockSnapshotLog(t)
	dashboard := NewDashboard(remote, nil, snapshots, fixedClock(t), 0)

	remote.EXPECT().GetStatus(mockAnyContext()).Return(domain.PoolStatus{}).Once()
	remote.EXPECT().GetTasks(mockAnyContext()).Return([]domain.Task{}).Once()

	dashboard.Refresh(context.Background())

	assert.True(t, dashboard.State().Pool.IsZero())
}

func TestDashboardRefreshPoolLeavesTasksAlone(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	snapshots := mocks.NewMockSnapshotLog(t)
	dashboard := NewDashboard(remote, nil, snapshots, fixedClock(t), 0)

	status := domain.PoolStatus{AvailablePhones: 2, BusyPhones: 2}
	remote.EXPECT().GetStatus(mockAnyContext()).Return(status).Once()
	snapshots.EXPECT().Record(mockAnyContext(), domain.PoolSnapshot{Status: status, ObservedAt: dashboardNow}).Return(nil).Once()

	assert.Equal(t, status, dashboard.RefreshPool(context.Background()))

	state := dashboard.State()
	assert.Equal(t, status, state.Pool)
	assert.Empty(t, state.Tasks)
	assert.Equal(t, dashboardNow, state.LastRefresh)
}

func TestDashboardRefreshKeepsStateWhenSnapshotFails(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	snapshots := mocks.NewMockSnapshotLog(t)
	dashboard := NewDashboard(remote, nil, snapshots, fixedClock(t), 0)

	status := domain.PoolStatus{AvailablePhones: 1}
	remote.EXPECT().GetStatus(mockAnyContext()).Return(status).Once()
	remote.EXPECT().GetTasks(mockAnyContext()).Return([]domain.Task{}).Once()
	snapshots.EXPECT().Record(mockAnyContext(), mock.Anything).Return(errors.New("disk full")).Once()

	dashboard.Refresh(context.Background())

	assert.Equal(t, status, dashboard.State().Pool)
}

func TestDashboardRefreshDropsResultsOfCancelledContext(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	dashboard := NewDashboard(remote, nil, nil, fixedClock(t), 0)

	ctx, cancel := context.WithCancel(context.Background())
	remote.EXPECT().GetStatus(mockAnyContext()).Return(domain.PoolStatus{AvailablePhones: 7}).Once()
	remote.EXPECT().GetTasks(mockAnyContext()).
		Run(func(context.Context) { cancel() }).
		Return([]domain.Task{{ID: "late"}}).Once()

	dashboard.Refresh(ctx)

	state := dashboard.State()
	assert.True(t, state.Pool.IsZero())
	assert.Empty(t, state.Tasks)
	assert.False(t, state.Loading)
}

func TestDashboardSelectFileValidation(t *testing.T) {
	tests := []struct {
		name    string
		file    domain.FileInput
		wantErr error
	}{
		{
			name: "javascript",
			file: domain.FileInput{Name: "a.js", ContentType: "text/javascript", Size: 4, Content: strings.NewReader("x=1;")},
		},
		{
			name: "js extension without type",
			file: domain.FileInput{Name: "a.js", Size: 4, Content: strings.NewReader("x=1;")},
		},
		{
			name:    "too large",
			file:    domain.FileInput{Name: "a.js", ContentType: "text/javascript", Size: domain.MaxFileSize + 1, Content: strings.NewReader("")},
			wantErr: domain.ErrFileTooLarge,
		},
		{
			name:    "disallowed type",
			file:    domain.FileInput{Name: "a.png", ContentType: "image/png", Size: 4, Content: strings.NewReader("....")},
			wantErr: domain.ErrFileTypeNotAllowed,
		},
		{
			name:    "declared size lies",
			file:    domain.FileInput{Name: "a.txt", ContentType: "text/plain", Size: 1, Content: io.LimitReader(zeroReader{}, domain.MaxFileSize+10)},
			wantErr: domain.ErrFileTooLarge,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			remote := mocks.NewMockRemoteService(t)
			dashboard := NewDashboard(remote, nil, nil, fixedClock(t), 0)

			err := dashboard.SelectFile(tc.file)
			state := dashboard.State()
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, state.File)
				assert.Equal(t, tc.wantErr.Error(), state.Error)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, state.File)
			assert.Equal(t, tc.file.Name, state.File.Name)
			assert.Empty(t, state.Error)
		})
	}
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func TestDashboardSubmitRequiresCodeOrFile(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	dashboard := NewDashboard(remote, nil, nil, fixedClock(t), 0)
	dashboard.SetCode("   ")

	_, err := dashboard.Submit(context.Background())
	require.ErrorIs(t, err, domain.ErrEmptySubmission)
	assert.Equal(t, "Please enter code or select a file", dashboard.State().Error)
}

func TestDashboardSubmitSuccessPrependsTaskAndClearsForm(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	history := mocks.NewMockHistoryRepository(t)
	dashboard := NewDashboard(remote, history, nil, fixedClock(t), 0)

	existing := domain.Task{ID: "old", Status: domain.TaskStatusCompleted}
	remote.EXPECT().GetStatus(mockAnyContext()).Return(domain.PoolStatus{}).Once()
	remote.EXPECT().GetTasks(mockAnyContext()).Return([]domain.Task{existing}).Once()
	dashboard.Refresh(context.Background())

	dashboard.SetCode("console.log(1)")
	require.NoError(t, dashboard.SelectFile(domain.FileInput{
		Name: "data.json", ContentType: "application/json", Size: 2, Content: strings.NewReader("{}"),
	}))

	created := domain.Task{ID: "new", Status: domain.TaskStatusPending, Code: "console.log(1)", FileName: "data.json"}
	remote.EXPECT().SubmitTask(mockAnyContext(), "console.log(1)", mock.AnythingOfType("*domain.FileInput")).
		Run(func(_ context.Context, _ string, file *domain.FileInput) {
			content, err := io.ReadAll(file.Content)
			assert.NoError(t, err)
			assert.Equal(t, "{}", string(content))
			assert.Equal(t, "data.json", file.Name)
		}).
		Return(created, nil).Once()
	history.EXPECT().Append(mockAnyContext(), domain.NewHistoryEntry(created, dashboardNow)).Return(nil).Once()

	task, err := dashboard.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, created, task)

	state := dashboard.State()
	require.Len(t, state.Tasks, 2)
	assert.Equal(t, "new", state.Tasks[0].ID)
	assert.Equal(t, "old", state.Tasks[1].ID)
	assert.Empty(t, state.Code)
	assert.Nil(t, state.File)
	assert.True(t, state.FocusTasks)
	assert.False(t, state.Submitting)
	assert.Empty(t, state.Error)
}

func TestDashboardSubmitFailureKeepsFormAndSetsError(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	history := mocks.NewMockHistoryRepository(t)
	dashboard := NewDashboard(remote, history, nil, fixedClock(t), 0)
	dashboard.SetCode("run()")

	remote.EXPECT().SubmitTask(mockAnyContext(), "run()", (*domain.FileInput)(nil)).
		Return(domain.Task{}, errors.New("No phones available")).Once()

	_, err := dashboard.Submit(context.Background())
	require.EqualError(t, err, "No phones available")

	state := dashboard.State()
	assert.Equal(t, "No phones available", state.Error)
	assert.Equal(t, "run()", state.Code)
	assert.False(t, state.Submitting)
	assert.Empty(t, state.Tasks)
}

func TestDashboardSubmitIsVisibleWhileInFlight(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	dashboard := NewDashboard(remote, nil, nil, fixedClock(t), 0)
	dashboard.SetCode("run()")

	observed := make(chan DashboardState, 1)
	remote.EXPECT().SubmitTask(mockAnyContext(), "run()", (*domain.FileInput)(nil)).
		Run(func(context.Context, string, *domain.FileInput) { observed <- dashboard.State() }).
		Return(domain.Task{ID: "t"}, nil).Once()

	_, err := dashboard.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, (<-observed).Submitting)
}

func TestDashboardSubscribeReceivesLatestState(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	dashboard := NewDashboard(remote, nil, nil, fixedClock(t), 0)
	updates := dashboard.Subscribe()

	dashboard.SetCode("a")
	dashboard.SetCode("ab")

	assert.Equal(t, "ab", (<-updates).Code)
}

func TestDashboardPollingRefreshesUntilStopped(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	dashboard := NewDashboard(remote, nil, nil, fixedClock(t), 10*time.Millisecond)

	var polls atomic.Int32
	remote.EXPECT().GetStatus(mockAnyContext()).
		Run(func(context.Context) { polls.Add(1) }).
		Return(domain.PoolStatus{AvailablePhones: 2})
	remote.EXPECT().GetTasks(mockAnyContext()).Return([]domain.Task{})

	poller := dashboard.StartPolling(context.Background())
	require.Eventually(t, func() bool { return polls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	poller.Stop()
	stoppedAt := polls.Load()
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, stoppedAt, polls.Load())
	assert.Equal(t, 2, dashboard.State().Pool.AvailablePhones)

	// Stop is idempotent.
	poller.Stop()
}

func TestDashboardPollerStopDiscardsInFlightResult(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	dashboard := NewDashboard(remote, nil, nil, fixedClock(t), time.Hour)

	started := make(chan struct{})
	var poller *Poller
	remote.EXPECT().GetStatus(mockAnyContext()).
		Run(func(ctx context.Context) {
			close(started)
			<-ctx.Done()
		}).
		Return(domain.PoolStatus{AvailablePhones: 9}).Once()
	remote.EXPECT().GetTasks(mockAnyContext()).Return([]domain.Task{{ID: "stale"}}).Once()

	poller = dashboard.StartPolling(context.Background())
	<-started
	poller.Stop()

	state := dashboard.State()
	assert.True(t, state.Pool.IsZero())
	assert.Empty(t, state.Tasks)
}

type fakeAuth struct {
	authenticated bool
	updates       chan bool
}

func (f *fakeAuth) IsAuthenticated() bool  { return f.authenticated }
func (f *fakeAuth) Subscribe() <-chan bool { return f.updates }

func TestDashboardWatchAuthFollowsSession(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	dashboard := NewDashboard(remote, nil, nil, fixedClock(t), time.Hour)

	var polls atomic.Int32
	remote.EXPECT().GetStatus(mockAnyContext()).
		Run(func(context.Context) { polls.Add(1) }).
		Return(domain.PoolStatus{AvailablePhones: 1})
	remote.EXPECT().GetTasks(mockAnyContext()).Return([]domain.Task{{ID: "t"}})

	auth := &fakeAuth{updates: make(chan bool)}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		dashboard.WatchAuth(ctx, auth)
	}()

	assert.Never(t, func() bool { return polls.Load() > 0 }, 50*time.Millisecond, 5*time.Millisecond)

	auth.updates <- true
	require.Eventually(t, func() bool { return dashboard.State().Pool.AvailablePhones == 1 }, 2*time.Second, 5*time.Millisecond)

	auth.updates <- false
	require.Eventually(t, func() bool { return dashboard.State().Pool.IsZero() }, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, dashboard.State().Tasks)

	cancel()
	<-done
	assert.Equal(t, int32(1), polls.Load())
}
