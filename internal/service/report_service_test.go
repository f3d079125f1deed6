package service

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/report"
	"github.com/phrazzld/taskmgmt-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProjectPerformanceReport(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	ada := env.user(t, "ada", "Ada", "Lovelace")
	zeta := env.project(t, "Zeta", nil)
	alpha := env.project(t, "Alpha", nil)
	env.project(t, "Empty", nil)

	env.task(t, alpha.ID, "a1", "Done", &ada.ID)
	env.task(t, alpha.ID, "a2", "Done", &ada.ID)
	env.task(t, alpha.ID, "a3", "InProgress", nil)
	env.task(t, alpha.ID, "a4", "ToDo", nil)
	env.task(t, alpha.ID, "a5", "Blocked", nil)
	past := fixedNow.Add(-24 * time.Hour)
	_, err := env.tasks.CreateTask(env.ctx, TaskInput{Title: "z1", ProjectID: zeta.ID, DueDate: &past})
	require.NoError(t, err)

	results, err := env.reports.GenerateProjectPerformanceReport(env.ctx)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, []string{"Alpha", "Empty", "Zeta"},
		[]string{results[0].ProjectName, results[1].ProjectName, results[2].ProjectName})

	a := results[0]
	assert.Equal(t, 5, a.TotalTasks)
	assert.Equal(t, 2, a.CompletedTasks)
	assert.Equal(t, 1, a.InProgressTasks)
	assert.InDelta(t, 40.0, a.CompletionRate, 1e-9)
	assert.Equal(t, []report.AssigneeDistribution{
		{AssigneeName: "Ada Lovelace", TaskCount: 2, CompletedTaskCount: 2},
		{AssigneeName: domain.UnassignedLabel, TaskCount: 3, CompletedTaskCount: 0},
	}, a.TaskDistributionByAssignee)

	assert.Equal(t, 0, results[1].TotalTasks)
	assert.Zero(t, results[1].CompletionRate)
	assert.Equal(t, 1, results[2].OverdueTasks)
}

func TestBatchUpdateTaskStatus(t *testing.T) {
	t.Parallel()

	t.Run("updates existing tasks and skips unknown ids", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.project(t, "Apollo", nil)
		t1 := env.task(t, p.ID, "one", "", nil)
		t2 := env.task(t, p.ID, "two", "", nil)
		t3 := env.task(t, p.ID, "three", "", nil)

		res, err := env.reports.BatchUpdateTaskStatus(env.ctx, []int64{t1.ID, t2.ID, 999}, "done")
		require.NoError(t, err)
		assert.Equal(t, BatchResult{Success: true, UpdatedCount: 2}, res)

		for id, want := range map[int64]domain.TaskStatus{
			t1.ID: domain.TaskStatusDone,
			t2.ID: domain.TaskStatusDone,
			t3.ID: domain.TaskStatusToDo,
		} {
			got, err := env.store.Repos().Tasks.GetByID(env.ctx, id)
			require.NoError(t, err)
			assert.Equal(t, want, got.Status)
		}
	})

	t.Run("duplicate ids count once", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.project(t, "Apollo", nil)
		t1 := env.task(t, p.ID, "one", "", nil)

		res, err := env.reports.BatchUpdateTaskStatus(env.ctx, []int64{t1.ID, t1.ID}, "Blocked")
		require.NoError(t, err)
		assert.Equal(t, 1, res.UpdatedCount)
	})

	t.Run("no matching tasks", func(t *testing.T) {
		env := newTestEnv(t)
		before := env.store.Commits()

		res, err := env.reports.BatchUpdateTaskStatus(env.ctx, []int64{998, 999}, "Done")
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.Equal(t, KindNotFound, KindOf(err))
		assert.False(t, res.Success)
		assert.Equal(t, before, env.store.Commits())
	})

	t.Run("invalid input", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.reports.BatchUpdateTaskStatus(env.ctx, []int64{1}, "Finished")
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)

		_, err = env.reports.BatchUpdateTaskStatus(env.ctx, nil, "Done")
		assert.ErrorIs(t, err, ErrEmptyBatch)
		assert.Equal(t, KindInvalidArgument, KindOf(err))
	})

	t.Run("commit failure leaves tasks untouched", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.project(t, "Apollo", nil)
		t1 := env.task(t, p.ID, "one", "", nil)
		t2 := env.task(t, p.ID, "two", "", nil)

		env.store.FailNextCommit(errors.New("disk full"))
		_, err := env.reports.BatchUpdateTaskStatus(env.ctx, []int64{t1.ID, t2.ID}, "Done")
		assert.ErrorIs(t, err, store.ErrTransactionFailed)
		assert.Equal(t, KindInternal, KindOf(err))

		for _, id := range []int64{t1.ID, t2.ID} {
			got, err := env.store.Repos().Tasks.GetByID(env.ctx, id)
			require.NoError(t, err)
			assert.Equal(t, domain.TaskStatusToDo, got.Status)
		}
	})

	t.Run("failed mutation aborts before any write", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.project(t, "Apollo", nil)
		t1 := env.task(t, p.ID, "one", "", nil)
		t2 := env.task(t, p.ID, "two", "", nil)

		var calls atomic.Int32
		impl := env.reports.(*reportServiceImpl)
		impl.mutateStatus = func(task *domain.Task, status domain.TaskStatus) error {
			calls.Add(1)
			if task.ID == t2.ID {
				return errors.New("locked")
			}
			return task.SetStatus(status)
		}

		_, err := env.reports.BatchUpdateTaskStatus(env.ctx, []int64{t1.ID, t2.ID}, "Done")
		require.Error(t, err)
		assert.Positive(t, calls.Load())

		got, err := env.store.Repos().Tasks.GetByID(env.ctx, t1.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusToDo, got.Status)
	})
}

func TestNewReportServiceRequiresEngine(t *testing.T) {
	t.Parallel()
	_, err := NewReportService(newTestEnv(t).store, nil)
	assert.Error(t, err)
}
