package repo

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dom "Taskboard/internal/domain"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCreateTaskAppliesDefaults(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	task, err := s.CreateTask(context.Background(), dom.TaskDraft{Text: "Buy milk"})
	require.NoError(t, err)
	require.NotEmpty(t, task.ID)
	require.Equal(t, "Buy milk", task.Text)
	require.False(t, task.Completed)
	require.Equal(t, dom.PriorityMedium, task.Priority)
	require.Nil(t, task.Category)
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	created, err := s.CreateTask(ctx, dom.TaskDraft{
		Text:      "Ship release",
		Completed: ptr(true),
		Priority:  ptr(dom.PriorityHigh),
		Category:  ptr("Work"),
	})
	require.NoError(t, err)

	got, ok, err := s.GetTask(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, created, got)
}

func TestGetTaskMissing(t *testing.T) {
	t.Parallel()
	_, ok, err := NewMemoryStore().GetTask(context.Background(), "nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUpdateTaskChangesOnlyPresentFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	orig, err := s.CreateTask(ctx, dom.TaskDraft{Text: "Write report", Category: ptr("Work")})
	require.NoError(t, err)

	updated, ok, err := s.UpdateTask(ctx, orig.ID, dom.TaskPatch{Completed: ptr(true)})
	require.NoError(t, err)
	require.True(t, ok)

	want := orig
	want.Completed = true
	require.Equal(t, want, updated)

	stored, _, _ := s.GetTask(ctx, orig.ID)
	require.Equal(t, want, stored)
}

func TestUpdateTaskCategoryTriState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	orig, _ := s.CreateTask(ctx, dom.TaskDraft{Text: "x", Category: ptr("Home")})

	kept, _, _ := s.UpdateTask(ctx, orig.ID, dom.TaskPatch{Text: ptr("y")})
	require.Equal(t, ptr("Home"), kept.Category)

	cleared, _, _ := s.UpdateTask(ctx, orig.ID, dom.TaskPatch{CategorySet: true})
	require.Nil(t, cleared.Category)

	set, _, _ := s.UpdateTask(ctx, orig.ID, dom.TaskPatch{CategorySet: true, Category: ptr("Work")})
	require.Equal(t, ptr("Work"), set.Category)
	require.Equal(t, "y", set.Text)
}

func TestUpdateTaskMissingReturnsAbsent(t *testing.T) {
	t.Parallel()
	_, ok, err := NewMemoryStore().UpdateTask(context.Background(), "missing", dom.TaskPatch{Text: ptr("a")})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDeleteTaskIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	task, _ := s.CreateTask(ctx, dom.TaskDraft{Text: "temp"})

	ok, err := s.DeleteTask(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.DeleteTask(ctx, task.ID)
	require.NoError(t, err)
	require.False(t, ok)

	ok, _ = s.DeleteTask(ctx, "never-existed")
	require.False(t, ok)

	_, found, _ := s.GetTask(ctx, task.ID)
	require.False(t, found)
}

func TestListTasksKeepsInsertionOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	var ids []string
	for i := 0; i < 5; i++ {
		task, _ := s.CreateTask(ctx, dom.TaskDraft{Text: fmt.Sprintf("task %d", i)})
		ids = append(ids, task.ID)
	}
	_, _ = s.DeleteTask(ctx, ids[2])

	list, err := s.ListTasks(ctx)
	require.NoError(t, err)
	got := make([]string, len(list))
	for i, task := range list {
		got[i] = task.ID
	}
	require.Equal(t, []string{ids[0], ids[1], ids[3], ids[4]}, got)
}

func TestSnapshotsAreCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	created, _ := s.CreateTask(ctx, dom.TaskDraft{Text: "a", Category: ptr("Work")})

	*created.Category = "tampered"
	list, _ := s.ListTasks(ctx)
	list[0].Text = "tampered"
	*list[0].Category = "tampered"

	got, _, _ := s.GetTask(ctx, created.ID)
	require.Equal(t, "a", got.Text)
	require.Equal(t, "Work", *got.Category)
}

func TestCategoriesDistinctSorted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	for _, c := range []*string{ptr("Work"), ptr("home"), ptr("Work"), nil} {
		_, err := s.CreateTask(ctx, dom.TaskDraft{Text: "t", Category: c})
		require.NoError(t, err)
	}
	cats, err := s.Categories(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Work", "home"}, cats)
}

func TestCategoriesTrackCurrentState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	cats, _ := s.Categories(ctx)
	require.Empty(t, cats)
	require.NotNil(t, cats)

	task, _ := s.CreateTask(ctx, dom.TaskDraft{Text: "t", Category: ptr("Errands")})
	cats, _ = s.Categories(ctx)
	require.Equal(t, []string{"Errands"}, cats)

	_, _, _ = s.UpdateTask(ctx, task.ID, dom.TaskPatch{CategorySet: true, Category: ptr("Garden")})
	cats, _ = s.Categories(ctx)
	require.Equal(t, []string{"Garden"}, cats)

	_, _ = s.DeleteTask(ctx, task.ID)
	cats, _ = s.Categories(ctx)
	require.Empty(t, cats)
}

func TestUserLookup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	alice, err := s.CreateUser(ctx, "alice", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, alice.ID)
	require.Equal(t, "secret", alice.Password)

	got, ok, err := s.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, alice, got)

	got, ok, _ = s.GetUserByUsername(ctx, "alice")
	require.True(t, ok)
	require.Equal(t, alice, got)

	_, ok, _ = s.GetUserByUsername(ctx, "bob")
	require.False(t, ok)
	_, ok, _ = s.GetUser(ctx, "missing")
	require.False(t, ok)
}

// The store does not enforce unique usernames; the user service does.
func TestCreateUserAllowsDuplicateUsernames(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	first, err := s.CreateUser(ctx, "alice", "one")
	require.NoError(t, err)
	second, err := s.CreateUser(ctx, "alice", "two")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	got, ok, _ := s.GetUserByUsername(ctx, "alice")
	require.True(t, ok)
	require.Equal(t, first.ID, got.ID)
}

func TestFreshIDSkipsCollisions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	ids := []string{"a", "a", "b"}
	s.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	first, _ := s.CreateTask(ctx, dom.TaskDraft{Text: "one"})
	second, _ := s.CreateTask(ctx, dom.TaskDraft{Text: "two"})
	require.Equal(t, "a", first.ID)
	require.Equal(t, "b", second.ID)
}

func TestConcurrentWrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			task, err := s.CreateTask(ctx, dom.TaskDraft{Text: fmt.Sprintf("t%d", i), Category: ptr(fmt.Sprintf("c%d", i%5))})
			if err != nil {
				return
			}
			_, _, _ = s.UpdateTask(ctx, task.ID, dom.TaskPatch{Completed: ptr(true)})
			_, _ = s.ListTasks(ctx)
			_, _ = s.Categories(ctx)
		}(i)
	}
	wg.Wait()

	list, _ := s.ListTasks(ctx)
	require.Len(t, list, 50)
	for _, task := range list {
		require.True(t, task.Completed)
	}
	cats, _ := s.Categories(ctx)
	require.Equal(t, []string{"c0", "c1", "c2", "c3", "c4"}, cats)
}
