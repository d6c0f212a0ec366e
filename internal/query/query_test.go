package query

import (
	"testing"

	dom "Taskboard/internal/domain"

	"github.com/stretchr/testify/require"
)

func cat(s string) *string { return &s }

func ids(tasks []dom.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestSortPriorityIsStable(t *testing.T) {
	t.Parallel()
	snapshot := []dom.Task{
		{ID: "A", Priority: dom.PriorityHigh},
		{ID: "B", Priority: dom.PriorityMedium},
		{ID: "C", Priority: dom.PriorityHigh},
		{ID: "D", Priority: dom.PriorityLow},
		{ID: "E", Priority: dom.PriorityMedium},
	}
	got := Apply(snapshot, Spec{Sort: SortPriority})
	require.Equal(t, []string{"A", "C", "B", "E", "D"}, ids(got))
	require.Equal(t, []string{"A", "B", "C", "D", "E"}, ids(snapshot))
}

func TestSearchMatchesTextOrCategory(t *testing.T) {
	t.Parallel()
	snapshot := []dom.Task{
		{ID: "1", Text: "Buy milk", Category: cat("Home")},
		{ID: "2", Text: "Call Bob"},
	}
	require.Equal(t, []string{"2"}, ids(Apply(snapshot, Spec{Search: "bob"})))
	require.Equal(t, []string{"1"}, ids(Apply(snapshot, Spec{Search: "home"})))
	require.Equal(t, []string{"1", "2"}, ids(Apply(snapshot, Spec{Search: "   "})))
	require.Empty(t, Apply(snapshot, Spec{Search: "zzz"}))
}

func TestStatusFilter(t *testing.T) {
	t.Parallel()
	snapshot := []dom.Task{
		{ID: "1", Completed: true},
		{ID: "2"},
		{ID: "3", Completed: true},
	}
	require.Equal(t, []string{"1", "2", "3"}, ids(Apply(snapshot, Spec{Status: StatusAll})))
	require.Equal(t, []string{"2"}, ids(Apply(snapshot, Spec{Status: StatusActive})))
	require.Equal(t, []string{"1", "3"}, ids(Apply(snapshot, Spec{Status: StatusCompleted})))
}

func TestCategoryFilterDistinguishesEmpty(t *testing.T) {
	t.Parallel()
	snapshot := []dom.Task{
		{ID: "1", Category: cat("Work")},
		{ID: "2", Category: cat("")},
		{ID: "3"},
	}
	require.Equal(t, []string{"1", "2", "3"}, ids(Apply(snapshot, Spec{})))
	require.Equal(t, []string{"2"}, ids(Apply(snapshot, Spec{Category: cat("")})))
	require.Equal(t, []string{"1"}, ids(Apply(snapshot, Spec{Category: cat("Work")})))
	require.Empty(t, Apply(snapshot, Spec{Category: cat("work")}))
}

func TestFiltersCombineWithAnd(t *testing.T) {
	t.Parallel()
	snapshot := []dom.Task{
		{ID: "1", Text: "Fix bug", Category: cat("Work"), Completed: true},
		{ID: "2", Text: "Fix sink", Category: cat("Home")},
		{ID: "3", Text: "Fix build", Category: cat("Work")},
	}
	got := Apply(snapshot, Spec{Status: StatusActive, Search: "fix", Category: cat("Work")})
	require.Equal(t, []string{"3"}, ids(got))
}

func TestSortNewestAndOldest(t *testing.T) {
	t.Parallel()
	snapshot := []dom.Task{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	require.Equal(t, []string{"3", "2", "1"}, ids(Apply(snapshot, Spec{Sort: SortNewest})))
	require.Equal(t, []string{"1", "2", "3"}, ids(Apply(snapshot, Spec{Sort: SortOldest})))
	require.Equal(t, []string{"1", "2", "3"}, ids(Apply(snapshot, Spec{})))
	require.Equal(t, []string{"1", "2", "3"}, ids(snapshot))
}

func TestSortAlphabetical(t *testing.T) {
	t.Parallel()
	snapshot := []dom.Task{
		{ID: "1", Text: "cherry"},
		{ID: "2", Text: "banana"},
		{ID: "3", Text: "Apple"},
		{ID: "4", Text: "banana"},
	}
	got := Apply(snapshot, Spec{Sort: SortAlphabetical})
	require.Equal(t, []string{"3", "2", "4", "1"}, ids(got))
}

func TestApplyOnEmptySnapshot(t *testing.T) {
	t.Parallel()
	got := Apply(nil, Spec{Sort: SortPriority})
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestParseStatus(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]Status{
		"":          StatusAll,
		"all":       StatusAll,
		"Active":    StatusActive,
		"completed": StatusCompleted,
	} {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseStatus("done")
	require.Error(t, err)
}

func TestParseSort(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "priority", "alphabetical", "newest", "OLDEST"} {
		_, err := ParseSort(in)
		require.NoError(t, err, in)
	}
	_, err := ParseSort("random")
	require.Error(t, err)
}

func TestSpecKeyDistinguishesCategorySentinel(t *testing.T) {
	t.Parallel()
	require.NotEqual(t, Spec{}.Key(), Spec{Category: cat("")}.Key())
	require.Equal(t, Spec{}.Key(), Spec{Status: StatusAll}.Key())
	require.Equal(t, Spec{Search: "Bob "}.Key(), Spec{Search: "bob"}.Key())
}
