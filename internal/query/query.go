// Package query derives filtered, ordered views over a task snapshot.
// Nothing here holds state; Apply can be re-run on every request.
package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	dom "Taskboard/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type Sort string

const (
	// SortNone keeps snapshot order; it is what the list endpoint uses by default.
	SortNone         Sort = ""
	SortPriority     Sort = "priority"
	SortAlphabetical Sort = "alphabetical"
	// SortNewest and SortOldest order by insertion, there is no stored creation time.
	SortNewest Sort = "newest"
	SortOldest Sort = "oldest"
)

// Spec combines filters with AND, then sorts.
type Spec struct {
	Status Status
	Search string
	// Category nil disables the filter; a non-nil empty string matches
	// tasks whose category is literally "".
	Category *string
	Sort     Sort
	// Lang drives alphabetical collation. Zero value is language.Und.
	Lang language.Tag
}

// Key identifies the view spec produces, for caching.
func (s Spec) Key() string {
	status := s.Status
	if status == "" {
		status = StatusAll
	}
	cat := "*"
	if s.Category != nil {
		cat = strconv.Quote(*s.Category)
	}
	return fmt.Sprintf("%s|%s|%s|%q|%s", status, s.Sort, s.Lang, strings.ToLower(strings.TrimSpace(s.Search)), cat)
}

// ParseStatus accepts "", all, active or completed.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusActive:
		return StatusActive, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// ParseSort accepts "", priority, alphabetical, newest or oldest.
func ParseSort(s string) (Sort, error) {
	v := Sort(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case SortNone, SortPriority, SortAlphabetical, SortNewest, SortOldest:
		return v, nil
	}
	return "", fmt.Errorf("unknown sort %q", s)
}

// Apply returns a new slice; tasks is not modified.
func Apply(tasks []dom.Task, spec Spec) []dom.Task {
	out := make([]dom.Task, 0, len(tasks))
	needle := strings.ToLower(strings.TrimSpace(spec.Search))
	for _, t := range tasks {
		if matchStatus(t, spec.Status) && matchSearch(t, needle) && matchCategory(t, spec.Category) {
			out = append(out, t)
		}
	}

	switch spec.Sort {
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	case SortAlphabetical:
		// Collator is not safe for concurrent use, so one per call.
		col := collate.New(spec.Lang)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Text, out[j].Text) < 0
		})
	case SortNewest:
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

func matchStatus(t dom.Task, s Status) bool {
	switch s {
	case StatusActive:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	}
	return true
}

func matchSearch(t dom.Task, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Text), needle) {
		return true
	}
	return t.Category != nil && strings.Contains(strings.ToLower(*t.Category), needle)
}

func matchCategory(t dom.Task, c *string) bool {
	if c == nil {
		return true
	}
	return t.Category != nil && *t.Category == *c
}
