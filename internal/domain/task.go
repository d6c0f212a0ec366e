package domain

// Domain entity: the authoritative task record.
// No dependency on Gin, Postgres or Redis.
type Task struct {
	ID        string
	Text      string
	Completed bool
	Priority  Priority
	Category  *string
}

// MaxTextLen is the upper bound on Task.Text, counted in runes.
const MaxTextLen = 500

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of low, medium or high.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities: high sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// Clone returns a copy that shares no memory with t.
func (t Task) Clone() Task {
	out := t
	if t.Category != nil {
		c := *t.Category
		out.Category = &c
	}
	return out
}

// TaskDraft is the create payload. Nil optionals fall back to defaults.
type TaskDraft struct {
	Text      string
	Completed *bool
	Priority  *Priority
	Category  *string
}

// Materialize builds the stored record for id, filling in defaults:
// completed=false, priority=medium, category=nil.
func (d TaskDraft) Materialize(id string) Task {
	t := Task{ID: id, Text: d.Text, Priority: PriorityMedium}
	if d.Completed != nil {
		t.Completed = *d.Completed
	}
	if d.Priority != nil {
		t.Priority = *d.Priority
	}
	if d.Category != nil {
		c := *d.Category
		t.Category = &c
	}
	return t
}

// TaskPatch is a partial update. Nil fields are left untouched.
// Category is tri-state: CategorySet=false keeps the stored value,
// CategorySet=true with a nil Category clears it.
type TaskPatch struct {
	Text        *string
	Completed   *bool
	Priority    *Priority
	Category    *string
	CategorySet bool
}

// Apply merges p into t and returns the result; ID never changes.
func (p TaskPatch) Apply(t Task) Task {
	out := t.Clone()
	if p.Text != nil {
		out.Text = *p.Text
	}
	if p.Completed != nil {
		out.Completed = *p.Completed
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.CategorySet {
		if p.Category == nil {
			out.Category = nil
		} else {
			c := *p.Category
			out.Category = &c
		}
	}
	return out
}
