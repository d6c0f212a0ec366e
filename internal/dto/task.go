package dto

import (
	"encoding/json"

	dom "Taskboard/internal/domain"
)

// NullableString tells "absent" apart from "null" in a JSON payload.
// Set is true whenever the key was present; Value is nil for null.
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	return json.Unmarshal(data, &n.Value)
}

type CreateTaskRequest struct {
	Text      string  `json:"text" binding:"required"`
	Completed *bool   `json:"completed"`
	Priority  *string `json:"priority" binding:"omitempty,oneof=low medium high"`
	Category  *string `json:"category"` // optional, null = no category
}

// Draft converts the request; fields the client left out stay nil.
func (r CreateTaskRequest) Draft() dom.TaskDraft {
	d := dom.TaskDraft{Text: r.Text, Completed: r.Completed, Category: r.Category}
	if r.Priority != nil {
		p := dom.Priority(*r.Priority)
		d.Priority = &p
	}
	return d
}

// UpdateTaskRequest has no id field, so an id in the body is dropped.
type UpdateTaskRequest struct {
	Text      *string        `json:"text"`
	Completed *bool          `json:"completed"`
	Priority  *string        `json:"priority" binding:"omitempty,oneof=low medium high"`
	Category  NullableString `json:"category" swaggertype:"string"`
}

func (r UpdateTaskRequest) Patch() dom.TaskPatch {
	p := dom.TaskPatch{
		Text:        r.Text,
		Completed:   r.Completed,
		Category:    r.Category.Value,
		CategorySet: r.Category.Set,
	}
	if r.Priority != nil {
		pr := dom.Priority(*r.Priority)
		p.Priority = &pr
	}
	return p
}

type TaskResponse struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	Completed bool    `json:"completed"`
	Priority  string  `json:"priority" enums:"low,medium,high"`
	Category  *string `json:"category"`
}

func NewTaskResponse(t dom.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		Priority:  string(t.Priority),
		Category:  t.Category,
	}
}

func NewTaskResponses(list []dom.Task) []TaskResponse {
	out := make([]TaskResponse, len(list))
	for i := range list {
		out[i] = NewTaskResponse(list[i])
	}
	return out
}
