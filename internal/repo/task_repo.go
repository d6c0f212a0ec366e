package repo

import (
	"context"
	"errors"
	"fmt"

	dom "Taskboard/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskRepo is the task half of the storage engine.
// Absence is reported through the bool result, never through err;
// err is reserved for backend faults.
type TaskRepo interface {
	// ListTasks returns a snapshot in insertion order.
	ListTasks(ctx context.Context) ([]dom.Task, error)
	GetTask(ctx context.Context, id string) (dom.Task, bool, error)
	CreateTask(ctx context.Context, d dom.TaskDraft) (dom.Task, error)
	UpdateTask(ctx context.Context, id string, patch dom.TaskPatch) (dom.Task, bool, error)
	DeleteTask(ctx context.Context, id string) (bool, error)
	// Categories returns the distinct non-nil categories, ascending byte-wise.
	Categories(ctx context.Context) ([]string, error)
}

const taskColumns = `id, text, completed, priority, category`

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func (r *PGTaskRepo) ListTasks(ctx context.Context) ([]dom.Task, error) {
	rows, err := r.db.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	list := make([]dom.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) GetTask(ctx context.Context, id string) (dom.Task, bool, error) {
	t, err := scanTask(r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Task{}, false, nil
	}
	if err != nil {
		return dom.Task{}, false, fmt.Errorf("get task: %w", err)
	}
	return t, true, nil
}

func (r *PGTaskRepo) CreateTask(ctx context.Context, d dom.TaskDraft) (dom.Task, error) {
	t := d.Materialize(uuid.NewString())
	query := `
		INSERT INTO tasks (id, text, completed, priority, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + taskColumns
	out, err := scanTask(r.db.QueryRow(ctx, query, t.ID, t.Text, t.Completed, string(t.Priority), t.Category))
	if err != nil {
		return dom.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return out, nil
}

// UpdateTask reads and rewrites the row inside one transaction so the merge
// never interleaves with another writer.
func (r *PGTaskRepo) UpdateTask(ctx context.Context, id string, patch dom.TaskPatch) (dom.Task, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dom.Task{}, false, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	existing, err := scanTask(tx.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Task{}, false, nil
	}
	if err != nil {
		return dom.Task{}, false, fmt.Errorf("select task: %w", err)
	}

	merged := patch.Apply(existing)
	query := `
		UPDATE tasks SET text = $2, completed = $3, priority = $4, category = $5
		WHERE id = $1
		RETURNING ` + taskColumns
	out, err := scanTask(tx.QueryRow(ctx, query, id, merged.Text, merged.Completed, string(merged.Priority), merged.Category))
	if err != nil {
		return dom.Task{}, false, fmt.Errorf("update task: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return dom.Task{}, false, fmt.Errorf("commit: %w", err)
	}
	return out, true, nil
}

func (r *PGTaskRepo) DeleteTask(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGTaskRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT category COLLATE "C" AS c
		FROM tasks WHERE category IS NOT NULL
		ORDER BY c ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanTask(row pgx.Row) (dom.Task, error) {
	var (
		t        dom.Task
		priority string
	)
	if err := row.Scan(&t.ID, &t.Text, &t.Completed, &priority, &t.Category); err != nil {
		return dom.Task{}, err
	}
	t.Priority = dom.Priority(priority)
	return t, nil
}
