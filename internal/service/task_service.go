package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"Taskboard/internal/cache"
	dom "Taskboard/internal/domain"
	"Taskboard/internal/query"
	"Taskboard/internal/repo"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidText     = errors.New("text must be 1-500 characters")
	ErrInvalidPriority = errors.New("priority must be low, medium or high")
)

type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	sf    singleflight.Group

	// stale counts writes whose invalidation failed. While it is non-zero
	// cached views may predate a completed write and are not served.
	stale atomic.Int64
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache) *TaskService {
	return &TaskService{repo: r, cache: c}
}

// List returns the view described by spec over the current snapshot.
func (s *TaskService) List(ctx context.Context, spec query.Spec) ([]dom.Task, error) {
	if s.cache == nil || !s.cacheFresh(ctx) {
		return s.derive(ctx, spec)
	}
	// Read the generation before the snapshot; see cache.TaskCache.
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("task cache unavailable")
		return s.derive(ctx, spec)
	}
	key := spec.Key()
	v, err, _ := s.sf.Do(strconv.FormatInt(gen, 10)+":"+key, func() (interface{}, error) {
		if list, err := s.cache.GetView(ctx, gen, key); err == nil && list != nil {
			return list, nil
		}
		list, err := s.derive(ctx, spec)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetView(ctx, gen, key, list); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("task cache fill failed")
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Task), nil
}

// cacheFresh retries a failed invalidation and reports whether cached
// views can be trusted again.
func (s *TaskService) cacheFresh(ctx context.Context) bool {
	n := s.stale.Load()
	if n == 0 {
		return true
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Debug().Err(err).Msg("task cache still stale")
		return false
	}
	// Another write may have failed meanwhile; leave the flag for the next read.
	return s.stale.CompareAndSwap(n, 0)
}

func (s *TaskService) derive(ctx context.Context, spec query.Spec) ([]dom.Task, error) {
	snapshot, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return query.Apply(snapshot, spec), nil
}

// Categories is always read from the store.
func (s *TaskService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *TaskService) GetByID(ctx context.Context, id string) (dom.Task, error) {
	t, ok, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return dom.Task{}, err
	}
	if !ok {
		return dom.Task{}, ErrNotFound
	}
	return t, nil
}

func (s *TaskService) Create(ctx context.Context, d dom.TaskDraft) (dom.Task, error) {
	text, err := normalizeText(d.Text)
	if err != nil {
		return dom.Task{}, err
	}
	d.Text = text
	if d.Priority != nil && !d.Priority.Valid() {
		return dom.Task{}, ErrInvalidPriority
	}

	t, err := s.repo.CreateTask(ctx, d)
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, id string, patch dom.TaskPatch) (dom.Task, error) {
	if patch.Text != nil {
		text, err := normalizeText(*patch.Text)
		if err != nil {
			return dom.Task{}, err
		}
		patch.Text = &text
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return dom.Task{}, ErrInvalidPriority
	}

	t, ok, err := s.repo.UpdateTask(ctx, id, patch)
	if err != nil {
		return dom.Task{}, err
	}
	if !ok {
		return dom.Task{}, ErrNotFound
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.DeleteTask(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *TaskService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			s.stale.Add(1)
			log.Warn().Err(err).Msg("task cache invalidation failed, bypassing cache")
		}
	}
}

func normalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > dom.MaxTextLen {
		return "", ErrInvalidText
	}
	return text, nil
}
