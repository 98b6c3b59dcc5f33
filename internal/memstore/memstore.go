// Package memstore is an in-process implementation of the item and comment
// repositories. It applies the same validation and ordering rules as the
// Postgres repositories and is used to exercise the API without a database.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"lostfound/domain"

	"github.com/google/uuid"
)

type Store struct {
	mu       sync.RWMutex
	items    []domain.Item
	comments []domain.Comment
	now      func() time.Time

	// Fail makes every operation return an upstream error when set.
	Fail error
}

func New() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the timestamp source.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Items() *Items {
	return &Items{store: s}
}

func (s *Store) Comments() *Comments {
	return &Comments{store: s}
}

func (s *Store) CommentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.comments)
}

func (s *Store) failure(op string) error {
	if s.Fail == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstream, s.Fail)
}

// newestFirst orders by creation time, later inserts first on ties.
func newestFirst[T any](records []T, createdAt func(T) time.Time) []T {
	out := slices.Clone(records)
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b T) int {
		return createdAt(b).Compare(createdAt(a))
	})
	return out
}

type Items struct {
	store *Store
}

func (r *Items) ListAll(ctx context.Context) ([]domain.Item, error) {
	if err := r.store.failure("list items"); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return newestFirst(r.store.items, func(i domain.Item) time.Time { return i.CreatedAt }), nil
}

func (r *Items) GetByID(ctx context.Context, id string) (domain.Item, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return domain.Item{}, err
	}
	if err := r.store.failure("get item"); err != nil {
		return domain.Item{}, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.items {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.Item{}, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
}

func (r *Items) Create(ctx context.Context, in domain.NewItem) (domain.Item, error) {
	in, err := domain.ValidateNewItem(in)
	if err != nil {
		return domain.Item{}, err
	}
	if err := r.store.failure("create item"); err != nil {
		return domain.Item{}, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	item := domain.Item{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		ContactInfo: in.ContactInfo,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.store.items = append(r.store.items, item)

	return item, nil
}

type Comments struct {
	store *Store
}

func (r *Comments) ListForItem(ctx context.Context, itemID string) ([]domain.Comment, error) {
	itemID, err := domain.ParseID(itemID)
	if err != nil {
		return nil, err
	}
	if err := r.store.failure("list comments"); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matching := make([]domain.Comment, 0)
	for _, c := range r.store.comments {
		if c.ItemID == itemID {
			matching = append(matching, c)
		}
	}
	return newestFirst(matching, func(c domain.Comment) time.Time { return c.CreatedAt }), nil
}

func (r *Comments) Create(ctx context.Context, itemID, text string) (domain.Comment, error) {
	itemID, err := domain.ParseID(itemID)
	if err != nil {
		return domain.Comment{}, err
	}
	text, err = domain.ValidateCommentText(text)
	if err != nil {
		return domain.Comment{}, err
	}

	if _, err := r.store.Items().GetByID(ctx, itemID); err != nil {
		return domain.Comment{}, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	comment := domain.Comment{
		ID:        uuid.New().String(),
		ItemID:    itemID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.store.comments = append(r.store.comments, comment)

	return comment, nil
}
