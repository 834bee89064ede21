package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stratako/stratako/internal/db"
	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/ordering"
	"github.com/stratako/stratako/internal/repository"
	"github.com/stratako/stratako/internal/validate"
)

// userListRepo is the storage a per-user ordered list needs.
type userListRepo[T any] interface {
	Create(ctx context.Context, item *T) error
	ListByUser(ctx context.Context, userID string) ([]*T, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, item *T) error
	SetOrders(ctx context.Context, assignments []ordering.Assignment, now time.Time) error
	Delete(ctx context.Context, id string) error
}

// listKind describes one family of per-user ordered items.
type listKind[T any] struct {
	name     string
	order    ordering.Collection[*T]
	txRepo   func(db.DBTX) userListRepo[T]
	build    func(id, userID, name string, order int, now time.Time) *T
	rename   func(item *T, name string, now time.Time)
	validate func(T) error
}

type listService[T any] struct {
	kind     listKind[T]
	reads    userListRepo[T]
	uow      db.UnitOfWork
	observer UseCaseObserver
}

var slotKind = listKind[domain.Slot]{
	name:   "slot",
	order:  slotOrder,
	txRepo: func(q db.DBTX) userListRepo[domain.Slot] { return repository.NewSQLiteSlotRepo(q) },
	build: func(id, userID, name string, order int, now time.Time) *domain.Slot {
		return &domain.Slot{ID: id, UserID: userID, Name: name, Order: order, CreatedAt: now, UpdatedAt: now}
	},
	rename:   func(s *domain.Slot, name string, now time.Time) { s.Name, s.UpdatedAt = name, now },
	validate: validate.Slot,
}

var projectCategoryKind = listKind[domain.ProjectCategory]{
	name:   "project category",
	order:  projectCategoryOrder,
	txRepo: func(q db.DBTX) userListRepo[domain.ProjectCategory] { return repository.NewSQLiteProjectCategoryRepo(q) },
	build: func(id, userID, name string, order int, now time.Time) *domain.ProjectCategory {
		return &domain.ProjectCategory{ID: id, UserID: userID, Name: name, Order: order, CreatedAt: now, UpdatedAt: now}
	},
	rename:   func(c *domain.ProjectCategory, name string, now time.Time) { c.Name, c.UpdatedAt = name, now },
	validate: validate.ProjectCategory,
}

var goalCategoryKind = listKind[domain.GoalCategory]{
	name:   "goal category",
	order:  goalCategoryOrder,
	txRepo: func(q db.DBTX) userListRepo[domain.GoalCategory] { return repository.NewSQLiteGoalCategoryRepo(q) },
	build: func(id, userID, name string, order int, now time.Time) *domain.GoalCategory {
		return &domain.GoalCategory{ID: id, UserID: userID, Name: name, Order: order, CreatedAt: now, UpdatedAt: now}
	},
	rename:   func(c *domain.GoalCategory, name string, now time.Time) { c.Name, c.UpdatedAt = name, now },
	validate: validate.GoalCategory,
}

// NewSlotService deletes cascade to the slot's operations and their tasks.
func NewSlotService(slots repository.SlotRepo, uow db.UnitOfWork, observers ...UseCaseObserver) SlotService {
	return &listService[domain.Slot]{kind: slotKind, reads: slots, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func NewProjectCategoryService(categories repository.ProjectCategoryRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ProjectCategoryService {
	return &listService[domain.ProjectCategory]{kind: projectCategoryKind, reads: categories, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func NewGoalCategoryService(categories repository.GoalCategoryRepo, uow db.UnitOfWork, observers ...UseCaseObserver) GoalCategoryService {
	return &listService[domain.GoalCategory]{kind: goalCategoryKind, reads: categories, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *listService[T]) Create(ctx context.Context, userID, name string, order *int) (*T, error) {
	var created *T
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := s.kind.txRepo(tx)
		count := 0
		if order == nil {
			var err error
			if count, err = repo.CountByUser(ctx, userID); err != nil {
				return err
			}
		}
		item := s.kind.build(uuid.New().String(), userID, name, resolveOrder(order, count), nowUTC())
		if err := s.kind.validate(*item); err != nil {
			return err
		}
		if err := repo.Create(ctx, item); err != nil {
			return err
		}
		created = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *listService[T]) List(ctx context.Context, userID string) ([]*T, error) {
	return s.reads.ListByUser(ctx, userID)
}

func (s *listService[T]) Rename(ctx context.Context, userID, id, name string) (*T, error) {
	var renamed *T
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := s.kind.txRepo(tx)
		item, err := s.find(ctx, repo, userID, id)
		if err != nil {
			return err
		}
		s.kind.rename(item, name, nowUTC())
		if err := s.kind.validate(*item); err != nil {
			return err
		}
		if err := repo.Update(ctx, item); err != nil {
			return err
		}
		renamed = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return renamed, nil
}

func (s *listService[T]) Move(ctx context.Context, userID, id string, index int) (result *Reordered[T], err error) {
	done := observe(ctx, s.observer, s.kind.name+".move", map[string]any{"id": id, "index": index})
	defer func() { done(err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := s.kind.txRepo(tx)
		items, err := repo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if _, ok := s.kind.order.Find(items, id); !ok {
			return domain.NotFound(s.kind.name)
		}
		plan, err := ordering.MoveWithin(s.kind.order.Entries(items), id, index)
		if err != nil {
			return err
		}
		if err := repo.SetOrders(ctx, plan.Source, nowUTC()); err != nil {
			return err
		}

		after, err := repo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		moved, _ := s.kind.order.Find(after, id)
		result = &Reordered[T]{Item: moved, Source: after}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *listService[T]) Delete(ctx context.Context, userID, id string) (err error) {
	done := observe(ctx, s.observer, s.kind.name+".delete", map[string]any{"id": id})
	defer func() { done(err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := s.kind.txRepo(tx)
		items, err := repo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if _, ok := s.kind.order.Find(items, id); !ok {
			return domain.NotFound(s.kind.name)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		return repo.SetOrders(ctx, ordering.Remove(s.kind.order.Entries(items), id), nowUTC())
	})
}

func (s *listService[T]) find(ctx context.Context, repo userListRepo[T], userID, id string) (*T, error) {
	items, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	item, ok := s.kind.order.Find(items, id)
	if !ok {
		return nil, domain.NotFound(s.kind.name)
	}
	return item, nil
}
