package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stratako/stratako/internal/db"
	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/ordering"
	"github.com/stratako/stratako/internal/repository"
	"github.com/stratako/stratako/internal/validate"
)

type taskService struct {
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTaskService(tasks repository.TaskRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TaskService {
	return &taskService{tasks: tasks, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// checkContainer reports NotFound unless c exists and belongs to userID.
func checkContainer(ctx context.Context, q db.DBTX, userID string, c domain.TaskContainer) error {
	var err error
	switch c.Kind {
	case domain.ContainerOperation:
		_, err = repository.NewSQLiteOperationRepo(q).GetForUser(ctx, userID, c.ID)
	case domain.ContainerProject:
		_, err = repository.NewSQLiteProjectRepo(q).GetForUser(ctx, userID, c.ID)
	default:
		err = validate.Field("container", fmt.Errorf("unknown container kind %q", c.Kind))
	}
	return err
}

func (s *taskService) Create(ctx context.Context, userID string, c domain.TaskContainer, name string, order *int) (*domain.Task, error) {
	var created *domain.Task
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := checkContainer(ctx, tx, userID, c); err != nil {
			return err
		}
		tasks := repository.NewSQLiteTaskRepo(tx)
		count := 0
		if order == nil {
			var err error
			if count, err = tasks.CountByContainer(ctx, c); err != nil {
				return err
			}
		}
		now := nowUTC()
		t := domain.Task{
			ID:        uuid.New().String(),
			Name:      name,
			Order:     resolveOrder(order, count),
			CreatedAt: now,
			UpdatedAt: now,
		}.InContainer(c)
		if err := validate.Task(t); err != nil {
			return err
		}
		if err := tasks.Create(ctx, &t); err != nil {
			return err
		}
		created = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *taskService) List(ctx context.Context, userID string, c domain.TaskContainer) ([]*domain.Task, error) {
	var out []*domain.Task
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := checkContainer(ctx, tx, userID, c); err != nil {
			return err
		}
		var err error
		out, err = repository.NewSQLiteTaskRepo(tx).ListByContainer(ctx, c)
		return err
	})
	return out, err
}

func (s *taskService) Rename(ctx context.Context, userID, id, name string) (*domain.Task, error) {
	return s.update(ctx, userID, id, func(t domain.Task) domain.Task {
		t.Name, t.UpdatedAt = name, nowUTC()
		return t
	})
}

// Toggle flips the task's completion. Its order is unaffected.
func (s *taskService) Toggle(ctx context.Context, userID, id string) (*domain.Task, error) {
	return s.update(ctx, userID, id, func(t domain.Task) domain.Task {
		return t.Toggle(nowUTC())
	})
}

func (s *taskService) update(ctx context.Context, userID, id string, change func(domain.Task) domain.Task) (*domain.Task, error) {
	var updated *domain.Task
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tasks := repository.NewSQLiteTaskRepo(tx)
		t, err := tasks.GetForUser(ctx, userID, id)
		if err != nil {
			return err
		}
		next := change(*t)
		if err := validate.Task(next); err != nil {
			return err
		}
		if err := tasks.Update(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *taskService) Move(ctx context.Context, userID, id string, index int, dest *domain.TaskContainer) (result *Reordered[domain.Task], err error) {
	fields := map[string]any{"task": id, "index": index}
	if dest != nil {
		fields["container"] = dest.Key()
	}
	done := observe(ctx, s.observer, "task.move", fields)
	defer func() { done(err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tasks := repository.NewSQLiteTaskRepo(tx)
		t, err := tasks.GetForUser(ctx, userID, id)
		if err != nil {
			return err
		}
		from := t.Container()
		to := from
		if dest != nil && *dest != from {
			if err := checkContainer(ctx, tx, userID, *dest); err != nil {
				return err
			}
			to = *dest
		}

		source, err := tasks.ListByContainer(ctx, from)
		if err != nil {
			return err
		}
		now := nowUTC()

		if to == from {
			plan, err := ordering.MoveWithin(taskOrder.Entries(source), id, index)
			if err != nil {
				return err
			}
			if err := tasks.SetOrders(ctx, plan.Source, now); err != nil {
				return err
			}
			after, err := tasks.ListByContainer(ctx, from)
			if err != nil {
				return err
			}
			moved, _ := taskOrder.Find(after, id)
			result = &Reordered[domain.Task]{Item: moved, Source: after}
			return nil
		}

		destination, err := tasks.ListByContainer(ctx, to)
		if err != nil {
			return err
		}
		plan, err := ordering.MoveAcross(taskOrder.Entries(source), taskOrder.Entries(destination), id, index)
		if err != nil {
			return err
		}
		if err := tasks.Relocate(ctx, id, to, plan.Moved.Order, now); err != nil {
			return err
		}
		if err := tasks.SetOrders(ctx, plan.Source, now); err != nil {
			return err
		}
		if err := tasks.SetOrders(ctx, plan.Destination, now); err != nil {
			return err
		}

		sourceAfter, err := tasks.ListByContainer(ctx, from)
		if err != nil {
			return err
		}
		destAfter, err := tasks.ListByContainer(ctx, to)
		if err != nil {
			return err
		}
		moved, _ := taskOrder.Find(destAfter, id)
		result = &Reordered[domain.Task]{Item: moved, Source: sourceAfter, Destination: destAfter}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *taskService) Delete(ctx context.Context, userID, id string) (err error) {
	done := observe(ctx, s.observer, "task.delete", map[string]any{"task": id})
	defer func() { done(err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tasks := repository.NewSQLiteTaskRepo(tx)
		t, err := tasks.GetForUser(ctx, userID, id)
		if err != nil {
			return err
		}
		siblings, err := tasks.ListByContainer(ctx, t.Container())
		if err != nil {
			return err
		}
		if err := tasks.Delete(ctx, id); err != nil {
			return err
		}
		return tasks.SetOrders(ctx, ordering.Remove(taskOrder.Entries(siblings), id), nowUTC())
	})
}
