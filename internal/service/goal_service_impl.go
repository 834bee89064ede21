package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stratako/stratako/internal/db"
	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/ordering"
	"github.com/stratako/stratako/internal/repository"
	"github.com/stratako/stratako/internal/validate"
)

type goalService struct {
	goals    repository.GoalRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewGoalService(goals repository.GoalRepo, uow db.UnitOfWork, observers ...UseCaseObserver) GoalService {
	return &goalService{goals: goals, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *goalService) Create(ctx context.Context, userID, categoryID, name, description string, order *int) (*domain.Goal, error) {
	var created *domain.Goal
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteGoalCategoryRepo(tx).GetForUser(ctx, userID, categoryID); err != nil {
			return err
		}
		goals := repository.NewSQLiteGoalRepo(tx)
		count := 0
		if order == nil {
			var err error
			if count, err = goals.CountByCategory(ctx, categoryID); err != nil {
				return err
			}
		}
		now := nowUTC()
		g := &domain.Goal{
			ID:          uuid.New().String(),
			CategoryID:  categoryID,
			Name:        name,
			Description: description,
			Order:       resolveOrder(order, count),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := validate.Goal(*g); err != nil {
			return err
		}
		if err := goals.Create(ctx, g); err != nil {
			return err
		}
		created = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *goalService) List(ctx context.Context, userID, categoryID string) ([]*domain.Goal, error) {
	var out []*domain.Goal
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteGoalCategoryRepo(tx).GetForUser(ctx, userID, categoryID); err != nil {
			return err
		}
		var err error
		out, err = repository.NewSQLiteGoalRepo(tx).ListByCategory(ctx, categoryID)
		return err
	})
	return out, err
}

func (s *goalService) Update(ctx context.Context, userID, id, name, description string) (*domain.Goal, error) {
	return s.update(ctx, userID, id, func(g domain.Goal) domain.Goal {
		g.Name, g.Description, g.UpdatedAt = name, description, nowUTC()
		return g
	})
}

func (s *goalService) Toggle(ctx context.Context, userID, id string) (*domain.Goal, error) {
	return s.update(ctx, userID, id, func(g domain.Goal) domain.Goal {
		return g.Toggle(nowUTC())
	})
}

func (s *goalService) update(ctx context.Context, userID, id string, change func(domain.Goal) domain.Goal) (*domain.Goal, error) {
	var updated *domain.Goal
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		goals := repository.NewSQLiteGoalRepo(tx)
		g, err := goals.GetForUser(ctx, userID, id)
		if err != nil {
			return err
		}
		next := change(*g)
		if err := validate.Goal(next); err != nil {
			return err
		}
		if err := goals.Update(ctx, &next); err != nil {
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

func (s *goalService) Move(ctx context.Context, userID, id string, index int, destCategoryID string) (result *Reordered[domain.Goal], err error) {
	done := observe(ctx, s.observer, "goal.move", map[string]any{"goal": id, "index": index, "category": destCategoryID})
	defer func() { done(err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		goals := repository.NewSQLiteGoalRepo(tx)
		g, err := goals.GetForUser(ctx, userID, id)
		if err != nil {
			return err
		}
		from := g.CategoryID
		to := from
		if destCategoryID != "" && destCategoryID != from {
			if _, err := repository.NewSQLiteGoalCategoryRepo(tx).GetForUser(ctx, userID, destCategoryID); err != nil {
				return err
			}
			to = destCategoryID
		}

		source, err := goals.ListByCategory(ctx, from)
		if err != nil {
			return err
		}
		now := nowUTC()

		if to == from {
			plan, err := ordering.MoveWithin(goalOrder.Entries(source), id, index)
			if err != nil {
				return err
			}
			if err := goals.SetOrders(ctx, plan.Source, now); err != nil {
				return err
			}
			after, err := goals.ListByCategory(ctx, from)
			if err != nil {
				return err
			}
			moved, _ := goalOrder.Find(after, id)
			result = &Reordered[domain.Goal]{Item: moved, Source: after}
			return nil
		}

		destination, err := goals.ListByCategory(ctx, to)
		if err != nil {
			return err
		}
		plan, err := ordering.MoveAcross(goalOrder.Entries(source), goalOrder.Entries(destination), id, index)
		if err != nil {
			return err
		}
		if err := goals.Relocate(ctx, id, to, plan.Moved.Order, now); err != nil {
			return err
		}
		if err := goals.SetOrders(ctx, plan.Source, now); err != nil {
			return err
		}
		if err := goals.SetOrders(ctx, plan.Destination, now); err != nil {
			return err
		}

		sourceAfter, err := goals.ListByCategory(ctx, from)
		if err != nil {
			return err
		}
		destAfter, err := goals.ListByCategory(ctx, to)
		if err != nil {
			return err
		}
		moved, _ := goalOrder.Find(destAfter, id)
		result = &Reordered[domain.Goal]{Item: moved, Source: sourceAfter, Destination: destAfter}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *goalService) Delete(ctx context.Context, userID, id string) (err error) {
	done := observe(ctx, s.observer, "goal.delete", map[string]any{"goal": id})
	defer func() { done(err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		goals := repository.NewSQLiteGoalRepo(tx)
		g, err := goals.GetForUser(ctx, userID, id)
		if err != nil {
			return err
		}
		siblings, err := goals.ListByCategory(ctx, g.CategoryID)
		if err != nil {
			return err
		}
		if err := goals.Delete(ctx, id); err != nil {
			return err
		}
		return goals.SetOrders(ctx, ordering.Remove(goalOrder.Entries(siblings), id), nowUTC())
	})
}
