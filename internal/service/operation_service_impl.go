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

type operationService struct {
	operations repository.OperationRepo
	slots      repository.SlotRepo
	uow        db.UnitOfWork
	observer   UseCaseObserver
}

func NewOperationService(operations repository.OperationRepo, slots repository.SlotRepo, uow db.UnitOfWork, observers ...UseCaseObserver) OperationService {
	return &operationService{
		operations: operations,
		slots:      slots,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *operationService) Create(ctx context.Context, userID, slotID string, in NewOperation) (*domain.Operation, error) {
	var id string
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		slots := repository.NewSQLiteSlotRepo(tx)
		ops := repository.NewSQLiteOperationRepo(tx)

		slot, err := slots.GetForUser(ctx, userID, slotID)
		if err != nil {
			return err
		}

		now := nowUTC()
		op := &domain.Operation{
			ID:          uuid.New().String(),
			SlotID:      slot.ID,
			Name:        in.Name,
			Description: in.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if in.Started {
			if slot.HasActiveOperation() {
				return domain.Invalid("slot %q already has an active operation", slot.Name)
			}
			day := domain.Day(now)
			op.Started = &day
		} else {
			count := 0
			if in.Order == nil {
				if count, err = ops.CountFuture(ctx, slot.ID); err != nil {
					return err
				}
			}
			order := resolveOrder(in.Order, count)
			op.Order = &order
		}
		if err := validate.Operation(*op); err != nil {
			return err
		}

		existing, err := ops.ListBySlot(ctx, slot.ID)
		if err != nil {
			return err
		}
		if err := ops.Create(ctx, op); err != nil {
			return err
		}
		if err := ops.Reindex(ctx, nil, slotPositions(append(existing, op)), now); err != nil {
			return err
		}
		if op.Started != nil {
			if err := slots.SetActiveOperation(ctx, slot.ID, &op.ID, now); err != nil {
				return err
			}
		}
		id = op.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.operations.GetForUser(ctx, userID, id)
}

func (s *operationService) List(ctx context.Context, userID, slotID string) ([]*domain.Operation, error) {
	if _, err := s.slots.GetForUser(ctx, userID, slotID); err != nil {
		return nil, err
	}
	return s.operations.ListBySlot(ctx, slotID)
}

func (s *operationService) Get(ctx context.Context, userID, id string) (*domain.Operation, error) {
	return s.operations.GetForUser(ctx, userID, id)
}

func (s *operationService) Update(ctx context.Context, userID, id, name, description string) (*domain.Operation, error) {
	var updated *domain.Operation
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		ops := repository.NewSQLiteOperationRepo(tx)
		op, err := ops.GetForUser(ctx, userID, id)
		if err != nil {
			return err
		}
		op.Name, op.Description, op.UpdatedAt = name, description, nowUTC()
		if err := validate.Operation(*op); err != nil {
			return err
		}
		if err := ops.Update(ctx, op); err != nil {
			return err
		}
		updated = op
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *operationService) Move(ctx context.Context, userID, id string, index int, destSlotID string) (result *Reordered[domain.Operation], err error) {
	done := observe(ctx, s.observer, "operation.move", map[string]any{"operation": id, "index": index, "slot": destSlotID})
	defer func() { done(err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		slots := repository.NewSQLiteSlotRepo(tx)
		ops := repository.NewSQLiteOperationRepo(tx)

		op, err := ops.GetForUser(ctx, userID, id)
		if err != nil {
			return err
		}
		if !op.IsFuture() {
			return fmt.Errorf("operation is %s: %w", op.State(), ordering.ErrNotOrderable)
		}
		if destSlotID == "" {
			destSlotID = op.SlotID
		}
		if destSlotID != op.SlotID {
			if _, err := slots.GetForUser(ctx, userID, destSlotID); err != nil {
				return err
			}
		}

		source, err := ops.ListBySlot(ctx, op.SlotID)
		if err != nil {
			return err
		}
		now := nowUTC()

		if destSlotID == op.SlotID {
			plan, err := ordering.MoveWithin(operationOrder.Entries(source), id, index)
			if err != nil {
				return err
			}
			positions := slotPositions(withOrders(source, plan.Source))
			if err := ops.Reindex(ctx, plan.Source, positions, now); err != nil {
				return err
			}
			after, err := ops.ListBySlot(ctx, op.SlotID)
			if err != nil {
				return err
			}
			moved, _ := operationOrder.Find(after, id)
			result = &Reordered[domain.Operation]{Item: moved, Source: after}
			return nil
		}

		dest, err := ops.ListBySlot(ctx, destSlotID)
		if err != nil {
			return err
		}
		plan, err := ordering.MoveAcross(operationOrder.Entries(source), operationOrder.Entries(dest), id, index)
		if err != nil {
			return err
		}
		if err := ops.Relocate(ctx, id, destSlotID, plan.Moved.Order, now); err != nil {
			return err
		}

		remaining := withOrders(withoutOperation(source, id), plan.Source)
		if err := ops.Reindex(ctx, plan.Source, slotPositions(remaining), now); err != nil {
			return err
		}

		arrived := *op
		arrived.SlotID = destSlotID
		arrived.Order = &plan.Moved.Order
		incoming := withOrders(append(dest, &arrived), plan.Destination)
		if err := ops.Reindex(ctx, plan.Destination, slotPositions(incoming), now); err != nil {
			return err
		}

		sourceAfter, err := ops.ListBySlot(ctx, op.SlotID)
		if err != nil {
			return err
		}
		destAfter, err := ops.ListBySlot(ctx, destSlotID)
		if err != nil {
			return err
		}
		moved, _ := operationOrder.Find(destAfter, id)
		result = &Reordered[domain.Operation]{Item: moved, Source: sourceAfter, Destination: destAfter}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Activate starts a future operation and makes it the slot's active one.
// The remaining future operations close the gap.
func (s *operationService) Activate(ctx context.Context, userID, id string) (result *domain.Operation, err error) {
	done := observe(ctx, s.observer, "operation.activate", map[string]any{"operation": id})
	defer func() { done(err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		slots := repository.NewSQLiteSlotRepo(tx)
		ops := repository.NewSQLiteOperationRepo(tx)

		op, err := ops.GetForUser(ctx, userID, id)
		if err != nil {
			return err
		}
		slot, err := slots.GetForUser(ctx, userID, op.SlotID)
		if err != nil {
			return err
		}
		if slot.HasActiveOperation() && *slot.OperationID != op.ID {
			return domain.Invalid("slot %q already has an active operation", slot.Name)
		}

		now := nowUTC()
		activated, err := op.Activate(now)
		if err != nil {
			return err
		}

		all, err := ops.ListBySlot(ctx, op.SlotID)
		if err != nil {
			return err
		}
		orders := ordering.Remove(operationOrder.Entries(all), id)
		positions := slotPositions(withOrders(replaceOperation(all, &activated), orders))

		if err := ops.Update(ctx, &activated); err != nil {
			return err
		}
		if err := ops.Reindex(ctx, orders, positions, now); err != nil {
			return err
		}
		if err := slots.SetActiveOperation(ctx, slot.ID, &activated.ID, now); err != nil {
			return err
		}

		result, err = ops.GetForUser(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Complete finishes a started operation and clears the slot's pointer to it.
func (s *operationService) Complete(ctx context.Context, userID, id string) (result *domain.Operation, err error) {
	done := observe(ctx, s.observer, "operation.complete", map[string]any{"operation": id})
	defer func() { done(err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		slots := repository.NewSQLiteSlotRepo(tx)
		ops := repository.NewSQLiteOperationRepo(tx)

		op, err := ops.GetForUser(ctx, userID, id)
		if err != nil {
			return err
		}
		now := nowUTC()
		completed, err := op.Complete(now)
		if err != nil {
			return err
		}

		all, err := ops.ListBySlot(ctx, op.SlotID)
		if err != nil {
			return err
		}
		if err := ops.Update(ctx, &completed); err != nil {
			return err
		}
		if err := ops.Reindex(ctx, nil, slotPositions(replaceOperation(all, &completed)), now); err != nil {
			return err
		}

		slot, err := slots.GetForUser(ctx, userID, op.SlotID)
		if err != nil {
			return err
		}
		if slot.HasActiveOperation() && *slot.OperationID == op.ID {
			if err := slots.SetActiveOperation(ctx, slot.ID, nil, now); err != nil {
				return err
			}
		}

		result, err = ops.GetForUser(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the operation with its tasks and clears the slot pointer
// when it referenced the operation.
func (s *operationService) Delete(ctx context.Context, userID, id string) (err error) {
	done := observe(ctx, s.observer, "operation.delete", map[string]any{"operation": id})
	defer func() { done(err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		ops := repository.NewSQLiteOperationRepo(tx)
		slots := repository.NewSQLiteSlotRepo(tx)
		now := nowUTC()

		op, err := ops.GetForUser(ctx, userID, id)
		if err != nil {
			return err
		}
		all, err := ops.ListBySlot(ctx, op.SlotID)
		if err != nil {
			return err
		}
		if op.State() == domain.OperationStarted {
			slot, err := slots.GetForUser(ctx, userID, op.SlotID)
			if err != nil {
				return err
			}
			if slot.HasActiveOperation() && *slot.OperationID == op.ID {
				if err := slots.SetActiveOperation(ctx, slot.ID, nil, now); err != nil {
					return err
				}
			}
		}
		if err := ops.Delete(ctx, id); err != nil {
			return err
		}

		var orders []ordering.Assignment
		if op.IsFuture() {
			orders = ordering.Remove(operationOrder.Entries(all), id)
		}
		remaining := withOrders(withoutOperation(all, id), orders)
		return ops.Reindex(ctx, orders, slotPositions(remaining), now)
	})
}
