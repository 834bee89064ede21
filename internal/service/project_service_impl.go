package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stratako/stratako/internal/db"
	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/repository"
	"github.com/stratako/stratako/internal/validate"
)

const defaultProjectColor = "#808080"

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
}

func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork) ProjectService {
	return &projectService{projects: projects, uow: uow}
}

func (s *projectService) Create(ctx context.Context, userID string, in ProjectInput) (*domain.Project, error) {
	now := nowUTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
	}
	if err := s.save(ctx, p, in, now, true); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) Get(ctx context.Context, userID, id string) (*domain.Project, error) {
	return s.projects.GetForUser(ctx, userID, id)
}

func (s *projectService) List(ctx context.Context, userID string, includeDone bool) ([]*domain.Project, error) {
	all, err := s.projects.ListByUser(ctx, userID)
	if err != nil || includeDone {
		return all, err
	}
	open := all[:0]
	for _, p := range all {
		if !p.Status.IsDone() {
			open = append(open, p)
		}
	}
	return open, nil
}

func (s *projectService) Update(ctx context.Context, userID, id string, in ProjectInput) (*domain.Project, error) {
	p, err := s.projects.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, p, in, nowUTC(), false); err != nil {
		return nil, err
	}
	return p, nil
}

// save applies in to p and writes it. The category, when set, must belong
// to the project's owner.
func (s *projectService) save(ctx context.Context, p *domain.Project, in ProjectInput, now time.Time, create bool) error {
	p.CategoryID = in.CategoryID
	p.Name = in.Name
	p.Description = in.Description
	p.Color = in.Color
	if p.Color == "" {
		p.Color = defaultProjectColor
	}
	p.Status = in.Status
	if p.Status == 0 {
		p.Status = domain.ProjectNotStarted
	}
	p.UpdatedAt = now
	if err := validate.Project(*p); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if p.CategoryID != nil && *p.CategoryID != "" {
			if _, err := repository.NewSQLiteProjectCategoryRepo(tx).GetForUser(ctx, p.UserID, *p.CategoryID); err != nil {
				return err
			}
		}
		projects := repository.NewSQLiteProjectRepo(tx)
		if create {
			return projects.Create(ctx, p)
		}
		return projects.Update(ctx, p)
	})
}

// Delete removes the project together with its tasks.
func (s *projectService) Delete(ctx context.Context, userID, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		if _, err := projects.GetForUser(ctx, userID, id); err != nil {
			return err
		}
		return projects.Delete(ctx, id)
	})
}
