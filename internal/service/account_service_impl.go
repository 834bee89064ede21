package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stratako/stratako/internal/db"
	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/identity"
	"github.com/stratako/stratako/internal/repository"
	"github.com/stratako/stratako/internal/validate"
)

var errBadCredentials = domain.Invalid("unable to log in with provided credentials")

type accountService struct {
	users    repository.UserRepo
	uow      db.UnitOfWork
	policy   identity.PasswordPolicy
	hasher   identity.Hasher
	issuer   identity.Issuer
	observer UseCaseObserver
}

func NewAccountService(
	users repository.UserRepo,
	uow db.UnitOfWork,
	policy identity.PasswordPolicy,
	hasher identity.Hasher,
	issuer identity.Issuer,
	observers ...UseCaseObserver,
) AccountService {
	return &accountService{
		users:    users,
		uow:      uow,
		policy:   policy,
		hasher:   hasher,
		issuer:   issuer,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *accountService) Signup(ctx context.Context, in Signup) (u *domain.User, err error) {
	done := observe(ctx, s.observer, "account.signup", nil)
	defer func() { done(err) }()

	now := nowUTC()
	user := &domain.User{
		ID:                     uuid.New().String(),
		Email:                  domain.NormalizeEmail(in.Email),
		Name:                   in.Name,
		DefaultProjectGrouping: domain.GroupingNone,
		ShowDoneProjects:       true,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := validate.User(*user); err != nil {
		return nil, err
	}
	if err := s.policy.Check(in.Password, user.Email, user.Name); err != nil {
		return nil, err
	}
	if user.PasswordHash, err = s.hasher.Hash(in.Password); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		users := repository.NewSQLiteUserRepo(tx)
		taken, err := users.EmailTaken(ctx, user.Email, "")
		if err != nil {
			return err
		}
		if taken {
			return emailTaken()
		}
		return users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func emailTaken() error {
	return validate.Field("email", errors.New("user with this email already exists"))
}

func (s *accountService) Login(ctx context.Context, email, password string) (token string, err error) {
	done := observe(ctx, s.observer, "account.login", nil)
	defer func() { done(err) }()

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", errBadCredentials
	}
	if err != nil {
		return "", err
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return "", errBadCredentials
	}
	if err := s.users.TouchLogin(ctx, u.ID, nowUTC()); err != nil {
		return "", err
	}
	return s.issuer.Issue(u)
}

func (s *accountService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.issuer.Verify(token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, claims.Subject)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	return u, err
}

func (s *accountService) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *accountService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*domain.User, error) {
	var updated *domain.User
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		users := repository.NewSQLiteUserRepo(tx)
		u, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if in.Name != nil {
			u.Name = *in.Name
		}
		if in.Email != nil {
			u.Email = domain.NormalizeEmail(*in.Email)
		}
		u.UpdatedAt = nowUTC()
		if err := validate.User(*u); err != nil {
			return err
		}
		if in.Email != nil {
			taken, err := users.EmailTaken(ctx, u.Email, u.ID)
			if err != nil {
				return err
			}
			if taken {
				return emailTaken()
			}
		}
		if err := users.Update(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ChangePassword requires the current password and applies the policy to
// the new one.
func (s *accountService) ChangePassword(ctx context.Context, userID, current, next string) (err error) {
	done := observe(ctx, s.observer, "account.change_password", nil)
	defer func() { done(err) }()

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(u.PasswordHash, current); err != nil {
		return validate.Field("current_password", errors.New("your current password was entered incorrectly"))
	}
	if err := s.policy.Check(next, u.Email, u.Name); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	return s.users.SetPassword(ctx, u.ID, hash, nowUTC())
}

func (s *accountService) UpdateSettings(ctx context.Context, userID string, in ProjectSettings) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.DefaultProjectGrouping != nil {
		u.DefaultProjectGrouping = *in.DefaultProjectGrouping
	}
	if in.ShowDoneProjects != nil {
		u.ShowDoneProjects = *in.ShowDoneProjects
	}
	u.UpdatedAt = nowUTC()
	if err := validate.User(*u); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes the user and everything they own.
func (s *accountService) Delete(ctx context.Context, userID string) (err error) {
	done := observe(ctx, s.observer, "account.delete", nil)
	defer func() { done(err) }()
	return s.users.Delete(ctx, userID)
}
