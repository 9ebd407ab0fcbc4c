package services

import (
	"context"
	"errors"
	"fmt"

	"suryaghar-backend/internal/models"
)

type userStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, role models.Role, parentID *int) ([]*models.User, error)
	ChildIDs(ctx context.Context, parentIDs ...int) ([]int, error)
	SetActive(ctx context.Context, userID int, isActive bool) error
	SetTOTPSecret(ctx context.Context, userID int, secret string) error
	EnableTOTP(ctx context.Context, userID int) error
	CountByRole(ctx context.Context, parentIDs []int) (map[models.Role]int, error)
}

type customerGetter interface {
	Get(ctx context.Context, id int) (*models.Customer, error)
}

// access answers "which customers may this partner see" for every service
// that hangs off a customer.
type access struct {
	customers customerGetter
	users     userStore
}

// customerFilter scopes customer queries to actor. Admins see everything,
// a DDP its own customers, a BDP the customers of its DDPs and a
// customer-partner the customers it referred.
func (a *access) customerFilter(ctx context.Context, actor models.Actor) (models.CustomerFilter, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return models.CustomerFilter{}, nil
	case models.RoleDDP:
		return models.CustomerFilter{DDPIDs: []int{actor.ID}}, nil
	case models.RoleBDP:
		ddps, err := a.users.ChildIDs(ctx, actor.ID)
		if err != nil {
			return models.CustomerFilter{}, fmt.Errorf("list district partners: %w", err)
		}
		if ddps == nil {
			ddps = []int{}
		}
		return models.CustomerFilter{DDPIDs: ddps}, nil
	case models.RoleCustomerPartner:
		id := actor.ID
		return models.CustomerFilter{ReferrerID: &id}, nil
	default:
		return models.CustomerFilter{}, forbidden("unknown role %q", actor.Role)
	}
}

// canSee reports whether c is inside actor's scope.
func (a *access) canSee(ctx context.Context, actor models.Actor, c *models.Customer) (bool, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return true, nil
	case models.RoleDDP:
		return c.DDPID == actor.ID, nil
	case models.RoleBDP:
		ddp, err := a.users.Get(ctx, c.DDPID)
		if err != nil {
			return false, fmt.Errorf("load district partner: %w", err)
		}
		return ddp.ParentID != nil && *ddp.ParentID == actor.ID, nil
	case models.RoleCustomerPartner:
		return c.ReferrerID != nil && *c.ReferrerID == actor.ID, nil
	default:
		return false, nil
	}
}

// customerFor loads a customer and checks actor may see it.
func (a *access) customerFor(ctx context.Context, actor models.Actor, id int) (*models.Customer, error) {
	c, err := a.customers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := a.canSee(ctx, actor, c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, forbidden("customer %d is outside your network", id)
	}
	return c, nil
}

// mutableCustomerFor is customerFor for writes. Customer-partners only
// ever read.
func (a *access) mutableCustomerFor(ctx context.Context, actor models.Actor, id int) (*models.Customer, error) {
	if actor.Role == models.RoleCustomerPartner {
		return nil, forbidden("customer-partners cannot modify customers")
	}
	return a.customerFor(ctx, actor, id)
}

// referrerScope lists the customer-partners whose referrals actor may see.
// nil means all of them.
func (a *access) referrerScope(ctx context.Context, actor models.Actor) ([]int, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return nil, nil
	case models.RoleCustomerPartner:
		return []int{actor.ID}, nil
	case models.RoleDDP:
		return a.children(ctx, actor.ID)
	case models.RoleBDP:
		ddps, err := a.children(ctx, actor.ID)
		if err != nil || len(ddps) == 0 {
			return ddps, err
		}
		return a.children(ctx, ddps...)
	default:
		return []int{}, nil
	}
}

func (a *access) children(ctx context.Context, parentIDs ...int) ([]int, error) {
	ids, err := a.users.ChildIDs(ctx, parentIDs...)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int{}
	}
	return ids, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
