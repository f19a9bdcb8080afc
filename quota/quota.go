package quota

import (
	"context"

	"fashion-studio/apperr"
	"fashion-studio/models"
	"fashion-studio/store"
)

// Status is the quota view returned to users and admins.
type Status struct {
	DesignsLimit     int  `json:"designs_limit"`
	DesignsUsed      int  `json:"designs_used"`
	DesignsRemaining int  `json:"designs_remaining"`
	IsUnlimited      bool `json:"is_unlimited"`
}

// Check reports whether u may generate another design and how many remain.
// Unlimited users always pass with remaining -1.
func Check(u models.User) (allowed bool, remaining int) {
	if u.Unlimited() {
		return true, models.Unlimited
	}
	remaining = u.DesignsLimit - u.DesignsUsed
	if remaining < 0 {
		remaining = 0
	}
	return u.DesignsUsed < u.DesignsLimit, remaining
}

func StatusOf(u models.User) Status {
	_, remaining := Check(u)
	return Status{
		DesignsLimit:     u.DesignsLimit,
		DesignsUsed:      u.DesignsUsed,
		DesignsRemaining: remaining,
		IsUnlimited:      u.Unlimited(),
	}
}

type Tracker struct {
	users store.UserStore
}

func NewTracker(users store.UserStore) *Tracker {
	return &Tracker{users: users}
}

// Ensure fails with LimitExceeded when the user has no generation left.
func (t *Tracker) Ensure(ctx context.Context, userID string) (*models.User, error) {
	u, err := t.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ok, _ := Check(*u); !ok {
		return u, apperr.LimitExceeded("Design generation limit reached, contact an administrator for more")
	}
	return u, nil
}

// Consume records one successful generation. It must only be called after
// the design was produced.
func (t *Tracker) Consume(ctx context.Context, userID string) error {
	return t.users.IncrementDesignsUsed(ctx, userID)
}

func (t *Tracker) Status(ctx context.Context, userID string) (Status, error) {
	u, err := t.users.GetUser(ctx, userID)
	if err != nil {
		return Status{}, err
	}
	return StatusOf(*u), nil
}

func (t *Tracker) Reset(ctx context.Context, userID string) (Status, error) {
	if err := t.users.ResetDesignsUsed(ctx, userID); err != nil {
		return Status{}, err
	}
	return t.Status(ctx, userID)
}

// AddToLimit raises a finite limit by amount. Unlimited users stay unlimited.
func (t *Tracker) AddToLimit(ctx context.Context, userID string, amount int) (Status, error) {
	if amount <= 0 {
		return Status{}, apperr.InvalidArgument("amount must be positive")
	}
	if err := t.users.AddDesignsLimit(ctx, userID, amount); err != nil {
		return Status{}, err
	}
	return t.Status(ctx, userID)
}

// SetLimit replaces the limit; -1 makes the user unlimited.
func (t *Tracker) SetLimit(ctx context.Context, userID string, limit int) (Status, error) {
	if limit < models.Unlimited {
		return Status{}, apperr.InvalidArgument("designs_limit must be -1 (unlimited) or a non-negative number")
	}
	if err := t.users.SetDesignsLimit(ctx, userID, limit); err != nil {
		return Status{}, err
	}
	return t.Status(ctx, userID)
}
