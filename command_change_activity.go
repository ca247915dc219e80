package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// ChangeActivityMessage asks to toggle the target's activity flag. The
// target may already be inactive; reactivation is the point.
type ChangeActivityMessage struct {
	ActorID  int64 `json:"actor_id"`
	TargetID int64 `json:"target_id"`
	Active   bool  `json:"active"`
}

func (m ChangeActivityMessage) Type() string { return "account.change_activity" }

// ChangeActivityHandler applies the guard rules, then sets the target's
// activity flag. Setting the current value succeeds without a write.
type ChangeActivityHandler struct {
	repo   RepositoryManager
	logger Logger
	now    func() time.Time
}

func NewChangeActivityHandler(repo RepositoryManager) *ChangeActivityHandler {
	return &ChangeActivityHandler{
		repo:   repo,
		logger: defLogger{},
		now:    time.Now,
	}
}

func (h *ChangeActivityHandler) WithLogger(logger Logger) *ChangeActivityHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// WithClock injects a custom clock (useful for tests).
func (h *ChangeActivityHandler) WithClock(clock func() time.Time) *ChangeActivityHandler {
	if clock != nil {
		h.now = clock
	}
	return h
}

func (h *ChangeActivityHandler) Execute(ctx context.Context, msg ChangeActivityMessage) (*PublicAccount, error) {
	var target *Account

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		actor, targetRecord, err := loadActorAndTarget(ctx, h.repo.Accounts(), tx, msg.ActorID, msg.TargetID)
		if err != nil {
			return err
		}

		if err := AuthorizeActivityChange(actor, targetRecord); err != nil {
			return err
		}

		target = targetRecord

		if target.IsActive == msg.Active {
			return nil
		}

		target.IsActive = msg.Active
		target.UpdatedAt = h.now()

		if target, err = h.repo.Accounts().UpdateTx(ctx, tx, target); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update activity").
				WithMetadata(map[string]any{
					"target_id": msg.TargetID,
					"active":    msg.Active,
				})
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return NewPublicAccount(target), nil
}
