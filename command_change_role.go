package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// ChangeRoleMessage asks to set the target's role on behalf of the actor.
type ChangeRoleMessage struct {
	ActorID  int64 `json:"actor_id"`
	TargetID int64 `json:"target_id"`
	Role     Role  `json:"role"`
}

func (m ChangeRoleMessage) Type() string { return "account.change_role" }

// Validate will run validation rules
func (m ChangeRoleMessage) Validate() error {
	if !m.Role.IsValid() {
		return ErrInvalidRole
	}
	return nil
}

// ChangeRoleHandler applies the guard rules, then sets the target's role.
// Setting the role it already has succeeds without a write.
type ChangeRoleHandler struct {
	repo   RepositoryManager
	logger Logger
	now    func() time.Time
}

func NewChangeRoleHandler(repo RepositoryManager) *ChangeRoleHandler {
	return &ChangeRoleHandler{
		repo:   repo,
		logger: defLogger{},
		now:    time.Now,
	}
}

func (h *ChangeRoleHandler) WithLogger(logger Logger) *ChangeRoleHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// WithClock injects a custom clock (useful for tests).
func (h *ChangeRoleHandler) WithClock(clock func() time.Time) *ChangeRoleHandler {
	if clock != nil {
		h.now = clock
	}
	return h
}

func (h *ChangeRoleHandler) Execute(ctx context.Context, msg ChangeRoleMessage) (*PublicAccount, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	var target *Account

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		actor, targetRecord, err := loadActorAndTarget(ctx, h.repo.Accounts(), tx, msg.ActorID, msg.TargetID)
		if err != nil {
			return err
		}

		if err := AuthorizeRoleChange(actor, targetRecord, msg.Role); err != nil {
			return err
		}

		target = targetRecord

		if target.Role == msg.Role {
			return nil
		}

		target.Role = msg.Role
		target.UpdatedAt = h.now()

		if target, err = h.repo.Accounts().UpdateTx(ctx, tx, target); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update role").
				WithMetadata(map[string]any{
					"target_id": msg.TargetID,
					"role":      msg.Role,
				})
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return NewPublicAccount(target), nil
}

// loadActorAndTarget fetches both sides of an admin mutation. A missing
// target is returned as nil so the guard can order its checks; a missing
// actor is an immediate NotFound.
func loadActorAndTarget(ctx context.Context, store Accounts, tx bun.IDB, actorID, targetID int64) (*Account, *Account, error) {
	actor, err := store.GetByIDTx(ctx, tx, actorID)
	if err != nil {
		return nil, nil, err
	}

	target, err := store.GetByIDTx(ctx, tx, targetID)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return actor, nil, nil
		}
		return nil, nil, err
	}

	return actor, target, nil
}
