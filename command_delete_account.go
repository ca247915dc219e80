package accounts

import (
	"context"

	"github.com/uptrace/bun"
)

// DeleteAccountMessage asks to delete the target account on behalf of the
// actor.
type DeleteAccountMessage struct {
	ActorID  int64 `json:"actor_id"`
	TargetID int64 `json:"target_id"`
}

func (m DeleteAccountMessage) Type() string { return "account.delete" }

// DeleteAccountHandler applies the guard rules, then removes the target
// account permanently. Deletion is not soft; the activity workflow covers
// reversible suspension.
type DeleteAccountHandler struct {
	repo   RepositoryManager
	logger Logger
}

func NewDeleteAccountHandler(repo RepositoryManager) *DeleteAccountHandler {
	return &DeleteAccountHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

func (h *DeleteAccountHandler) WithLogger(logger Logger) *DeleteAccountHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *DeleteAccountHandler) Execute(ctx context.Context, msg DeleteAccountMessage) error {
	return h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		actor, target, err := loadActorAndTarget(ctx, h.repo.Accounts(), tx, msg.ActorID, msg.TargetID)
		if err != nil {
			return err
		}

		if err := AuthorizeAccountDelete(actor, target); err != nil {
			return err
		}

		if err := h.repo.Accounts().DeleteTx(ctx, tx, msg.TargetID); err != nil {
			return err
		}

		h.logger.Info("account deleted", "target_id", msg.TargetID, "actor_id", msg.ActorID)
		return nil
	})
}
