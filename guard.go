package accounts

// Guard rules for admin workflows, evaluated in order with the first failure
// winning:
//
//  1. the actor must exist and be active,
//  2. the actor's role must be above user,
//  3. the actor may never target itself,
//  4. a moderator may not grant admin or super admin, and may not touch a
//     target whose current role is moderator or higher.
//
// Admin and super admin face no restriction beyond rules 1-3. There is no
// rule stopping an admin from demoting a super admin.
//
// The target's activity flag is deliberately not checked: reactivating a
// deactivated account is the whole point of the activity workflow.

// AuthorizeRoleChange decides whether actor may set target's role to next.
func AuthorizeRoleChange(actor, target *Account, next Role) error {
	if err := authorizeAccountChange(actor, target); err != nil {
		return err
	}

	if actor.Role == RoleModerator && next.IsAtLeast(RoleAdmin) {
		return ErrModeratorAssignsAdmin
	}

	return nil
}

// AuthorizeActivityChange decides whether actor may toggle target's
// activity flag.
func AuthorizeActivityChange(actor, target *Account) error {
	return authorizeAccountChange(actor, target)
}

// AuthorizeAccountDelete decides whether actor may delete target.
func AuthorizeAccountDelete(actor, target *Account) error {
	return authorizeAccountChange(actor, target)
}

func authorizeAccountChange(actor, target *Account) error {
	if actor == nil {
		return ErrAccountNotFound
	}

	if !actor.IsActive {
		return ErrAccountDeactivated
	}

	if !actor.Role.IsAtLeast(RoleModerator) {
		return ErrInsufficientRole
	}

	if target == nil {
		return ErrAccountNotFound
	}

	if actor.ID == target.ID {
		return ErrSelfTarget
	}

	if actor.Role == RoleModerator && target.Role.IsAtLeast(RoleModerator) {
		return ErrModeratorTargetsPeer
	}

	return nil
}
