package accounts

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced to API clients alongside the human readable message.
const (
	TextCodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	TextCodeTokenExpired        = "TOKEN_EXPIRED"
	TextCodeTokenMalformed      = "TOKEN_MALFORMED"
	TextCodeWrongTokenKind      = "WRONG_TOKEN_KIND"
	TextCodeEmptyPassword       = "EMPTY_PASSWORD"
	TextCodeBadCredentials      = "BAD_CREDENTIALS"
	TextCodeAccountDeactivated  = "ACCOUNT_DEACTIVATED"
	TextCodeInsufficientRole    = "INSUFFICIENT_ROLE"
	TextCodeSelfTarget          = "SELF_TARGET"
	TextCodeModeratorRestricted = "MODERATOR_RESTRICTED"
	TextCodeDuplicateValue      = "DUPLICATE_VALUE"
	TextCodePasswordUnchanged   = "PASSWORD_UNCHANGED"
	TextCodeEmailMissing        = "EMAIL_MISSING"
	TextCodeEmailInvalid        = "EMAIL_INVALID"
	TextCodeInvalidRole         = "INVALID_ROLE"
)

// ErrAccountNotFound is returned when an actor or target account is absent.
var ErrAccountNotFound = goerrors.New("account not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrTokenExpired is returned when a token's expiry is in the past.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed covers bad structure and bad signatures alike.
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrWrongTokenKind is returned when a refresh token is presented where an
// access token is expected, or vice versa.
var ErrWrongTokenKind = goerrors.New("wrong token kind", goerrors.CategoryAuth).
	WithTextCode(TextCodeWrongTokenKind).
	WithCode(goerrors.CodeUnauthorized)

// ErrMismatchedHashAndPassword is the single error surfaced for bad
// credentials, regardless of which part was wrong.
var ErrMismatchedHashAndPassword = goerrors.New("invalid login or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeBadCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrAccountDeactivated is returned when a deactivated account tries to act.
var ErrAccountDeactivated = goerrors.New("account is deactivated", goerrors.CategoryAuthz).
	WithTextCode(TextCodeAccountDeactivated).
	WithCode(goerrors.CodeForbidden)

// ErrInsufficientRole is returned when the actor's role does not allow
// mutating other accounts.
var ErrInsufficientRole = goerrors.New("insufficient role to modify accounts", goerrors.CategoryAuthz).
	WithTextCode(TextCodeInsufficientRole).
	WithCode(goerrors.CodeForbidden)

// ErrSelfTarget rejects role or activity changes against the actor itself.
var ErrSelfTarget = goerrors.New("cannot change own role or activity", goerrors.CategoryBadInput).
	WithTextCode(TextCodeSelfTarget).
	WithCode(goerrors.CodeBadRequest)

// ErrModeratorAssignsAdmin blocks moderators from granting admin roles.
var ErrModeratorAssignsAdmin = goerrors.New("moderator cannot assign admin roles", goerrors.CategoryAuthz).
	WithTextCode(TextCodeModeratorRestricted).
	WithCode(goerrors.CodeForbidden)

// ErrModeratorTargetsPeer blocks moderators from touching accounts whose
// current role is moderator or higher.
var ErrModeratorTargetsPeer = goerrors.New("moderator cannot modify moderator or higher accounts", goerrors.CategoryAuthz).
	WithTextCode(TextCodeModeratorRestricted).
	WithCode(goerrors.CodeForbidden)

// ErrLoginTaken is the validation-time uniqueness failure for logins.
var ErrLoginTaken = goerrors.New("login already exists, please choose another", goerrors.CategoryValidation).
	WithTextCode(TextCodeDuplicateValue).
	WithCode(goerrors.CodeBadRequest)

// ErrNicknameTaken is the validation-time uniqueness failure for nicknames.
var ErrNicknameTaken = goerrors.New("nickname already taken, please choose another", goerrors.CategoryValidation).
	WithTextCode(TextCodeDuplicateValue).
	WithCode(goerrors.CodeBadRequest)

// ErrPasswordUnchanged rejects password changes to the current password.
var ErrPasswordUnchanged = goerrors.New("new password matches the current one", goerrors.CategoryValidation).
	WithTextCode(TextCodePasswordUnchanged).
	WithCode(goerrors.CodeBadRequest)

// ErrEmailMissing is returned when verify/delete run against an account
// without an email set.
var ErrEmailMissing = goerrors.New("account has no email set", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmailMissing).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidEmail rejects addresses that are not RFC shaped.
var ErrInvalidEmail = goerrors.New("invalid email format", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmailInvalid).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidRole rejects role values outside the hierarchy.
var ErrInvalidRole = goerrors.New("unknown role", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidRole).
	WithCode(goerrors.CodeBadRequest)
