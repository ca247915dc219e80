// Package accounts implements a user-account service core: registration,
// credential verification, access/refresh token issuance, role-based
// authorization, and profile-field mutation.
//
// Authorization:
//   - Accounts carry a Role drawn from a fixed hierarchy
//     (guest < user < moderator < admin < super_admin). Admin workflows
//     (role and activity changes) are gated by the guard rules in guard.go,
//     evaluated actor-vs-target before any write happens.
//
// Tokens:
//   - TokenService signs HS256 JWTs in two kinds. Access tokens are
//     short-lived and snapshot login and role at issuance; refresh tokens
//     carry only the subject so the account is re-read from storage on use.
//     Expiry is the only termination mechanism, there is no revocation list.
//
// Storage:
//   - All persistent state lives in the Accounts repository (Bun). Mutation
//     workflows run inside RepositoryManager.RunInTx so a failed commit
//     discards the staged change in full.
package accounts
