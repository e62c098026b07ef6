// Package identity provides the identity and access control core for a
// patient-record application: credential verification, signed-session (JWT)
// issuance and verification, role-derived capabilities, and the account
// administration engine.
//
// Invariant maintenance:
//   - The system must always retain at least one active admin. ChangeRole,
//     ToggleActive, and Delete share this guard; each one re-reads role,
//     active flag, and admin counts inside a serializable transaction so
//     that interleaved mutations cannot jointly drop the count to zero.
//   - Deletion is irreversible, so its guard counts every admin regardless
//     of active flag; demotion and deactivation count only active ones.
//
// Credential handling:
//   - Passwords are stored as bcrypt hashes. Login failures collapse unknown
//     account, inactive account, and wrong password into a single error so
//     valid emails cannot be enumerated.
//   - Tokens are HS256 JWTs carrying account ID, email, display name, role,
//     and an optional patient link. There is no revocation list; expiry is
//     the only termination mechanism, and verification failures are opaque.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter used by Auther and the
//     AccountManager to describe login and account mutation events. Sinks
//     run best-effort (errors are logged) so you can forward to a database
//     or queue without blocking authentication.
package identity
