// Package auth implements identity and group-scoped authorization.
//
// It contains three pieces:
//
//   - the sign-in gate (gate.go): maps a verified Google identity assertion
//     to an internal user record, creating accounts subject to the configured
//     registration policy;
//   - the Google OIDC provider (oidc.go): the OAuth2 code flow plumbing that
//     produces the identity assertion;
//   - the group context resolver (context.go, middleware.go): combines the
//     authenticated user, the selected-group cookie and the membership store
//     into a per-request authorization verdict.
//
// The resolver runs on every group-scoped request and is never cached:
// membership can change between requests, and the cookie is an untrusted
// hint. Consumers must treat any non-authorized verdict as a hard failure.
package auth
