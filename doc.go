// Package motorauth is the authentication, session, and role-authorization
// core of the Motorghar admin platform.
//
// The Engine orchestrates the credential lifecycle: login issues an access
// and a refresh token and binds the refresh token to a session row; refresh
// mints a new access token against a live session; logout revokes the
// session and blacklists the access token for its remaining natural
// lifetime. The Authorizer layers live role checks on top of a verified
// token payload.
//
// Persistence is pluggable: the engine talks to a UserStore, a
// session.Store, and a RevocationStore. Shipping implementations live in
// the pgstore (Postgres) and redistore (Redis) packages; hosts own the
// store lifecycle and inject them through the Builder.
package motorauth
