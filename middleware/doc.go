// Package middleware exposes HTTP middleware adapters over the auth
// engine: bearer-token authentication and role gating.
//
// Guard reads the Authorization header, calls Engine.VerifyAccessToken,
// and injects the verified identity into the request context. The role
// guards then decide pass or reject against the live user store, never
// against token claims alone.
//
// This package translates HTTP semantics into engine calls. It does not
// parse tokens or touch stores itself.
package middleware
