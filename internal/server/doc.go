// Package server runs the short-lived local HTTP server used by the authorization code login.
//
// # Router
//
// [BasicRouter] wraps [http.ServeMux] with method filtering and a [Middleware] stack.
// Middleware is applied in reverse order (last added executes first).
//
// # OAuth Callback
//
// [OAuthHandler] receives the redirect from the accounts service. It checks the state
// parameter, hands the code to an [Exchanger] and reports the outcome once on [OAuthHandler.Result].
// Later callbacks are rejected.
//
// [Serve] runs a router until its context ends, then shuts it down.
package server
