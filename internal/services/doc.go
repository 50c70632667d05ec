// Package services defines the [Session] interface for a streaming account and implements it over HTTP.
//
// # Session Interface
//
// The pipeline in package tasks only ever sees a [Session]. Tests substitute hand-written fakes.
//
// # Account API Implementation
//
// [AccountService] authenticates with the OAuth2 resource owner password grant
// ([oauth2.Config.PasswordCredentialsToken]). The [oauth2.Config.Client] it builds attaches and refreshes
// the bearer token on every request.
//
// Endpoints:
//   - GET  /api/profiles                 : profile list
//   - POST /api/profiles/{guid}/switch   : activate a profile
//   - GET  /api/ratings?pg=N&pgsize=S    : one page of rating history
//   - POST /api/ratings                  : rate a title ({"titleid":..., "rating":...})
//
// Rating history is paged; pages are requested in order and concatenated, preserving the service's order.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : Login called without email or password
//   - [shared.ErrAuthFailed] : token exchange rejected, or the API answered 401/403
//   - [shared.ErrNotAuthenticated] : Login not called
//   - [shared.ErrAPIRequest] : transport failure or any other non-2xx status
package services
