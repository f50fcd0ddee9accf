// Package arr talks to Radarr and Sonarr instances over their v3 HTTP API.
package arr

import "errors"

var (
	// ErrUnavailable indicates the instance could not be reached, timed
	// out, or returned a server error.
	ErrUnavailable = errors.New("instance unavailable")

	// ErrAuth indicates the instance rejected the API key.
	ErrAuth = errors.New("invalid api key")

	// ErrProtocol indicates a response that does not match the v3 API shape.
	ErrProtocol = errors.New("unexpected api response")
)
