package models

const (
	// DefaultPageSize is used when a listing request omits size.
	DefaultPageSize = 10

	// MaxPageSize caps the size of a listing page.
	MaxPageSize = 100

	// DefaultUserHeader carries the acting user id on HTTP and gRPC requests.
	DefaultUserHeader = "X-Sharer-User-Id"

	// UserRateLimitRequests is the number of mutating requests a user may make per window.
	UserRateLimitRequests = 60

	// UserRateLimitWindow is the mutation rate limit window in seconds.
	UserRateLimitWindow = 60
)
