package constants

import "time"

// Context and session keys
const (
	ContextKeyUserID  = "user_id"
	ContextKeyUser    = "user"
	ContextKeyRequest = "request_id"
	SessionCookieName = "recipe_session"
)

// Auth
const (
	MinPasswordLength = 5
	DefaultTokenTTL   = 72 * time.Hour
	BearerPrefix      = "Bearer "
	HeaderRequestID   = "X-Request-ID"
)

// Recipe limits
const (
	MaxTitleLength = 255
	MaxLinkLength  = 255
	MaxLabelLength = 255
	PriceDigits    = 5
	PricePlaces    = 2
)

// Rate limiting for the unauthenticated user endpoints
const (
	AuthRequestsPerMinute = 10
	AuthBurst             = 5
	LimiterIdleTimeout    = 10 * time.Minute
)
