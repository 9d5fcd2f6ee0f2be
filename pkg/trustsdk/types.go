package trustsdk

import "time"

// Credentials is the body of the register and login endpoints.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse is returned by register, login and refresh. The tokens
// themselves travel only in HttpOnly cookies.
type SessionResponse struct {
	Subject          string    `json:"subject"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`

	// MigratedItems counts guest cart lines handed to the account.
	MigratedItems int `json:"migrated_items"`
}

// IdentityResponse describes the caller as the server resolved it.
type IdentityResponse struct {
	// State is "unauthenticated", "anonymous" or "authenticated".
	State     string     `json:"state"`
	Subject   string     `json:"subject,omitempty"`
	Username  string     `json:"username,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// TokenExpired means an expired access token was presented; call
	// refresh before logging in again.
	TokenExpired bool `json:"token_expired,omitempty"`
}

// CSRFTokenResponse carries a token to echo in the X-CSRF-Token header.
type CSRFTokenResponse struct {
	CSRFToken string `json:"csrf_token"`
}

// AddCartItemRequest is the body of POST /v1/cart/items.
type AddCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CartItem struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartResponse lists a cart. Owner is "anonymous", "subject" or "" for a
// caller with no cart yet.
type CartResponse struct {
	Owner string     `json:"owner"`
	Items []CartItem `json:"items"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports each dependency checked by /readyz.
type HealthChecks struct {
	Database  string `json:"database"`
	Signer    string `json:"signer"`
	CSRFStore string `json:"csrf_store,omitempty"`
}
