package gatesdk

import "time"

// ErrorResponse is the standard error body returned by every Gatehouse
// endpoint: a machine-checkable code plus a human-readable description.
type ErrorResponse struct {
	// Error is the stable error code (e.g., "invalid_request", "rate_limited")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`

	// RetryAfter is set on rate-limit and cooldown rejections (seconds)
	RetryAfter int `json:"retry_after,omitempty"`
}

// RequestCodeRequest asks for a verification code to be mailed to an address.
type RequestCodeRequest struct {
	Email string `json:"email"`

	// InviteCode is required when invite-only mode mandates one
	InviteCode string `json:"invite_code,omitempty"`
}

// RequestCodeResponse reports how long the mailed code remains valid.
type RequestCodeResponse struct {
	ExpiresIn int `json:"expires_in"`
}

// VerifyCodeRequest submits the mailed 6-digit code for verification.
type VerifyCodeRequest struct {
	Email      string `json:"email"`
	Code       string `json:"code"`
	InviteCode string `json:"invite_code,omitempty"`
}

// UserStub is the minimal user record created when a signup completes.
// Full user management lives outside this service.
type UserStub struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	InviteID  string    `json:"invite_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStub is the signed session token handed to a completed signup.
type SessionStub struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"` // always "Bearer"
	ExpiresIn int    `json:"expires_in"`
}

// VerifyCodeResponse is returned when a signup attempt completes.
type VerifyCodeResponse struct {
	User    UserStub    `json:"user"`
	Session SessionStub `json:"session"`
}

// ResendCodeRequest asks for the active code to be superseded and re-sent.
type ResendCodeRequest struct {
	Email string `json:"email"`
}

// CreateInviteRequest mints a new invite. Email and Domain are mutually
// exclusive restrictions; both empty means unrestricted.
type CreateInviteRequest struct {
	Email   string `json:"email,omitempty"`
	Domain  string `json:"domain,omitempty"`
	MaxUses int    `json:"max_uses"`

	// ExpiresAt is a Unix timestamp; zero means the invite never expires
	ExpiresAt int64  `json:"expires_at,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// UpdateInviteRequest mutates an existing invite. Nil fields are left
// untouched.
type UpdateInviteRequest struct {
	MaxUses   *int    `json:"max_uses,omitempty"`
	ExpiresAt *int64  `json:"expires_at,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	Status    *string `json:"status,omitempty"` // "active" or "revoked"
}

// InviteRecord is the full administrative view of an invite, including its
// code. The public surface never exposes this.
type InviteRecord struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	Email     string     `json:"email,omitempty"`
	Domain    string     `json:"domain,omitempty"`
	MaxUses   int        `json:"max_uses"`
	Uses      int        `json:"uses"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Status    string     `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// InviteListResponse wraps the admin list endpoint.
type InviteListResponse struct {
	Invites []InviteRecord `json:"invites"`
}

// ValidateInviteRequest checks a code without consuming a use.
type ValidateInviteRequest struct {
	Code  string `json:"code"`
	Email string `json:"email,omitempty"`
}

// ValidateInviteResponse reports the registry's verdict.
type ValidateInviteResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// InviteLinkResponse carries a shareable URL with the code embedded.
type InviteLinkResponse struct {
	URL string `json:"url"`
}

// InviteModeSettings toggles invite-only mode.
type InviteModeSettings struct {
	InviteOnly bool `json:"invite_only"`
}

// InviteRequirements configures what a signup attempt must present when
// invite-only mode is on.
type InviteRequirements struct {
	EmailDomainWhitelist []string `json:"email_domain_whitelist"`
	MustSupplyInviteKey  bool     `json:"must_supply_invite_key"`
}

// PublicSettings is the safe subset readable without authentication. The
// allowlist is deliberately excluded.
type PublicSettings struct {
	InviteOnly          bool `json:"invite_only"`
	MustSupplyInviteKey bool `json:"must_supply_invite_key"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the health probe endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
