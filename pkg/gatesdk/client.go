package gatesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a thin HTTP client for the Gatehouse signup service. Signup
// operations are unauthenticated; administrative operations require the
// AdminToken to be set.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// AdminToken is sent as a bearer token on invite and settings
	// administration calls.
	AdminToken string
}

// NewClient creates a Gatehouse client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// RequestCode starts a signup attempt by asking for a code to be mailed.
func (c *Client) RequestCode(ctx context.Context, req RequestCodeRequest) (RequestCodeResponse, error) {
	var out RequestCodeResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/signup/request-code", req, &out, false)
	return out, err
}

// VerifyCode completes a signup attempt with the mailed 6-digit code.
func (c *Client) VerifyCode(ctx context.Context, req VerifyCodeRequest) (VerifyCodeResponse, error) {
	var out VerifyCodeResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/signup/verify-code", req, &out, false)
	return out, err
}

// ResendCode asks for the active code to be superseded and re-sent.
func (c *Client) ResendCode(ctx context.Context, email string) (RequestCodeResponse, error) {
	var out RequestCodeResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/signup/resend-code", ResendCodeRequest{Email: email}, &out, false)
	return out, err
}

// PublicSettings reads the safe subset of gating settings.
func (c *Client) PublicSettings(ctx context.Context) (PublicSettings, error) {
	var out PublicSettings
	err := c.doJSON(ctx, http.MethodGet, "/v1/settings", nil, &out, false)
	return out, err
}

// CreateInvite mints a new invite (admin).
func (c *Client) CreateInvite(ctx context.Context, req CreateInviteRequest) (InviteRecord, error) {
	var out InviteRecord
	err := c.doJSON(ctx, http.MethodPost, "/v1/admin/invites", req, &out, true)
	return out, err
}

// ListInvites returns all invites (admin).
func (c *Client) ListInvites(ctx context.Context) (InviteListResponse, error) {
	var out InviteListResponse
	err := c.doJSON(ctx, http.MethodGet, "/v1/admin/invites", nil, &out, true)
	return out, err
}

// GetInvite fetches a single invite by id (admin).
func (c *Client) GetInvite(ctx context.Context, id string) (InviteRecord, error) {
	var out InviteRecord
	err := c.doJSON(ctx, http.MethodGet, "/v1/admin/invites/"+id, nil, &out, true)
	return out, err
}

// UpdateInvite mutates an invite (admin).
func (c *Client) UpdateInvite(ctx context.Context, id string, req UpdateInviteRequest) (InviteRecord, error) {
	var out InviteRecord
	err := c.doJSON(ctx, http.MethodPatch, "/v1/admin/invites/"+id, req, &out, true)
	return out, err
}

// DeleteInvite removes an invite (admin).
func (c *Client) DeleteInvite(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/admin/invites/"+id, nil, nil, true)
}

// ValidateInvite checks a code without consuming a use (admin).
func (c *Client) ValidateInvite(ctx context.Context, req ValidateInviteRequest) (ValidateInviteResponse, error) {
	var out ValidateInviteResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/admin/invites/validate", req, &out, true)
	return out, err
}

// InviteLink returns a shareable signup URL for an invite (admin).
func (c *Client) InviteLink(ctx context.Context, id string) (InviteLinkResponse, error) {
	var out InviteLinkResponse
	err := c.doJSON(ctx, http.MethodGet, "/v1/admin/invites/"+id+"/link", nil, &out, true)
	return out, err
}

// GetInviteMode reads the invite-only flag (admin).
func (c *Client) GetInviteMode(ctx context.Context) (InviteModeSettings, error) {
	var out InviteModeSettings
	err := c.doJSON(ctx, http.MethodGet, "/v1/admin/settings/invite-mode", nil, &out, true)
	return out, err
}

// SetInviteMode toggles invite-only mode (admin).
func (c *Client) SetInviteMode(ctx context.Context, settings InviteModeSettings) error {
	return c.doJSON(ctx, http.MethodPut, "/v1/admin/settings/invite-mode", settings, nil, true)
}

// GetInviteRequirements reads the gating requirements (admin).
func (c *Client) GetInviteRequirements(ctx context.Context) (InviteRequirements, error) {
	var out InviteRequirements
	err := c.doJSON(ctx, http.MethodGet, "/v1/admin/settings/invite-requirements", nil, &out, true)
	return out, err
}

// SetInviteRequirements updates the gating requirements (admin).
func (c *Client) SetInviteRequirements(ctx context.Context, req InviteRequirements) error {
	return c.doJSON(ctx, http.MethodPut, "/v1/admin/settings/invite-requirements", req, nil, true)
}

// GetLiveness checks the liveness probe endpoint.
func (c *Client) GetLiveness(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.doJSON(ctx, http.MethodGet, "/livez", nil, &out, false)
	return out, err
}

// GetReadiness checks the readiness probe endpoint.
func (c *Client) GetReadiness(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, &out, false)
	return out, err
}

// doJSON performs a request with an optional JSON body, decodes a JSON
// response into out (when non-nil), and converts non-2xx responses into
// *APIError values.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, admin bool) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("Authorization", "Bearer "+c.AdminToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := parseErrorResponse(resp, raw); err != nil {
		return err
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}
	return nil
}
