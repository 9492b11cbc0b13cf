package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/avalonfair/gatehouse/internal/gate/service"
	"github.com/avalonfair/gatehouse/pkg/cryptox"
	"github.com/avalonfair/gatehouse/pkg/gatesdk"
	"github.com/avalonfair/gatehouse/pkg/httpx"
	"github.com/avalonfair/gatehouse/pkg/slogx"
)

type SignupHandler struct {
	SignupService *service.SignupService
}

// originHash fingerprints the caller's network origin so rate windows can be
// keyed on it without storing raw addresses.
func originHash(r *http.Request) string {
	return cryptox.Fingerprint(httpx.IPKeyExtractor(r))
}

// HandleRequestCode godoc
//
//	@Summary		Request Verification Code
//	@Description	Starts a signup attempt: evaluates gating policy and rate limits, then mails a 6-digit verification code to the address.
//	@Tags			Signup
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.RequestCodeRequest	true	"Signup request"
//	@Success		200		{object}	gatesdk.RequestCodeResponse	"expires_in"
//	@Failure		400		{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Failure		429		{object}	gatesdk.ErrorResponse		"error, error_description, retry_after"
//	@Failure		500		{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Router			/v1/signup/request-code [post].
func (h *SignupHandler) HandleRequestCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req gatesdk.RequestCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.Email == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "email is required",
		})
		return
	}

	res, retryAfter, err := h.SignupService.RequestCode(ctx, req.Email, req.InviteCode, originHash(r))
	if err != nil {
		writeSignupError(ctx, w, err, retryAfter)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, gatesdk.RequestCodeResponse{
		ExpiresIn: int(res.ExpiresIn.Seconds()),
	})
}

// HandleVerifyCode godoc
//
//	@Summary		Verify Code
//	@Description	Finishes a signup attempt: spends the one-time code, consumes any bound invite, and returns the created user with a session token.
//	@Tags			Signup
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.VerifyCodeRequest	true	"Verification request"
//	@Success		200		{object}	gatesdk.VerifyCodeResponse	"user, session"
//	@Failure		400		{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Router			/v1/signup/verify-code [post].
func (h *SignupHandler) HandleVerifyCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req gatesdk.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.Email == "" || req.Code == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "email and code are required",
		})
		return
	}

	out, err := h.SignupService.VerifyCode(ctx, req.Email, req.Code, req.InviteCode)
	if err != nil {
		writeSignupError(ctx, w, err, 0)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, gatesdk.VerifyCodeResponse{
		User: gatesdk.UserStub{
			ID:        out.User.ID,
			Email:     out.User.Email,
			InviteID:  out.User.InviteID,
			CreatedAt: out.User.CreatedAt,
		},
		Session: gatesdk.SessionStub{
			Token:     out.Token,
			TokenType: "Bearer",
			ExpiresIn: int(out.TokenTTL.Seconds()),
		},
	})
}

// HandleResendCode godoc
//
//	@Summary		Resend Verification Code
//	@Description	Supersedes the outstanding code with a fresh one after the 60-second cooldown, carrying any invite binding forward.
//	@Tags			Signup
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.ResendCodeRequest	true	"Resend request"
//	@Success		200		{object}	gatesdk.RequestCodeResponse	"expires_in"
//	@Failure		400		{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Failure		429		{object}	gatesdk.ErrorResponse		"error, error_description, retry_after"
//	@Failure		500		{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Router			/v1/signup/resend-code [post].
func (h *SignupHandler) HandleResendCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req gatesdk.ResendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.Email == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "email is required",
		})
		return
	}

	res, retryAfter, err := h.SignupService.ResendCode(ctx, req.Email, originHash(r))
	if err != nil {
		writeSignupError(ctx, w, err, retryAfter)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, gatesdk.RequestCodeResponse{
		ExpiresIn: int(res.ExpiresIn.Seconds()),
	})
}

// writeSignupError maps service errors onto the wire taxonomy. Reason
// strings pass through verbatim; they are part of the API contract.
func writeSignupError(ctx context.Context, w http.ResponseWriter, err error, retryAfter time.Duration) {
	switch {
	case errors.Is(err, service.ErrRateLimited), errors.Is(err, service.ErrCooldown):
		seconds := int(retryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		httpx.WriteJSON(w, http.StatusTooManyRequests, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeRateLimited,
			ErrorDescription: err.Error(),
			RetryAfter:       seconds,
		})

	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrDisposableDomain),
		errors.Is(err, service.ErrInviteRequired),
		errors.Is(err, service.ErrDomainNotAllowed),
		errors.Is(err, service.ErrInviteNotFound),
		errors.Is(err, service.ErrInviteRevoked),
		errors.Is(err, service.ErrInviteExpired),
		errors.Is(err, service.ErrInviteExhausted),
		errors.Is(err, service.ErrInviteEmailMismatch),
		errors.Is(err, service.ErrInviteDomainMismatch):
		httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodePolicyRejected,
			ErrorDescription: err.Error(),
		})

	case errors.Is(err, service.ErrCodeNotFound),
		errors.Is(err, service.ErrCodeAlreadyUsed),
		errors.Is(err, service.ErrCodeExpired),
		errors.Is(err, service.ErrTooManyAttempts),
		errors.Is(err, service.ErrCodeMismatch),
		errors.Is(err, service.ErrInviteMismatch):
		httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeCodeRejected,
			ErrorDescription: err.Error(),
		})

	case errors.Is(err, service.ErrMailDispatch):
		httpx.WriteJSON(w, http.StatusBadGateway, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeServerError,
			ErrorDescription: "Failed to send verification email, please retry",
		})

	default:
		slogx.FromContext(ctx).Error("signup request failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeServerError,
			ErrorDescription: "Internal error",
		})
	}
}
