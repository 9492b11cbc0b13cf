package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/avalonfair/gatehouse/internal/gate/domain"
	"github.com/avalonfair/gatehouse/internal/gate/service"
	"github.com/avalonfair/gatehouse/pkg/gatesdk"
	"github.com/avalonfair/gatehouse/pkg/httpx"
	"github.com/avalonfair/gatehouse/pkg/slogx"
)

type InvitesHandler struct {
	InviteService *service.InviteService
}

func toInviteRecord(inv domain.Invite) gatesdk.InviteRecord {
	return gatesdk.InviteRecord{
		ID:        inv.ID,
		Code:      inv.Code,
		Email:     inv.Email,
		Domain:    inv.Domain,
		MaxUses:   inv.MaxUses,
		Uses:      inv.Uses,
		ExpiresAt: inv.ExpiresAt,
		Status:    string(inv.Status),
		Notes:     inv.Notes,
		CreatedBy: inv.CreatedBy,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}

// HandleCreate godoc
//
//	@Summary		Create Invite
//	@Description	Mints a new invite with a unique high-entropy code. Email and domain restrictions are mutually exclusive.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.CreateInviteRequest	true	"Invite parameters"
//	@Success		200		{object}	gatesdk.InviteRecord		"full record including code"
//	@Failure		400		{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Security		AdminAuth
//	@Router			/v1/admin/invites [post].
func (h *InvitesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req gatesdk.CreateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	var expiresAt *time.Time
	if req.ExpiresAt != 0 {
		t := time.Unix(req.ExpiresAt, 0).UTC()
		expiresAt = &t
	}

	inv, err := h.InviteService.Create(ctx, service.CreateInviteParams{
		Email:     req.Email,
		Domain:    req.Domain,
		MaxUses:   req.MaxUses,
		ExpiresAt: expiresAt,
		Notes:     req.Notes,
		CreatedBy: "admin",
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInviteRequest) {
			httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
				Error:            gatesdk.ErrorCodeInvalidRequest,
				ErrorDescription: err.Error(),
			})
			return
		}
		log.Error("failed to create invite", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeServerError,
			ErrorDescription: "Failed to create invite",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toInviteRecord(inv))
}

// HandleList godoc
//
//	@Summary		List Invites
//	@Description	Returns every invite, newest first.
//	@Tags			Invites
//	@Produce		json
//	@Success		200	{object}	gatesdk.InviteListResponse	"invites"
//	@Failure		401	{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Failure		500	{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Security		AdminAuth
//	@Router			/v1/admin/invites [get].
func (h *InvitesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	invites, err := h.InviteService.List(ctx)
	if err != nil {
		log.Error("failed to list invites", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeServerError,
			ErrorDescription: "Failed to list invites",
		})
		return
	}

	records := make([]gatesdk.InviteRecord, 0, len(invites))
	for _, inv := range invites {
		records = append(records, toInviteRecord(inv))
	}
	httpx.WriteJSON(w, http.StatusOK, gatesdk.InviteListResponse{Invites: records})
}

// HandleGet godoc
//
//	@Summary		Get Invite
//	@Description	Returns a single invite by id.
//	@Tags			Invites
//	@Produce		json
//	@Param			id	path		string					true	"Invite id"
//	@Success		200	{object}	gatesdk.InviteRecord	"full record"
//	@Failure		404	{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Security		AdminAuth
//	@Router			/v1/admin/invites/{id} [get].
func (h *InvitesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	inv, err := h.InviteService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeInviteAdminError(w, r, err, "Failed to fetch invite")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInviteRecord(inv))
}

// HandleUpdate godoc
//
//	@Summary		Update Invite
//	@Description	Patches an invite's mutable fields. Setting status to "revoked" permanently disables the invite.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Invite id"
//	@Param			request	body		gatesdk.UpdateInviteRequest	true	"Fields to update"
//	@Success		200		{object}	gatesdk.InviteRecord		"updated record"
//	@Failure		400		{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Security		AdminAuth
//	@Router			/v1/admin/invites/{id} [patch].
func (h *InvitesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req gatesdk.UpdateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	params := service.UpdateInviteParams{
		MaxUses: req.MaxUses,
		Notes:   req.Notes,
	}
	if req.ExpiresAt != nil {
		t := time.Unix(*req.ExpiresAt, 0).UTC()
		params.ExpiresAt = &t
	}
	if req.Status != nil {
		status := domain.InviteStatus(*req.Status)
		params.Status = &status
	}

	inv, err := h.InviteService.Update(ctx, r.PathValue("id"), params)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInviteRequest) {
			httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
				Error:            gatesdk.ErrorCodeInvalidRequest,
				ErrorDescription: err.Error(),
			})
			return
		}
		writeInviteAdminError(w, r, err, "Failed to update invite")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toInviteRecord(inv))
}

// HandleDelete godoc
//
//	@Summary		Delete Invite
//	@Description	Removes an invite permanently.
//	@Tags			Invites
//	@Produce		json
//	@Param			id	path	string	true	"Invite id"
//	@Success		204	"deleted"
//	@Failure		404	{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Security		AdminAuth
//	@Router			/v1/admin/invites/{id} [delete].
func (h *InvitesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.InviteService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeInviteAdminError(w, r, err, "Failed to delete invite")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleValidate godoc
//
//	@Summary		Validate Invite
//	@Description	Read-only consumability check. Reports a specific reason when the code cannot be used.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.ValidateInviteRequest	true	"Code and optional recipient"
//	@Success		200		{object}	gatesdk.ValidateInviteResponse	"valid, reason"
//	@Failure		400		{object}	gatesdk.ErrorResponse			"error, error_description"
//	@Security		AdminAuth
//	@Router			/v1/admin/invites/validate [post].
func (h *InvitesHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req gatesdk.ValidateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "code is required",
		})
		return
	}

	err := h.InviteService.Validate(ctx, req.Code, req.Email)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, gatesdk.ValidateInviteResponse{Valid: true})
	case isInviteVerdict(err):
		httpx.WriteJSON(w, http.StatusOK, gatesdk.ValidateInviteResponse{
			Valid:  false,
			Reason: err.Error(),
		})
	default:
		log.Error("failed to validate invite", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeServerError,
			ErrorDescription: "Failed to validate invite",
		})
	}
}

// HandleLink godoc
//
//	@Summary		Invite Share Link
//	@Description	Returns a shareable signup URL embedding the invite's code.
//	@Tags			Invites
//	@Produce		json
//	@Param			id	path		string						true	"Invite id"
//	@Success		200	{object}	gatesdk.InviteLinkResponse	"url"
//	@Failure		404	{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Security		AdminAuth
//	@Router			/v1/admin/invites/{id}/link [get].
func (h *InvitesHandler) HandleLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.InviteService.ShareLink(r.Context(), r.PathValue("id"))
	if err != nil {
		writeInviteAdminError(w, r, err, "Failed to build invite link")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gatesdk.InviteLinkResponse{URL: link})
}

// isInviteVerdict distinguishes a definitive registry verdict from an
// operational failure.
func isInviteVerdict(err error) bool {
	return errors.Is(err, service.ErrInviteNotFound) ||
		errors.Is(err, service.ErrInviteRevoked) ||
		errors.Is(err, service.ErrInviteExpired) ||
		errors.Is(err, service.ErrInviteExhausted) ||
		errors.Is(err, service.ErrInviteEmailMismatch) ||
		errors.Is(err, service.ErrInviteDomainMismatch)
}

func writeInviteAdminError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if errors.Is(err, service.ErrInviteNotFound) {
		httpx.WriteJSON(w, http.StatusNotFound, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeNotFound,
			ErrorDescription: "Invite not found",
		})
		return
	}
	slogx.FromContext(r.Context()).Error(fallback, "err", err)
	httpx.WriteJSON(w, http.StatusInternalServerError, gatesdk.ErrorResponse{
		Error:            gatesdk.ErrorCodeServerError,
		ErrorDescription: fallback,
	})
}
