package http

import (
	"encoding/json"
	"net/http"

	"github.com/avalonfair/gatehouse/internal/gate/service"
	"github.com/avalonfair/gatehouse/pkg/gatesdk"
	"github.com/avalonfair/gatehouse/pkg/httpx"
	"github.com/avalonfair/gatehouse/pkg/slogx"
)

type SettingsHandler struct {
	SettingsService *service.SettingsService
}

// HandleGetInviteMode godoc
//
//	@Summary		Get Invite Mode
//	@Description	Reports whether signup is currently invite-only.
//	@Tags			Settings
//	@Produce		json
//	@Success		200	{object}	gatesdk.InviteModeSettings	"invite_only"
//	@Failure		401	{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Failure		500	{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Security		AdminAuth
//	@Router			/v1/admin/settings/invite-mode [get].
func (h *SettingsHandler) HandleGetInviteMode(w http.ResponseWriter, r *http.Request) {
	settings, err := h.SettingsService.Get(r.Context())
	if err != nil {
		writeSettingsError(w, r, err, "Failed to read settings")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gatesdk.InviteModeSettings{
		InviteOnly: settings.InviteOnly,
	})
}

// HandleSetInviteMode godoc
//
//	@Summary		Set Invite Mode
//	@Description	Flips invite-only mode. Takes effect on the next policy evaluation.
//	@Tags			Settings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.InviteModeSettings	true	"Desired mode"
//	@Success		200		{object}	gatesdk.InviteModeSettings	"invite_only"
//	@Failure		400		{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Security		AdminAuth
//	@Router			/v1/admin/settings/invite-mode [put].
func (h *SettingsHandler) HandleSetInviteMode(w http.ResponseWriter, r *http.Request) {
	var req gatesdk.InviteModeSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	settings, err := h.SettingsService.SetInviteMode(r.Context(), req.InviteOnly)
	if err != nil {
		writeSettingsError(w, r, err, "Failed to update settings")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gatesdk.InviteModeSettings{
		InviteOnly: settings.InviteOnly,
	})
}

// HandleGetRequirements godoc
//
//	@Summary		Get Invite Requirements
//	@Description	Returns the domain allowlist and whether an invite key is mandatory.
//	@Tags			Settings
//	@Produce		json
//	@Success		200	{object}	gatesdk.InviteRequirements	"email_domain_whitelist, must_supply_invite_key"
//	@Failure		401	{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Failure		500	{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Security		AdminAuth
//	@Router			/v1/admin/settings/invite-requirements [get].
func (h *SettingsHandler) HandleGetRequirements(w http.ResponseWriter, r *http.Request) {
	settings, err := h.SettingsService.Get(r.Context())
	if err != nil {
		writeSettingsError(w, r, err, "Failed to read settings")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gatesdk.InviteRequirements{
		EmailDomainWhitelist: settings.DomainAllowlist,
		MustSupplyInviteKey:  settings.RequireInviteKey,
	})
}

// HandleSetRequirements godoc
//
//	@Summary		Set Invite Requirements
//	@Description	Replaces the domain allowlist and the mandatory-key flag. Allowlist entries are normalized to lowercase domains.
//	@Tags			Settings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.InviteRequirements	true	"Desired requirements"
//	@Success		200		{object}	gatesdk.InviteRequirements	"email_domain_whitelist, must_supply_invite_key"
//	@Failure		400		{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Security		AdminAuth
//	@Router			/v1/admin/settings/invite-requirements [put].
func (h *SettingsHandler) HandleSetRequirements(w http.ResponseWriter, r *http.Request) {
	var req gatesdk.InviteRequirements
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	settings, err := h.SettingsService.SetRequirements(r.Context(),
		req.EmailDomainWhitelist, req.MustSupplyInviteKey)
	if err != nil {
		writeSettingsError(w, r, err, "Failed to update settings")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gatesdk.InviteRequirements{
		EmailDomainWhitelist: settings.DomainAllowlist,
		MustSupplyInviteKey:  settings.RequireInviteKey,
	})
}

// HandlePublicSettings godoc
//
//	@Summary		Public Gating Settings
//	@Description	Safe subset of the gating configuration so clients can render the right signup form. The domain allowlist is never exposed here.
//	@Tags			Settings
//	@Produce		json
//	@Success		200	{object}	gatesdk.PublicSettings	"invite_only, must_supply_invite_key"
//	@Failure		500	{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Router			/v1/settings [get].
func (h *SettingsHandler) HandlePublicSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.SettingsService.Get(r.Context())
	if err != nil {
		writeSettingsError(w, r, err, "Failed to read settings")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gatesdk.PublicSettings{
		InviteOnly:          settings.InviteOnly,
		MustSupplyInviteKey: settings.RequireInviteKey,
	})
}

func writeSettingsError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	slogx.FromContext(r.Context()).Error(fallback, "err", err)
	httpx.WriteJSON(w, http.StatusInternalServerError, gatesdk.ErrorResponse{
		Error:            gatesdk.ErrorCodeServerError,
		ErrorDescription: fallback,
	})
}
