package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
	"github.com/aussiebroadwan/gymgate/internal/auth/service"
	"github.com/aussiebroadwan/gymgate/pkg/gymsdk"
	"github.com/aussiebroadwan/gymgate/pkg/httpx"
	"github.com/aussiebroadwan/gymgate/pkg/slogx"
)

type InvitesHandler struct {
	Invites *service.InviteService

	// DefaultHours applies when a request leaves expiresInHours out.
	DefaultHours int
}

// HandleGenerate godoc
//
//	@Summary		Generate invite codes
//	@Description	Creates a batch of single-use invite codes. Duplicate codes are skipped, so count may be lower than quantity. Owner only; the role is re-read from storage.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gymsdk.GenerateInvitesRequest	false	"Batch size and expiry"
//	@Success		201		{object}	gymsdk.GenerateInvitesResponse
//	@Failure		400		{object}	gymsdk.ValidationErrorResponse
//	@Failure		401		{object}	gymsdk.ErrorResponse
//	@Failure		403		{object}	gymsdk.ErrorResponse
//	@Failure		500		{object}	gymsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/invites/generate [post].
func (h *InvitesHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req gymsdk.GenerateInvitesRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}
	if req.ExpiresInHours == 0 {
		req.ExpiresInHours = h.DefaultHours
	}

	claims, _ := httpx.ClaimsFromContext(ctx)
	res, err := h.Invites.Generate(ctx, req.Quantity, req.ExpiresInHours, claims.Subject)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInviteRequest) {
			httpx.WriteJSON(w, http.StatusBadRequest, gymsdk.ErrorResponse{
				Error:            gymsdk.ErrorCodeInvalidRequest,
				ErrorDescription: err.Error(),
			})
			return
		}
		slogx.FromContext(ctx).Error("failed to generate invites", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, gymsdk.ErrorResponse{
			Error:            gymsdk.ErrorCodeServerError,
			ErrorDescription: "failed to generate invite codes",
		})
		return
	}

	codes := res.Codes
	if codes == nil {
		codes = []string{}
	}
	httpx.WriteJSON(w, http.StatusCreated, gymsdk.GenerateInvitesResponse{Count: res.Count, Codes: codes})
}

// HandleList godoc
//
//	@Summary		List invite codes
//	@Description	Most recent invite codes with their redemption state. Owner only.
//	@Tags			Invites
//	@Produce		json
//	@Success		200	{object}	gymsdk.InviteListResponse
//	@Failure		401	{object}	gymsdk.ErrorResponse
//	@Failure		403	{object}	gymsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/invites [get].
func (h *InvitesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	codes, err := h.Invites.List(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list invites", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, gymsdk.ErrorResponse{
			Error:            gymsdk.ErrorCodeServerError,
			ErrorDescription: "failed to list invite codes",
		})
		return
	}

	now := time.Now()
	if h.Invites.Now != nil {
		now = h.Invites.Now()
	}
	out := gymsdk.InviteListResponse{Invites: make([]gymsdk.InviteCode, 0, len(codes))}
	for _, c := range codes {
		out.Invites = append(out.Invites, inviteResponse(c, now))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func inviteResponse(c domain.InviteCode, now time.Time) gymsdk.InviteCode {
	return gymsdk.InviteCode{
		Code:          c.Code,
		Status:        string(c.Status(now)),
		ExpiresAt:     c.ExpiresAt,
		Used:          c.Used,
		UsedAt:        c.UsedAt,
		RedeemedEmail: c.RedeemedEmail,
		UserID:        c.UserID,
		CreatedBy:     c.CreatedBy,
		CreatedAt:     c.CreatedAt,
	}
}
