package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
	"github.com/aussiebroadwan/gymgate/internal/auth/service"
	"github.com/aussiebroadwan/gymgate/pkg/gymsdk"
	"github.com/aussiebroadwan/gymgate/pkg/httpx"
	"github.com/aussiebroadwan/gymgate/pkg/slogx"
)

type UsersHandler struct {
	Accounts *service.AccountService
}

func userResponse(a domain.Account) gymsdk.User {
	return gymsdk.User{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role.String(),
		Provider:  a.Provider,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// writeAccountError maps AccountService errors to API responses.
func writeAccountError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail), errors.Is(err, service.ErrInvalidRole):
		httpx.WriteJSON(w, http.StatusBadRequest, gymsdk.ErrorResponse{
			Error:            gymsdk.ErrorCodeInvalidRequest,
			ErrorDescription: err.Error(),
		})
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrLastOwner):
		httpx.WriteJSON(w, http.StatusConflict, gymsdk.ErrorResponse{
			Error:            gymsdk.ErrorCodeConflict,
			ErrorDescription: err.Error(),
		})
	case errors.Is(err, service.ErrAccountNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, gymsdk.ErrorResponse{
			Error:            gymsdk.ErrorCodeNotFound,
			ErrorDescription: err.Error(),
		})
	default:
		slogx.FromContext(r.Context()).Error("account operation failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, gymsdk.ErrorResponse{
			Error:            gymsdk.ErrorCodeServerError,
			ErrorDescription: "internal server error",
		})
	}
}

// HandleList godoc
//
//	@Summary		List members
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	gymsdk.UserListResponse
//	@Failure		401	{object}	gymsdk.ErrorResponse
//	@Failure		403	{object}	gymsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Accounts.List(r.Context())
	if err != nil {
		writeAccountError(w, r, err)
		return
	}

	out := gymsdk.UserListResponse{Users: make([]gymsdk.User, 0, len(accounts))}
	for _, a := range accounts {
		out.Users = append(out.Users, userResponse(a))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate godoc
//
//	@Summary		Pre-provision a member
//	@Description	Creates an account so the member can sign in without an invite code. Owner only; the role is re-read from storage.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gymsdk.CreateUserRequest	true	"Email and role"
//	@Success		201		{object}	gymsdk.User
//	@Failure		400		{object}	gymsdk.ValidationErrorResponse
//	@Failure		403		{object}	gymsdk.ErrorResponse
//	@Failure		409		{object}	gymsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/users [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req gymsdk.CreateUserRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	a, err := h.Accounts.Provision(r.Context(), req.Email, domain.Role(req.Role))
	if err != nil {
		writeAccountError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, userResponse(a))
}

// HandleUpdateRole godoc
//
//	@Summary		Change a member's role
//	@Description	Takes effect on the member's next session refresh or sign-in. Owner only; the role is re-read from storage.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Account ID"
//	@Param			request	body		gymsdk.UpdateRoleRequest	true	"New role"
//	@Success		200		{object}	gymsdk.User
//	@Failure		400		{object}	gymsdk.ValidationErrorResponse
//	@Failure		403		{object}	gymsdk.ErrorResponse
//	@Failure		404		{object}	gymsdk.ErrorResponse
//	@Failure		409		{object}	gymsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/users/{id} [patch].
func (h *UsersHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	var req gymsdk.UpdateRoleRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	a, err := h.Accounts.ChangeRole(r.Context(), r.PathValue("id"), domain.Role(req.Role))
	if err != nil {
		writeAccountError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, userResponse(a))
}

// HandleDelete godoc
//
//	@Summary		Delete a member
//	@Description	Invite codes the member redeemed are kept for audit. Owner only; the role is re-read from storage.
//	@Tags			Users
//	@Param			email	path	string	true	"Account email"
//	@Success		204
//	@Failure		403	{object}	gymsdk.ErrorResponse
//	@Failure		404	{object}	gymsdk.ErrorResponse
//	@Failure		409	{object}	gymsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/users/{email} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Delete(r.Context(), r.PathValue("email")); err != nil {
		writeAccountError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
