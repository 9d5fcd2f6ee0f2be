package http

import (
	"errors"
	"net/http"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/service"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store"
	"github.com/jcarintoc/simple-applications-sub002/pkg/httpx"
	"github.com/jcarintoc/simple-applications-sub002/pkg/slogx"
	"github.com/jcarintoc/simple-applications-sub002/pkg/trustsdk"
)

// AuthHandler serves the /v1/auth endpoints.
type AuthHandler struct {
	Resolver *service.SessionResolver
	CSRF     *service.CSRFGuard
	Users    *service.UserService
	Cookies  CookieConfig
}

// HandleRegister godoc
//
//	@Summary		Register an account
//	@Description	Creates an account, signs it in and moves the caller's guest cart to it.
//	@Description	Tokens are set as HttpOnly cookies.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		trustsdk.Credentials		true	"username and password"
//	@Success		201		{object}	trustsdk.SessionResponse
//	@Failure		400		{object}	trustsdk.APIError
//	@Failure		409		{object}	trustsdk.APIError	"username_taken"
//	@Failure		429		{object}	trustsdk.APIError
//	@Failure		500		{object}	trustsdk.APIError
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req trustsdk.Credentials
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		trustsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	id := IdentityFromContext(r.Context())
	res, err := h.Resolver.Register(r.Context(), req.Username, req.Password, id.AnonymousID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeSession(w, http.StatusCreated, res)
}

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Verifies credentials, sets the token cookies and moves the caller's guest cart to the account.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		trustsdk.Credentials		true	"username and password"
//	@Success		200		{object}	trustsdk.SessionResponse
//	@Failure		400		{object}	trustsdk.APIError
//	@Failure		401		{object}	trustsdk.APIError	"invalid_credentials"
//	@Failure		429		{object}	trustsdk.APIError
//	@Failure		500		{object}	trustsdk.APIError
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req trustsdk.Credentials
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		trustsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	id := IdentityFromContext(r.Context())
	res, err := h.Resolver.Login(r.Context(), req.Username, req.Password, id.AnonymousID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeSession(w, http.StatusOK, res)
}

func (h *AuthHandler) writeSession(w http.ResponseWriter, status int, res service.LoginResult) {
	h.Cookies.SetTokens(w, res.Tokens)
	if res.Migration.AnonymousID != "" {
		h.Cookies.ClearAnonymous(w)
	}

	httpx.WriteJSON(w, status, trustsdk.SessionResponse{
		Subject:          string(res.Subject),
		AccessExpiresAt:  res.Tokens.AccessExpiresAt,
		RefreshExpiresAt: res.Tokens.RefreshExpiresAt,
		MigratedItems:    res.Migration.MovedCount(),
	})
}

// HandleRefresh godoc
//
//	@Summary		Rotate tokens
//	@Description	Exchanges the refresh cookie for a new access/refresh pair.
//	@Description	On failure both token cookies are cleared.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	trustsdk.SessionResponse
//	@Failure		401	{object}	trustsdk.APIError	"invalid_refresh_token"
//	@Failure		429	{object}	trustsdk.APIError
//	@Failure		500	{object}	trustsdk.APIError
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	refresh := readCookie(r, h.Cookies.RefreshName)
	if refresh == "" {
		h.Cookies.ClearTokens(w)
		trustsdk.ErrInvalidRefreshToken.WriteError(w)
		return
	}

	pair, err := h.Resolver.Refresh(r.Context(), refresh)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			h.Cookies.ClearTokens(w)
		}
		writeServiceError(w, r, err)
		return
	}

	claims, err := h.Resolver.Tokens.Authenticate(pair.AccessToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.SetTokens(w, pair)
	httpx.WriteJSON(w, http.StatusOK, trustsdk.SessionResponse{
		Subject:          claims.Subject,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	})
}

// HandleLogout godoc
//
//	@Summary		Log out
//	@Description	Clears the token cookies and forgets the caller's CSRF token.
//	@Description	Authenticated callers must send X-CSRF-Token.
//	@Tags			Auth
//	@Param			X-CSRF-Token	header	string	false	"CSRF token (required when authenticated)"
//	@Success		204
//	@Failure		403	{object}	trustsdk.APIError	"forbidden"
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	if id.IsAuthenticated() {
		if err := h.Resolver.Logout(r.Context(), id.Subject); err != nil {
			slogx.FromContext(r.Context()).Warn("failed to clear csrf token on logout", "error", err)
		}
	}

	h.Cookies.ClearTokens(w)
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe godoc
//
//	@Summary		Describe the caller
//	@Description	Reports whether the caller is unauthenticated, a guest or signed in.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	trustsdk.IdentityResponse
//	@Router			/v1/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())

	resp := trustsdk.IdentityResponse{
		State:        id.State.String(),
		TokenExpired: id.TokenExpired,
	}
	if id.IsAuthenticated() {
		resp.Subject = string(id.Subject)
		exp := id.ExpiresAt
		resp.ExpiresAt = &exp

		if h.Users != nil {
			u, err := h.Users.GetUserByID(r.Context(), id.Subject)
			switch {
			case err == nil:
				resp.Username = u.Username
			case !errors.Is(err, store.ErrNotFound):
				writeServiceError(w, r, err)
				return
			}
		}
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleCSRF godoc
//
//	@Summary		Issue a CSRF token
//	@Description	Returns a fresh anti-forgery token for the signed-in caller, replacing any earlier one.
//	@Description	Send it back in the X-CSRF-Token header on every mutating request.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	trustsdk.CSRFTokenResponse
//	@Failure		401	{object}	trustsdk.APIError	"unauthenticated"
//	@Failure		500	{object}	trustsdk.APIError
//	@Router			/v1/auth/csrf [get].
func (h *AuthHandler) HandleCSRF(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	if !id.IsAuthenticated() {
		trustsdk.ErrUnauthenticated.WriteError(w)
		return
	}

	tok, err := h.CSRF.Issue(r.Context(), id.Subject)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, trustsdk.CSRFTokenResponse{CSRFToken: tok})
}
