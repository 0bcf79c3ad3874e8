package handler

import (
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/tillworks/pos-api/internal/domain/auth"
)

const sessionCookie = "access_token"

type ctxKey int

const userIDKey ctxKey = iota

// requireAuth verifies the session cookie and stores the user id in the
// request context. Unauthenticated requests get a stable 401 body.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "login required")
			return
		}
		userID, err := h.tokens.Verify(c.Value)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "login required")
			return
		}
		ctx := withUserID(r.Context(), userID)
		next(w, r.WithContext(ctx))
	}
}

// Register creates an operator account and opens a session.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, errBadBody.Error())
		return
	}
	username, password, confirm, err := decodeCredentials(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, errBadBody.Error())
		return
	}

	username = strings.TrimSpace(username)
	switch {
	case username == "" || password == "":
		writeError(w, http.StatusBadRequest, "must provide username/password")
		return
	case confirm == "":
		writeError(w, http.StatusBadRequest, "must confirm password")
		return
	case password != confirm:
		writeError(w, http.StatusBadRequest, "passwords must match")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	u, err := h.users.Create(r.Context(), username, hash)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, auth.ErrUsernameTaken.Error())
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.openSession(w, r, u)
}

// Login checks credentials and opens a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, errBadBody.Error())
		return
	}
	username, password, _, err := decodeCredentials(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, errBadBody.Error())
		return
	}

	u, err := h.users.FindByUsername(r.Context(), strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
			return
		}
		h.serverError(w, r, err)
		return
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	h.openSession(w, r, u)
}

// Logout clears the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("ok", func(e *jx.Encoder) { e.Bool(true) })
		})
	})
}

// Me returns the authenticated operator's account.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.FindByID(r.Context(), mustUserID(r))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "login required")
			return
		}
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeUser(e, u)
	})
}

func (h *Handler) openSession(w http.ResponseWriter, r *http.Request, u *auth.User) {
	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeUser(e, u)
	})
}

func encodeUser(e *jx.Encoder, u *auth.User) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("ok", func(e *jx.Encoder) { e.Bool(true) })
		e.Field("user", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("id", func(e *jx.Encoder) { e.Int64(u.ID) })
				e.Field("username", func(e *jx.Encoder) { e.Str(u.Username) })
			})
		})
	})
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "database error")
}
