package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shredworks/pickup-scheduling/internal/auth"
)

func registerHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, validationMessage(err))
			return
		}

		user, err := svc.Register(r.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrEmailTaken) {
				writeError(w, http.StatusBadRequest, "email is already registered")
				return
			}
			writeError(w, http.StatusInternalServerError, "registration failed")
			return
		}

		writeSuccess(w, http.StatusCreated, envelope{
			"message": "registered",
			"user":    publicUser(user),
		})
	}
}

func loginHandler(svc *auth.Service, secureCookies bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, validationMessage(err))
			return
		}

		user, sess, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, "invalid email or password")
				return
			}
			writeError(w, http.StatusInternalServerError, "login failed")
			return
		}

		http.SetCookie(w, sessionCookie(sess.ID, sess.Expires, secureCookies))

		writeSuccess(w, http.StatusOK, envelope{
			"user": publicUser(user),
		})
	}
}

// logoutHandler works without authentication so a stale cookie can still be
// cleared.
func logoutHandler(svc *auth.Service, secureCookies bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			svc.Logout(r.Context(), cookie.Value)
		}
		http.SetCookie(w, expiredSessionCookie(secureCookies))
		writeSuccess(w, http.StatusOK, nil)
	}
}

func meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())
		writeSuccess(w, http.StatusOK, envelope{
			"user": publicUser(user),
		})
	}
}

// publicUser is the user shape exposed over the API. The password hash never
// leaves the auth package.
func publicUser(u *auth.User) envelope {
	return envelope{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
}

func sessionCookie(token string, expires time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func expiredSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}
