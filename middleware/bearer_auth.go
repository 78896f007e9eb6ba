package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/timgluz/phytolab/response"
	"github.com/timgluz/phytolab/secret"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUnsupportedAuth    = errors.New("unsupported authorization type")
	ErrServiceUnavailable = errors.New("service is not ready")
)

const bearerPrefix = "bearer "

// BearerAuth lets a request through when its bearer token is a key of
// secretStore.
func BearerAuth(h httprouter.Handle, secretStore secret.Store) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			unauthorized(w, ErrUnauthorized, http.StatusUnauthorized)
			return
		}

		if len(authHeader) < len(bearerPrefix) || strings.ToLower(authHeader[:len(bearerPrefix)]) != bearerPrefix {
			unauthorized(w, ErrUnsupportedAuth, http.StatusBadRequest)
			return
		}

		token := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if token == "" {
			unauthorized(w, ErrUnauthorized, http.StatusUnauthorized)
			return
		}

		if secretStore == nil {
			response.RenderError(w, ErrServiceUnavailable, http.StatusInternalServerError)
			return
		}

		if _, err := secretStore.Get(token); err != nil {
			if errors.Is(err, secret.ErrSecretNotFound) {
				unauthorized(w, ErrUnauthorized, http.StatusUnauthorized)
				return
			}

			response.RenderFatal(w, err)
			return
		}

		h(w, r, ps)
	}
}

func unauthorized(w http.ResponseWriter, err error, statusCode int) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	response.RenderError(w, err, statusCode)
}
