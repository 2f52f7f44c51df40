package controllers

import (
	"context"
	"net/http"
	"results-portal/models"
	"results-portal/services"
	"results-portal/utils"

	"github.com/pkg/errors"
)

type adminKey struct{}

// AdminFromContext returns the username attached by TokenVerifyMiddleware.
func AdminFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(adminKey{}).(string)
	return username, ok
}

func (c Controller) Login(auth *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		if err := utils.DecodeStrict(r, &creds); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body."})
			return
		}

		token, err := auth.Login(creds)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Invalid credentials"})
				return
			}
			c.logger(r).WithError(err).Error("login failed")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error"})
			return
		}

		utils.ResponseJSON(w, models.JWT{Token: token})
	}
}

func (c Controller) TokenVerifyMiddleware(auth *services.AuthService, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := utils.BearerToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Invalid Token."})
			return
		}

		username, err := auth.Verify(token)
		if err != nil {
			c.logger(r).WithError(err).Debug("bearer token rejected")
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Invalid Token."})
			return
		}

		ctx := context.WithValue(r.Context(), adminKey{}, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
