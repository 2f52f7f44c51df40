package controllers

import (
	"net/http"
	"net/url"
	"results-portal/models"
	"results-portal/services"
	"results-portal/utils"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	msgNotFound      = "Result not found"
	msgDuplicateRoll = "Roll number already exists"
	msgInvalidResult = "Invalid result data"
	msgInvalidBody   = "Invalid request body"
	msgServerError   = "Server error"
)

// pathVar returns a route variable decoded from the escaped path the router
// matches on, so keys such as "2024/CS/07" survive as one segment. A value
// that does not decode yields "", which no record has.
func pathVar(r *http.Request, name string) string {
	v, err := url.PathUnescape(mux.Vars(r)[name])
	if err != nil {
		return ""
	}
	return v
}

type ResultController struct {
	Controller
}

func (rc ResultController) GetResult(svc *services.ResultService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.GetByRollNumber(r.Context(), pathVar(r, "rollNumber"))
		if err != nil {
			rc.respondError(w, r, err)
			return
		}
		utils.ResponseJSON(w, models.ResultResponse{Result: result})
	}
}

func (rc ResultController) CreateResult(svc *services.ResultService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload models.ResultPayload
		if err := utils.DecodeStrict(r, &payload); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: msgInvalidBody})
			return
		}

		result, err := svc.Create(r.Context(), payload)
		if err != nil {
			rc.respondError(w, r, err)
			return
		}
		utils.ResponseJSONWithStatus(w, http.StatusCreated, models.ResultResponse{Result: result})
	}
}

func (rc ResultController) UpdateResult(svc *services.ResultService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload models.ResultPayload
		if err := utils.DecodeStrict(r, &payload); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: msgInvalidBody})
			return
		}

		result, err := svc.Update(r.Context(), pathVar(r, "id"), payload)
		if err != nil {
			rc.respondError(w, r, err)
			return
		}
		utils.ResponseJSON(w, models.ResultResponse{Result: result})
	}
}

func (rc ResultController) DeleteResult(svc *services.ResultService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), pathVar(r, "id")); err != nil {
			rc.respondError(w, r, err)
			return
		}
		utils.ResponseJSON(w, models.Message{Message: "Result deleted successfully"})
	}
}

// respondError maps service errors onto the HTTP error contract. Anything
// unexpected is logged and reported as a plain server error.
func (rc ResultController) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: msgNotFound})
	case errors.Is(err, services.ErrDuplicateKey):
		utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: msgDuplicateRoll})
	case errors.As(err, &ve):
		rc.logger(r).WithField("fields", ve.Fields).Info("result rejected")
		utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: msgInvalidResult})
	default:
		rc.logger(r).WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).WithError(err).Error("result operation failed")
		utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: msgServerError})
	}
}
