package controllers

import (
	"net/http"
	"results-portal/services"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the public and admin endpoints. Everything except /health
// lives under /api.
func NewRouter(results *services.ResultService, auth *services.AuthService, store Pinger, log logrus.FieldLogger) *mux.Router {
	controller := Controller{Log: log}
	resultController := ResultController{Controller: controller}

	router := mux.NewRouter().UseEncodedPath()
	router.Use(RequestLogger(log))
	router.HandleFunc("/health", controller.Health(store)).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/admin/login", controller.Login(auth)).Methods(http.MethodPost)

	api.HandleFunc("/results/{rollNumber}", resultController.GetResult(results)).Methods(http.MethodGet)
	api.HandleFunc("/results", controller.TokenVerifyMiddleware(auth, resultController.CreateResult(results))).Methods(http.MethodPost)
	api.HandleFunc("/results/{id}", controller.TokenVerifyMiddleware(auth, resultController.UpdateResult(results))).Methods(http.MethodPut)
	api.HandleFunc("/results/{id}", controller.TokenVerifyMiddleware(auth, resultController.DeleteResult(results))).Methods(http.MethodDelete)

	return router
}
