package routes

import (
	"github.com/gorilla/mux"

	"airstation/internal/controller"
)

// SetupRouter defines all API routes.
func SetupRouter(ctrl *controller.DataController) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/", ctrl.HandleHome).Methods("GET")
	router.HandleFunc("/api/latest", ctrl.HandleLatest).Methods("GET")
	router.HandleFunc("/api/data", ctrl.HandleData).Methods("GET")
	router.HandleFunc("/health", ctrl.HandleHealth).Methods("GET")

	return router
}
