package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// User management
	r.HandleFunc("/api/user/register", deps.UserHandler.Register).Methods("POST")
	r.HandleFunc("/api/user/login", deps.UserHandler.Login).Methods("POST")
	r.HandleFunc("/api/user/name-availability", deps.UserHandler.IsUsernameAvailable).Methods("GET").Queries("username", "{username}")
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateProfile).Methods("PUT")
	r.HandleFunc("/api/user/current/password", deps.UserHandler.ChangePassword).Methods("PUT")
	r.HandleFunc("/api/user/current/photo", deps.UserHandler.UploadPhoto).Methods("PUT")
	r.HandleFunc("/api/user/current/photo", deps.UserHandler.GetPhoto).Methods("GET")
	r.HandleFunc("/api/user/current/photo", deps.UserHandler.DeletePhoto).Methods("DELETE")
	r.HandleFunc("/api/user/{userUid}/photo", deps.UserHandler.GetPhoto).Methods("GET")

	// Catalog
	r.HandleFunc("/api/catalog", deps.CatalogHandler.GetCatalog).Methods("GET")

	// Footprint records
	r.HandleFunc("/api/footprint", deps.FootprintHandler.ListRecords).Methods("GET")
	r.HandleFunc("/api/footprint/travel", deps.FootprintHandler.AddTravel).Methods("POST")
	r.HandleFunc("/api/footprint/food/search", deps.FootprintHandler.SearchFood).Methods("GET")
	r.HandleFunc("/api/footprint/food", deps.FootprintHandler.AddFood).Methods("POST")
	r.HandleFunc("/api/footprint/energy", deps.FootprintHandler.AddEnergy).Methods("POST")
	r.HandleFunc("/api/footprint/{category}/{id}", deps.FootprintHandler.DeleteRecord).Methods("DELETE")

	// Stats
	r.HandleFunc("/api/stats/summary", deps.StatsHandler.GetSummary).Methods("GET")
	r.HandleFunc("/api/stats/history", deps.StatsHandler.GetHistory).Methods("GET")
	r.HandleFunc("/api/leaderboard", deps.StatsHandler.GetLeaderboard).Methods("GET")

	// Global CO2 level
	r.HandleFunc("/api/global-co2", deps.GlobalCO2Handler.GetLevels).Methods("GET")
}
