package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	_ "farmnav.ao/api/docs"
	"farmnav.ao/api/handlers"
	"farmnav.ao/api/middleware"
	"farmnav.ao/api/models"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/health", handlers.Health).Methods("GET")
	r.HandleFunc("/health/database", handlers.DatabaseHealth).Methods("GET")
	r.HandleFunc("/api/auth/register", handlers.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", handlers.Login).Methods("POST")

	// USSD gateway callbacks carry no JWT; the telephony provider is the
	// caller, not the subscriber.
	r.HandleFunc("/api/ussd", handlers.UssdWebhook).Methods("POST")
	r.HandleFunc("/api/ussd/push", handlers.SendUssdPush).Methods("POST")
	r.HandleFunc("/api/ussd/logs", handlers.GetUssdLogs).Methods("GET")

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/auth/profile", handlers.Profile).Methods("GET")

	registerUserRoutes(api)
	registerFarmRoutes(api)
	registerOrganizationRoutes(api)
	registerCropTypeRoutes(api)
	registerRecommendationRoutes(api)
	registerPythonRoutes(api)

	return r
}

// restrict wraps a handler with a role gate. Routes registered without it
// accept any authenticated caller; fine-grained ownership checks live in the
// handlers themselves.
func restrict(roles []string, h http.HandlerFunc) http.Handler {
	return middleware.RequireRole(roles, h)
}

func registerUserRoutes(api *mux.Router) {
	adminOnly := []string{models.RoleAdmin}

	api.Handle("/users", restrict(adminOnly, handlers.GetAllUsers)).Methods("GET")
	api.Handle("/users", restrict(adminOnly, handlers.CreateUser)).Methods("POST")

	// /users/me before /users/{id} so mux does not capture "me" as an id.
	api.HandleFunc("/users/me", handlers.Me).Methods("GET")
	api.HandleFunc("/users/me", handlers.UpdateMe).Methods("PATCH")
	api.HandleFunc("/users/me", handlers.DeleteMe).Methods("DELETE")

	api.Handle("/users/{id}", restrict(adminOnly, handlers.GetUserByID)).Methods("GET")
	api.HandleFunc("/users/{id}", handlers.UpdateUser).Methods("PATCH")
	api.HandleFunc("/users/{id}", handlers.DeleteUser).Methods("DELETE")
}

func registerFarmRoutes(api *mux.Router) {
	api.HandleFunc("/farms", handlers.CreateFarm).Methods("POST")
	api.HandleFunc("/farms", handlers.GetAllFarms).Methods("GET")
	api.HandleFunc("/farms/nearby", handlers.GetNearbyFarms).Methods("GET")
	api.HandleFunc("/farms/stats", handlers.GetFarmStats).Methods("GET")
	api.HandleFunc("/farms/export", handlers.ExportFarmsToExcel).Methods("GET")
	api.HandleFunc("/farms/{id}", handlers.GetFarm).Methods("GET")
	api.HandleFunc("/farms/{id}", handlers.UpdateFarm).Methods("PATCH")
	api.HandleFunc("/farms/{id}", handlers.DeleteFarm).Methods("DELETE")
}

func registerOrganizationRoutes(api *mux.Router) {
	managers := []string{models.RoleAdmin, models.RoleGovernment, models.RoleNGO}
	adminOnly := []string{models.RoleAdmin}

	api.Handle("/organizations", restrict(managers, handlers.CreateOrganization)).Methods("POST")
	api.HandleFunc("/organizations", handlers.GetAllOrganizations).Methods("GET")
	api.HandleFunc("/organizations/{id}", handlers.GetOrganization).Methods("GET")
	api.Handle("/organizations/{id}", restrict(managers, handlers.UpdateOrganization)).Methods("PATCH")
	api.Handle("/organizations/{id}", restrict(adminOnly, handlers.DeleteOrganization)).Methods("DELETE")
	api.HandleFunc("/organizations/{id}/statistics", handlers.GetOrganizationStatistics).Methods("GET")
}

func registerCropTypeRoutes(api *mux.Router) {
	curators := []string{models.RoleAdmin, models.RoleTechnician}
	adminOnly := []string{models.RoleAdmin}

	api.Handle("/crop-types", restrict(curators, handlers.CreateCropType)).Methods("POST")
	api.HandleFunc("/crop-types", handlers.GetAllCropTypes).Methods("GET")
	api.HandleFunc("/crop-types/{id}", handlers.GetCropType).Methods("GET")
	api.Handle("/crop-types/{id}", restrict(curators, handlers.UpdateCropType)).Methods("PATCH")
	api.Handle("/crop-types/{id}", restrict(adminOnly, handlers.DeleteCropType)).Methods("DELETE")
}

func registerRecommendationRoutes(api *mux.Router) {
	advisors := []string{models.RoleAdmin, models.RoleTechnician, models.RoleNGO}
	actioners := []string{models.RoleFarmer, models.RoleAdmin, models.RoleTechnician}
	adminOnly := []string{models.RoleAdmin}

	api.Handle("/recommendations", restrict(advisors, handlers.CreateRecommendation)).Methods("POST")
	api.HandleFunc("/recommendations", handlers.GetAllRecommendations).Methods("GET")
	api.HandleFunc("/recommendations/{id}", handlers.GetRecommendation).Methods("GET")
	api.Handle("/recommendations/{id}", restrict(advisors, handlers.UpdateRecommendation)).Methods("PATCH")
	api.Handle("/recommendations/{id}/action", restrict(actioners, handlers.MarkRecommendationActioned)).Methods("PATCH")
	api.Handle("/recommendations/{id}", restrict(adminOnly, handlers.DeleteRecommendation)).Methods("DELETE")
}

func registerPythonRoutes(api *mux.Router) {
	staff := []string{
		models.RoleAdmin,
		models.RoleTechnician,
		models.RoleNGO,
		models.RoleGovernment,
	}

	api.HandleFunc("/python/health", handlers.PythonHealth).Methods("GET")
	api.HandleFunc("/python/weather", handlers.GetWeather).Methods("POST")
	api.HandleFunc("/python/recommendations", handlers.GetMLRecommendations).Methods("POST")
	api.HandleFunc("/python/simulate-crop", handlers.SimulateCrop).Methods("POST")
	api.Handle("/python/satellite-data", restrict(staff, handlers.GetSatelliteData)).Methods("POST")
}
