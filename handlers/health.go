// handlers/health.go
package handlers

import (
	"net/http"

	"farmnav.ao/api/config"
	"farmnav.ao/api/utils"
)

const apiVersion = "1.0.0"

// Health is the liveness probe.
func Health(w http.ResponseWriter, r *http.Request) {
	utils.Respond(w, http.StatusOK, "Farm Navigators API", map[string]interface{}{
		"status":  "ok",
		"version": apiVersion,
	})
}

// DatabaseHealth pings the database connection.
func DatabaseHealth(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := config.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		utils.Fail(w, http.StatusServiceUnavailable, "Base de dados indisponível", map[string]interface{}{
			"database": "disconnected",
			"error":    err.Error(),
		})
		return
	}
	utils.Respond(w, http.StatusOK, "Base de dados operacional", map[string]interface{}{
		"database": "connected",
	})
}
