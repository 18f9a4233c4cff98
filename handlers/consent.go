package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/learnedge/learnedge/services"
)

// ConsentStatusHandler tells the page whether to show the consent banner.
func ConsentStatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, services.ConsentStatusFor(r))
}

// ConsentHandler records a consent decision. The body is form-encoded:
// accepted=<bool>&preferences=<essential|functional|all>.
func ConsentHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	accepted, err := strconv.ParseBool(r.FormValue("accepted"))
	if err != nil {
		http.Error(w, "accepted must be true or false", http.StatusBadRequest)
		return
	}
	preferences := r.FormValue("preferences")
	if preferences != "" && !services.ValidPreferences(preferences) {
		http.Error(w, "unknown preferences tier", http.StatusBadRequest)
		return
	}

	services.SetConsent(w, r, accepted)
	if accepted && preferences != "" {
		services.SetPreferences(w, r, preferences)
	}

	message := "Cookie consent rejected"
	if accepted {
		message = "Cookie consent granted"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": message})
}

// ClearCookiesHandler removes the consent cookies, so the banner returns on
// the next page load.
func ClearCookiesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	services.ClearConsent(w, r)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Cookies cleared"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
