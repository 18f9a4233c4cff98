package services

import (
	"net/http"
	"time"

	"github.com/learnedge/learnedge/models"
	"github.com/learnedge/learnedge/utils"
)

const (
	ConsentCookieName     = "cookie_consent"
	PreferencesCookieName = "cookie_preferences"

	consentAccepted = "accepted"
	consentRejected = "rejected"

	// Consent is remembered for a year before the banner returns.
	consentCookieAge = 365 * 24 * time.Hour
)

// Preference tiers, from most restrictive to least.
const (
	PreferencesEssential  = "essential"
	PreferencesFunctional = "functional"
	PreferencesAll        = "all"
)

// ValidPreferences reports whether p is one of the accepted tiers.
func ValidPreferences(p string) bool {
	return p == PreferencesEssential || p == PreferencesFunctional || p == PreferencesAll
}

// CollapsePreferences reduces the two settings checkboxes to a single tier.
func CollapsePreferences(functional, analytics bool) string {
	switch {
	case functional && analytics:
		return PreferencesAll
	case functional:
		return PreferencesFunctional
	default:
		return PreferencesEssential
	}
}

// HasConsent reports whether the request carries an accepted consent cookie.
func HasConsent(r *http.Request) bool {
	c, err := r.Cookie(ConsentCookieName)
	return err == nil && c.Value == consentAccepted
}

// ConsentStatusFor computes the status payload driving the banner: the banner
// shows exactly while consent is undecided or rejected.
func ConsentStatusFor(r *http.Request) models.ConsentStatus {
	has := HasConsent(r)
	return models.ConsentStatus{ShowBanner: !has, HasConsent: has}
}

// SetConsent records the accept/reject decision.
func SetConsent(w http.ResponseWriter, r *http.Request, accepted bool) {
	value := consentRejected
	if accepted {
		value = consentAccepted
	}
	utils.SetCookie(w, r, ConsentCookieName, value, time.Now().Add(consentCookieAge))
}

// SetPreferences records the preference tier. The cookie is script-readable so
// page code can gate optional features on it.
func SetPreferences(w http.ResponseWriter, r *http.Request, preferences string) {
	if !ValidPreferences(preferences) {
		return
	}
	utils.SetScriptCookie(w, r, PreferencesCookieName, preferences, time.Now().Add(consentCookieAge))
}

// ClearConsent removes both consent cookies, returning the viewer to the
// undecided state.
func ClearConsent(w http.ResponseWriter, r *http.Request) {
	utils.ClearCookie(w, r, ConsentCookieName)
	utils.ClearCookie(w, r, PreferencesCookieName)
}
