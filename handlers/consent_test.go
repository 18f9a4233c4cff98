package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnedge/learnedge/models"
	"github.com/learnedge/learnedge/services"
)

func cookieByName(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestConsentStatusShowsBannerWithoutCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/cookies/status", nil)
	rec := httptest.NewRecorder()
	ConsentStatusHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var status models.ConsentStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.True(t, status.ShowBanner)
	assert.False(t, status.HasConsent)
}

func TestConsentStatusAfterAccept(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/cookies/status", nil)
	req.AddCookie(&http.Cookie{Name: services.ConsentCookieName, Value: "accepted"})
	rec := httptest.NewRecorder()
	ConsentStatusHandler(rec, req)

	var status models.ConsentStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.False(t, status.ShowBanner)
	assert.True(t, status.HasConsent)
}

func TestConsentStatusAfterReject(t *testing.T) {
	// A rejected decision still brings the banner back.
	req := httptest.NewRequest(http.MethodGet, "/api/cookies/status", nil)
	req.AddCookie(&http.Cookie{Name: services.ConsentCookieName, Value: "rejected"})
	rec := httptest.NewRecorder()
	ConsentStatusHandler(rec, req)

	var status models.ConsentStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.True(t, status.ShowBanner)
}

func postConsent(t *testing.T, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/cookies/consent", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	ConsentHandler(rec, req)
	return rec
}

func TestConsentAcceptSetsBothCookies(t *testing.T) {
	rec := postConsent(t, url.Values{"accepted": {"true"}, "preferences": {"all"}})
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	consent := cookieByName(t, cookies, services.ConsentCookieName)
	assert.Equal(t, "accepted", consent.Value)
	assert.True(t, consent.HttpOnly)
	assert.Positive(t, consent.MaxAge)

	prefs := cookieByName(t, cookies, services.PreferencesCookieName)
	assert.Equal(t, "all", prefs.Value)
	assert.False(t, prefs.HttpOnly, "preference tier stays readable by page code")
}

func TestConsentRejectSetsOnlyConsentCookie(t *testing.T) {
	rec := postConsent(t, url.Values{"accepted": {"false"}})
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	consent := cookieByName(t, cookies, services.ConsentCookieName)
	assert.Equal(t, "rejected", consent.Value)

	for _, c := range cookies {
		assert.NotEqual(t, services.PreferencesCookieName, c.Name)
	}
}

func TestConsentRejectsBadInput(t *testing.T) {
	rec := postConsent(t, url.Values{"accepted": {"maybe"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postConsent(t, url.Values{"accepted": {"true"}, "preferences": {"tracking"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearCookies(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/cookies/clear", nil)
	rec := httptest.NewRecorder()
	ClearCookiesHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	assert.Negative(t, cookieByName(t, cookies, services.ConsentCookieName).MaxAge)
	assert.Negative(t, cookieByName(t, cookies, services.PreferencesCookieName).MaxAge)

	rec = httptest.NewRecorder()
	ClearCookiesHandler(rec, httptest.NewRequest(http.MethodPost, "/api/cookies/clear", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCollapsePreferences(t *testing.T) {
	assert.Equal(t, services.PreferencesAll, services.CollapsePreferences(true, true))
	assert.Equal(t, services.PreferencesFunctional, services.CollapsePreferences(true, false))
	assert.Equal(t, services.PreferencesEssential, services.CollapsePreferences(false, false))
	assert.Equal(t, services.PreferencesEssential, services.CollapsePreferences(false, true))
}
