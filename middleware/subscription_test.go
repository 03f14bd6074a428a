package middleware

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/bicepspshop/FINALrealtor-sub001/cache"
	"github.com/bicepspshop/FINALrealtor-sub001/handlers/subscription"
	"github.com/bicepspshop/FINALrealtor-sub001/models"
	"github.com/bicepspshop/FINALrealtor-sub001/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

func gatedRouter(userID string) *gin.Engine {
	r := testutils.SetupTestRouter()
	r.GET("/clients",
		func(c *gin.Context) { c.Set("user_id", userID) },
		RequireActiveSubscription(),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "ok"}) },
	)
	return r
}

func sharedRouter() *gin.Engine {
	r := testutils.SetupTestRouter()
	r.GET("/s/:token",
		SharedCollectionGate(),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "ok"}) },
	)
	return r
}

func addStatusCookies(req *http.Request, userID, status string, expiry time.Time) {
	sig := signStatus(userID, models.SubscriptionStatus(status), expiry.Unix())
	req.AddCookie(&http.Cookie{Name: statusCookieName, Value: status + "." + sig})
	req.AddCookie(&http.Cookie{
		Name:  statusExpiryCookieName,
		Value: strconv.FormatInt(expiry.Unix(), 10),
	})
}

func TestRequireActiveSubscription_CachedActiveCookie(t *testing.T) {
	t.Setenv("JWT_SECRET", "gate-secret")
	subscription.StatusCache = cache.NewMemory()
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	req, _ := http.NewRequest(http.MethodGet, "/clients", nil)
	addStatusCookies(req, "u1", "active", time.Now().Add(10*time.Minute))
	resp := httptest.NewRecorder()

	gatedRouter("u1").ServeHTTP(resp, req)

	// the cookie decision is used directly: no storage access at all
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireActiveSubscription_CachedInactiveCookie(t *testing.T) {
	t.Setenv("JWT_SECRET", "gate-secret")
	subscription.StatusCache = cache.NewMemory()
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	req, _ := http.NewRequest(http.MethodGet, "/clients", nil)
	addStatusCookies(req, "u1", "expired", time.Now().Add(10*time.Minute))
	resp := httptest.NewRecorder()

	gatedRouter("u1").ServeHTTP(resp, req)

	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, SubscriptionPage, resp.Header().Get("Location"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireActiveSubscription_TamperedCookieResolvesFromStorage(t *testing.T) {
	t.Setenv("JWT_SECRET", "gate-secret")
	subscription.StatusCache = cache.NewMemory()
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	// an attacker-minted "active" pair must not be trusted: the gate goes
	// to storage, which says the trial lapsed long ago
	trialStart := time.Now().UTC().Add(-10 * time.Minute)
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = (.+)`).
		WithArgs("u1", 1).
		WillReturnRows(mock.NewRows([]string{"subscription_status", "trial_start_time", "trial_duration_minutes"}).
			AddRow("expired", trialStart, 5))

	req, _ := http.NewRequest(http.MethodGet, "/clients", nil)
	req.AddCookie(&http.Cookie{Name: statusCookieName, Value: "active.bogus-signature"})
	req.AddCookie(&http.Cookie{
		Name:  statusExpiryCookieName,
		Value: strconv.FormatInt(time.Now().Add(10*time.Minute).Unix(), 10),
	})
	resp := httptest.NewRecorder()

	gatedRouter("u1").ServeHTTP(resp, req)

	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, SubscriptionPage, resp.Header().Get("Location"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireActiveSubscription_CookieSignedForAnotherUserIgnored(t *testing.T) {
	t.Setenv("JWT_SECRET", "gate-secret")
	subscription.StatusCache = cache.NewMemory()
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = (.+)`).
		WithArgs("u1", 1).
		WillReturnRows(mock.NewRows([]string{"subscription_status", "trial_start_time", "trial_duration_minutes"}).
			AddRow("expired", time.Now().UTC().Add(-time.Hour), 5))

	req, _ := http.NewRequest(http.MethodGet, "/clients", nil)
	// a valid pair transplanted from a different account
	addStatusCookies(req, "u2", "active", time.Now().Add(10*time.Minute))
	resp := httptest.NewRecorder()

	gatedRouter("u1").ServeHTTP(resp, req)

	assert.Equal(t, http.StatusFound, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireActiveSubscription_ExpiredCookieTriggersResolution(t *testing.T) {
	t.Setenv("JWT_SECRET", "gate-secret")
	subscription.StatusCache = cache.NewMemory()
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = (.+)`).
		WithArgs("u1", 1).
		WillReturnRows(mock.NewRows([]string{"subscription_status", "trial_start_time", "trial_duration_minutes"}).
			AddRow("active", time.Now().UTC().Add(-time.Hour), 0))

	req, _ := http.NewRequest(http.MethodGet, "/clients", nil)
	addStatusCookies(req, "u1", "active", time.Now().Add(-time.Minute))
	resp := httptest.NewRecorder()

	gatedRouter("u1").ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	// a fresh decision was cached on the response
	cookies := resp.Header().Values("Set-Cookie")
	assert.True(t, hasCookie(cookies, statusCookieName))
	assert.True(t, hasCookie(cookies, statusExpiryCookieName))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireActiveSubscription_ExpiredTrialRedirects(t *testing.T) {
	subscription.StatusCache = cache.NewMemory()
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	trialStart := time.Now().UTC().Add(-10 * time.Minute)
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = (.+)`).
		WithArgs("u1", 1).
		WillReturnRows(mock.NewRows([]string{"subscription_status", "trial_start_time", "trial_duration_minutes"}).
			AddRow("trial", trialStart, 5))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "subscription_status"=(.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req, _ := http.NewRequest(http.MethodGet, "/clients", nil)
	resp := httptest.NewRecorder()

	gatedRouter("u1").ServeHTTP(resp, req)

	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, SubscriptionPage, resp.Header().Get("Location"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireActiveSubscription_ResolutionFailureFailsOpen(t *testing.T) {
	subscription.StatusCache = cache.NewMemory()
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = (.+)`).
		WithArgs("u1", 1).
		WillReturnError(assert.AnError)

	req, _ := http.NewRequest(http.MethodGet, "/clients", nil)
	resp := httptest.NewRecorder()

	gatedRouter("u1").ServeHTTP(resp, req)

	// transient storage errors must not lock agents out of the dashboard
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRequireActiveSubscription_MissingUser(t *testing.T) {
	r := testutils.SetupTestRouter()
	r.GET("/clients",
		RequireActiveSubscription(),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "ok"}) },
	)

	req, _ := http.NewRequest(http.MethodGet, "/clients", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestSharedCollectionGate_OwnerActive(t *testing.T) {
	subscription.StatusCache = cache.NewMemory()
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "collections" WHERE share_token = (.+)`).
		WithArgs("tok-1", 1).
		WillReturnRows(mock.NewRows([]string{"id", "user_id"}).AddRow("col-1", "owner-1"))
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = (.+)`).
		WithArgs("owner-1", 1).
		WillReturnRows(mock.NewRows([]string{"subscription_status", "trial_start_time", "trial_duration_minutes"}).
			AddRow("active", time.Now().UTC(), 0))

	req, _ := http.NewRequest(http.MethodGet, "/s/tok-1", nil)
	resp := httptest.NewRecorder()

	sharedRouter().ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSharedCollectionGate_OwnerExpired(t *testing.T) {
	subscription.StatusCache = cache.NewMemory()
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "collections" WHERE share_token = (.+)`).
		WithArgs("tok-1", 1).
		WillReturnRows(mock.NewRows([]string{"id", "user_id"}).AddRow("col-1", "owner-1"))
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = (.+)`).
		WithArgs("owner-1", 1).
		WillReturnRows(mock.NewRows([]string{"subscription_status", "trial_start_time", "trial_duration_minutes"}).
			AddRow("expired", time.Now().UTC().Add(-time.Hour), 5))

	req, _ := http.NewRequest(http.MethodGet, "/s/tok-1", nil)
	resp := httptest.NewRecorder()

	sharedRouter().ServeHTTP(resp, req)

	// the viewer lands on the expired page, not the subscription upsell
	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, ExpiredPage, resp.Header().Get("Location"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSharedCollectionGate_UnknownToken(t *testing.T) {
	subscription.StatusCache = cache.NewMemory()
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "collections" WHERE share_token = (.+)`).
		WithArgs("tok-unknown", 1).
		WillReturnError(assert.AnError)

	req, _ := http.NewRequest(http.MethodGet, "/s/tok-unknown", nil)
	resp := httptest.NewRecorder()

	sharedRouter().ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSharedCollectionGate_OwnerResolutionFailureFailsOpen(t *testing.T) {
	subscription.StatusCache = cache.NewMemory()
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "collections" WHERE share_token = (.+)`).
		WithArgs("tok-1", 1).
		WillReturnRows(mock.NewRows([]string{"id", "user_id"}).AddRow("col-1", "owner-1"))
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = (.+)`).
		WithArgs("owner-1", 1).
		WillReturnError(assert.AnError)

	req, _ := http.NewRequest(http.MethodGet, "/s/tok-1", nil)
	resp := httptest.NewRecorder()

	sharedRouter().ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
}

func hasCookie(setCookies []string, name string) bool {
	for _, c := range setCookies {
		if strings.HasPrefix(c, name+"=") {
			return true
		}
	}
	return false
}
