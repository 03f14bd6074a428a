package subscription

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"github.com/bicepspshop/FINALrealtor-sub001/cache"
	"github.com/bicepspshop/FINALrealtor-sub001/models"
	"github.com/bicepspshop/FINALrealtor-sub001/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

func resetStatusCache() {
	StatusCache = cache.NewMemory()
}

func TestResolveStatus_ActiveSubscription(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	res := ResolveStatus(models.SubscriptionActive, time.Time{}, 0, now)

	assert.Equal(t, models.SubscriptionActive, res.Status)
	assert.True(t, res.IsActive)
	assert.False(t, res.NeedsWriteBack)
}

func TestResolveStatus_AlreadyExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	res := ResolveStatus(models.SubscriptionExpired, now.Add(-time.Hour), 30, now)

	assert.Equal(t, models.SubscriptionExpired, res.Status)
	assert.False(t, res.IsActive)
	assert.False(t, res.NeedsWriteBack, "re-resolving an expired user must not write back")
}

func TestResolveStatus_Cancelled(t *testing.T) {
	res := ResolveStatus(models.SubscriptionCancelled, time.Now(), 60, time.Now())

	assert.Equal(t, models.SubscriptionCancelled, res.Status)
	assert.False(t, res.IsActive)
}

func TestResolveStatus_TrialStillRunning(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	trialStart := now.Add(-10 * time.Minute)

	res := ResolveStatus(models.SubscriptionTrial, trialStart, 25, now)

	assert.Equal(t, models.SubscriptionTrial, res.Status)
	assert.True(t, res.IsActive)
	assert.Equal(t, 15, res.RemainingMinutes)
	assert.False(t, res.NeedsWriteBack)
}

func TestResolveStatus_TrialRemainingIsFloored(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	// 14 minutes and 59 seconds left
	trialStart := now.Add(-10*time.Minute - 1*time.Second)

	res := ResolveStatus(models.SubscriptionTrial, trialStart, 25, now)

	assert.True(t, res.IsActive)
	assert.Equal(t, 14, res.RemainingMinutes)
}

func TestResolveStatus_TrialJustEnded(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	trialStart := now.Add(-5 * time.Minute)

	res := ResolveStatus(models.SubscriptionTrial, trialStart, 5, now)

	assert.Equal(t, models.SubscriptionExpired, res.Status)
	assert.False(t, res.IsActive)
	assert.Equal(t, 0, res.RemainingMinutes, "remaining minutes must never be negative")
	assert.True(t, res.NeedsWriteBack)
}

func TestResolveStatus_TrialLongExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	trialStart := now.Add(-10 * time.Minute)

	res := ResolveStatus(models.SubscriptionTrial, trialStart, 5, now)

	assert.Equal(t, models.SubscriptionExpired, res.Status)
	assert.False(t, res.IsActive)
	assert.Equal(t, 0, res.RemainingMinutes)
	assert.True(t, res.NeedsWriteBack)
}

func TestResolveUserStatus_ExpiredTrialWritesBackOnce(t *testing.T) {
	resetStatusCache()
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	trialStart := now.Add(-10 * time.Minute)

	userRows := func() *sqlmock.Rows {
		return mock.NewRows([]string{"subscription_status", "trial_start_time", "trial_duration_minutes"}).
			AddRow("trial", trialStart, 5)
	}

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = (.+)`).
		WithArgs("u1", 1).
		WillReturnRows(userRows())
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "subscription_status"=(.+) WHERE id = (.+) AND subscription_status = (.+)`).
		WithArgs("expired", sqlmock.AnyArg(), "u1", "trial").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res := ResolveUserStatus(context.Background(), "u1", now)

	assert.Equal(t, models.SubscriptionExpired, res.Status)
	assert.False(t, res.IsActive)

	// second resolution is served from the cache: no further queries, and
	// no second write-back
	res = ResolveUserStatus(context.Background(), "u1", now)
	assert.Equal(t, models.SubscriptionExpired, res.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveUserStatus_StorageErrorReportsUnknown(t *testing.T) {
	resetStatusCache()
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = (.+)`).
		WithArgs("u1", 1).
		WillReturnError(assert.AnError)

	res := ResolveUserStatus(context.Background(), "u1", time.Now().UTC())

	assert.Equal(t, models.SubscriptionUnknown, res.Status)
	assert.False(t, res.IsActive)
}

func TestResolveUserStatus_ActiveUserIsCached(t *testing.T) {
	resetStatusCache()
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = (.+)`).
		WithArgs("u1", 1).
		WillReturnRows(mock.NewRows([]string{"subscription_status", "trial_start_time", "trial_duration_minutes"}).
			AddRow("active", time.Now().UTC(), 0))

	first := ResolveUserStatus(context.Background(), "u1", time.Now().UTC())
	second := ResolveUserStatus(context.Background(), "u1", time.Now().UTC())

	assert.True(t, first.IsActive)
	assert.Equal(t, first, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}
