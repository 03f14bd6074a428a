package subscription

import (
	"context"
	"time"

	"github.com/bicepspshop/FINALrealtor-sub001/cache"
	"github.com/bicepspshop/FINALrealtor-sub001/db"
	"github.com/bicepspshop/FINALrealtor-sub001/models"
	"github.com/bicepspshop/FINALrealtor-sub001/utils"
)

// StatusCache is the read-through cache over user status resolution. Every
// mutation site (payment success, cancellation, trial write-back) must
// invalidate the user's key.
var StatusCache cache.Cache = cache.NewMemory()

const statusCacheTTL = time.Minute

func statusCacheKey(userID string) string {
	return "substatus:" + userID
}

// Resolution is the outcome of evaluating a user's access.
type Resolution struct {
	Status           models.SubscriptionStatus `json:"subscriptionStatus"`
	IsActive         bool                      `json:"isActive"`
	RemainingMinutes int                       `json:"remainingMinutes"`
	// NeedsWriteBack is set when a trial was found expired and the stored
	// status must be reconciled.
	NeedsWriteBack bool `json:"-"`
}

// ResolveStatus derives access from the stored status and the trial window.
// It is pure: the lazy trial expiry write-back is signalled through
// NeedsWriteBack and performed by ResolveUserStatus.
func ResolveStatus(status models.SubscriptionStatus, trialStart time.Time, trialDurationMinutes int, now time.Time) Resolution {
	switch status {
	case models.SubscriptionActive:
		return Resolution{Status: models.SubscriptionActive, IsActive: true}
	case models.SubscriptionExpired:
		return Resolution{Status: models.SubscriptionExpired, IsActive: false}
	case models.SubscriptionCancelled:
		return Resolution{Status: models.SubscriptionCancelled, IsActive: false}
	case models.SubscriptionTrial:
		remaining := trialStart.Add(time.Duration(trialDurationMinutes) * time.Minute).Sub(now)
		if remaining <= 0 {
			return Resolution{Status: models.SubscriptionExpired, IsActive: false, NeedsWriteBack: true}
		}
		return Resolution{
			Status:           models.SubscriptionTrial,
			IsActive:         true,
			RemainingMinutes: int(remaining / time.Minute),
		}
	default:
		return Resolution{Status: models.SubscriptionUnknown, IsActive: false}
	}
}

// ResolveUserStatus loads the user record and resolves its access, going
// through StatusCache first. An expired trial is reconciled in storage; the
// update is guarded on the stored status still being trial, so re-resolving
// an already expired user is a no-op and never touches plan or end date.
// A storage error reports SubscriptionUnknown and IsActive false; callers
// decide per route whether to fail open or closed.
func ResolveUserStatus(ctx context.Context, userID string, now time.Time) Resolution {
	if cached, ok := StatusCache.Get(statusCacheKey(userID)); ok {
		if res, ok := cached.(Resolution); ok {
			return res
		}
	}

	var user models.User
	if err := db.DB.WithContext(ctx).
		Select("subscription_status", "trial_start_time", "trial_duration_minutes").
		First(&user, "id = ?", userID).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Cannot read the user record for status resolution")
		return Resolution{Status: models.SubscriptionUnknown, IsActive: false}
	}

	res := ResolveStatus(user.SubscriptionStatus, user.TrialStartTime, user.TrialDurationMinutes, now)
	if res.NeedsWriteBack {
		err := db.DB.WithContext(ctx).
			Model(&models.User{}).
			Where("id = ? AND subscription_status = ?", userID, models.SubscriptionTrial).
			Update("subscription_status", models.SubscriptionExpired).Error
		if err != nil {
			utils.LogErrorWithUser(userID, err, "Trial expiry write-back failed")
		}
		StatusCache.Invalidate(statusCacheKey(userID))
	}

	StatusCache.Set(statusCacheKey(userID), res, statusCacheTTL)
	return res
}
