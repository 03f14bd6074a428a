package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bicepspshop/FINALrealtor-sub001/db"
	"github.com/bicepspshop/FINALrealtor-sub001/handlers/subscription"
	"github.com/bicepspshop/FINALrealtor-sub001/models"
	"github.com/bicepspshop/FINALrealtor-sub001/utils"

	"github.com/gin-gonic/gin"
)

const (
	// SubscriptionPage is where inactive authenticated users are sent.
	SubscriptionPage = "/subscription"
	// ExpiredPage is where viewers of a shared link land when the link
	// owner's subscription has lapsed.
	ExpiredPage = "/expired"

	statusCookieName       = "sub_status"
	statusExpiryCookieName = "sub_status_exp"
	statusCookieTTL        = 30 * time.Minute

	resolveTimeout = 3 * time.Second
)

// RequireActiveSubscription gates authenticated dashboard routes. A cached
// cookie decision is honored for up to statusCookieTTL, which is a
// deliberate trade-off: a subscription revoked mid-window keeps access
// until the cookie expires. The cookie pair carries an HMAC over the user
// id, status and expiry, so a tampered or transplanted pair falls through
// to a fresh resolution instead of being trusted. When resolution itself
// fails the gate fails open, availability over strictness on transient
// errors.
func RequireActiveSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, exists := c.Get("user_id")
		userID, ok := uid.(string)
		if !exists || !ok || userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}

		if status, ok := readStatusCookie(c, userID); ok {
			if statusGrantsAccess(status) {
				c.Next()
			} else {
				redirectInactive(c, SubscriptionPage)
			}
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), resolveTimeout)
		defer cancel()
		res := subscription.ResolveUserStatus(ctx, userID, time.Now().UTC())

		if res.Status == models.SubscriptionUnknown {
			utils.LogErrorWithUser(userID, nil, "Status resolution failed, letting the request through")
			c.Next()
			return
		}

		writeStatusCookie(c, userID, res.Status)
		if res.IsActive {
			c.Next()
		} else {
			redirectInactive(c, SubscriptionPage)
		}
	}
}

// SharedCollectionGate gates the public share-link routes. Access depends
// on the collection OWNER's subscription, not on the anonymous viewer.
// Same fail-open policy as the dashboard gate, kept consistent on purpose.
func SharedCollectionGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Share token missing"})
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), resolveTimeout)
		defer cancel()

		var collection models.Collection
		if err := db.DB.WithContext(ctx).
			Select("id", "user_id").
			First(&collection, "share_token = ?", token).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
			c.Abort()
			return
		}

		res := subscription.ResolveUserStatus(ctx, collection.UserID, time.Now().UTC())
		if res.Status == models.SubscriptionUnknown {
			utils.LogErrorWithUser(collection.UserID, nil, "Owner status resolution failed, letting the shared view through")
			c.Next()
			return
		}
		if !res.IsActive {
			redirectInactive(c, ExpiredPage)
			return
		}

		c.Next()
	}
}

func statusGrantsAccess(status models.SubscriptionStatus) bool {
	return status == models.SubscriptionActive || status == models.SubscriptionTrial
}

func redirectInactive(c *gin.Context, page string) {
	c.Redirect(http.StatusFound, page)
	c.Abort()
}

func statusCookieSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// signStatus binds a cookie decision to one user, one status and one
// expiry instant.
func signStatus(userID string, status models.SubscriptionStatus, expiry int64) string {
	mac := hmac.New(sha256.New, statusCookieSecret())
	fmt.Fprintf(mac, "%s|%s|%d", userID, status, expiry)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func readStatusCookie(c *gin.Context, userID string) (models.SubscriptionStatus, bool) {
	if len(statusCookieSecret()) == 0 {
		// without a secret no cookie can be verified, resolve every time
		return "", false
	}
	raw, err := c.Cookie(statusCookieName)
	if err != nil || raw == "" {
		return "", false
	}
	status, sig, found := strings.Cut(raw, ".")
	if !found || status == "" {
		return "", false
	}
	expiryRaw, err := c.Cookie(statusExpiryCookieName)
	if err != nil {
		return "", false
	}
	expiry, err := strconv.ParseInt(expiryRaw, 10, 64)
	if err != nil || time.Now().Unix() >= expiry {
		return "", false
	}
	expected := signStatus(userID, models.SubscriptionStatus(status), expiry)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(sig)) != 1 {
		utils.LogErrorWithUser(userID, nil, "Status cookie failed verification, resolving from storage")
		return "", false
	}
	return models.SubscriptionStatus(status), true
}

func writeStatusCookie(c *gin.Context, userID string, status models.SubscriptionStatus) {
	maxAge := int(statusCookieTTL / time.Second)
	expiry := time.Now().Add(statusCookieTTL).Unix()
	value := string(status) + "." + signStatus(userID, status, expiry)
	c.SetCookie(statusCookieName, value, maxAge, "/", "", false, true)
	c.SetCookie(statusExpiryCookieName, strconv.FormatInt(expiry, 10), maxAge, "/", "", false, true)
}
