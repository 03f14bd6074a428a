package auth

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/bicepspshop/FINALrealtor-sub001/db"
	"github.com/bicepspshop/FINALrealtor-sub001/models"
	"github.com/bicepspshop/FINALrealtor-sub001/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// fallback of 14 days when TRIAL_DURATION_MINUTES is not set
const defaultTrialMinutes = 14 * 24 * 60

func trialDurationMinutes() int {
	if v := os.Getenv("TRIAL_DURATION_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			return minutes
		}
	}
	return defaultTrialMinutes
}

// Register creates an agent account and opens its trial window.
// @Summary Register a new agent
// @Description Create a new agent account; the trial window starts immediately
// @Tags auth
// @Accept json
// @Produce json
// @Param user body models.User true "Agent information"
// @Success 200 {object} map[string]interface{} "message: User created successfully, email: agent email"
// @Failure 400 {object} map[string]interface{} "error: Invalid input"
// @Failure 409 {object} map[string]interface{} "error: Email already used"
// @Failure 500 {object} map[string]interface{} "error: Error message"
// @Router /register [post]
func Register(c *gin.Context) {
	var user models.User

	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	var existing models.User
	if err := db.DB.First(&existing, "email = ?", user.Email).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already used"})
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.LogError(err, "Error checking the email in Register")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the user"})
		return
	}

	hashed, err := hashPassword(user.Password)
	if err != nil {
		utils.LogError(err, "Error hashing the password in Register")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the user"})
		return
	}
	user.Password = hashed
	user.TrialStartTime = time.Now().UTC()
	user.TrialDurationMinutes = trialDurationMinutes()
	user.SubscriptionStatus = models.SubscriptionTrial
	user.SubscriptionPlan = nil
	user.SubscriptionStartDate = nil
	user.SubscriptionEndDate = nil
	user.LastPaymentID = nil

	result := db.DB.Create(&user)
	if result.Error != nil {
		utils.LogError(result.Error, "Error creating the user in Register")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": result.Error.Error(),
		})
		return
	}

	utils.LogSuccessWithUser(user.ID, "User created successfully in Register")
	c.JSON(http.StatusOK, gin.H{
		"message": "User created successfully",
		"email":   user.Email,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates an agent and returns a JWT.
// @Summary Log an agent in
// @Description Check the credentials and return a JWT valid for 7 days
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Email and password"
// @Success 200 {object} map[string]string "token: JWT"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Invalid credentials"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /login [post]
func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := db.DB.First(&user, "email = ?", req.Email).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateJWT(user, 168)
	if err != nil {
		utils.LogErrorWithUser(user.ID, err, "Error generating the JWT in Login")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating the token"})
		return
	}

	utils.LogSuccessWithUser(user.ID, "User logged in successfully in Login")
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func hashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}
