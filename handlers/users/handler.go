package users

import (
	"net/http"

	"github.com/bicepspshop/FINALrealtor-sub001/db"
	"github.com/bicepspshop/FINALrealtor-sub001/models"
	"github.com/bicepspshop/FINALrealtor-sub001/utils"

	"github.com/gin-gonic/gin"
)

// GetProfile returns the connected agent's record.
// @Summary Profile of the connected agent
// @Description Return the connected agent's record, password excluded
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: User not found"
// @Router /users/me [get]
func GetProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "User not found in GetProfile")
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, user)
}

type profileUpdate struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Agency string `json:"agency"`
}

// UpdateProfile updates the contact fields of the connected agent.
// @Summary Update the profile
// @Description Update name, phone and agency of the connected agent
// @Tags users
// @Accept json
// @Produce json
// @Param profile body profileUpdate true "Profile fields"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Profile updated"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /users/me [put]
func UpdateProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req profileUpdate
	if !utils.ValidateRequestBody(c, &req) {
		return
	}

	err := db.DB.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"name":   req.Name,
		"phone":  req.Phone,
		"agency": req.Agency,
	}).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error updating the profile in UpdateProfile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the profile"})
		return
	}

	utils.LogSuccessWithUser(userID, "Profile updated in UpdateProfile")
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}
