package properties

import (
	"net/http"

	"github.com/bicepspshop/FINALrealtor-sub001/db"
	"github.com/bicepspshop/FINALrealtor-sub001/models"
	"github.com/bicepspshop/FINALrealtor-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary Create a property
// @Description Create a property listing attached to the connected agent
// @Tags properties
// @Accept json
// @Produce json
// @Param property body models.Property true "Property information"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "message: Property created successfully, id: property ID"
// @Failure 400 {object} map[string]interface{} "error: Invalid input"
// @Failure 401 {object} map[string]interface{} "error: Unauthorized"
// @Failure 500 {object} map[string]interface{} "error: Error message"
// @Router /properties [post]
func CreateProperty(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var property models.Property
	if err := c.ShouldBindJSON(&property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	property.ID = ""
	property.UserID = userID.(string)
	if property.Currency == "" {
		property.Currency = "RUB"
	}

	result := db.DB.Create(&property)
	if result.Error != nil {
		utils.LogErrorWithUser(userID, result.Error, "Error creating the property in CreateProperty")
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Property created successfully",
		"id":      property.ID,
	})
}

// @Summary List the agent's properties
// @Description Return all the properties of the connected agent
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Property
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /properties [get]
func GetProperties(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var propertyList []models.Property
	err := db.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&propertyList).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error fetching the properties in GetProperties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching properties"})
		return
	}

	c.JSON(http.StatusOK, propertyList)
}

// @Summary Details of a property
// @Description Return one property of the connected agent
// @Tags properties
// @Accept json
// @Produce json
// @Param propertyId path string true "ID of the property"
// @Security BearerAuth
// @Success 200 {object} models.Property
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Property not found"
// @Router /properties/{propertyId} [get]
func GetProperty(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	propertyID := c.Param("propertyId")
	if _, err := uuid.Parse(propertyID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}

	var property models.Property
	err := db.DB.First(&property, "id = ? AND user_id = ?", propertyID, userID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	c.JSON(http.StatusOK, property)
}

// @Summary Update a property
// @Description Update one property of the connected agent
// @Tags properties
// @Accept json
// @Produce json
// @Param propertyId path string true "ID of the property"
// @Param property body models.Property true "Property fields"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Property updated successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Property not found"
// @Router /properties/{propertyId} [put]
func UpdateProperty(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	propertyID := c.Param("propertyId")
	if _, err := uuid.Parse(propertyID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}

	var property models.Property
	if err := db.DB.First(&property, "id = ? AND user_id = ?", propertyID, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	var input models.Property
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	err := db.DB.Model(&property).Updates(map[string]interface{}{
		"title":       input.Title,
		"type":        input.Type,
		"address":     input.Address,
		"price":       input.Price,
		"area":        input.Area,
		"rooms":       input.Rooms,
		"description": input.Description,
	}).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error updating the property in UpdateProperty")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the property"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Property updated successfully"})
}

// @Summary Delete a property
// @Description Delete one property of the connected agent
// @Tags properties
// @Accept json
// @Produce json
// @Param propertyId path string true "ID of the property"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Property deleted successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Property not found"
// @Router /properties/{propertyId} [delete]
func DeleteProperty(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	propertyID := c.Param("propertyId")
	if _, err := uuid.Parse(propertyID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}

	result := db.DB.Where("id = ? AND user_id = ?", propertyID, userID).Delete(&models.Property{})
	if result.Error != nil {
		utils.LogErrorWithUser(userID, result.Error, "Error deleting the property in DeleteProperty")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting the property"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Property deleted successfully"})
}
