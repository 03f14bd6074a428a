package collections

import (
	"net/http"

	"github.com/bicepspshop/FINALrealtor-sub001/db"
	"github.com/bicepspshop/FINALrealtor-sub001/models"
	"github.com/bicepspshop/FINALrealtor-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary Create a collection
// @Description Create a property collection attached to the connected agent
// @Tags collections
// @Accept json
// @Produce json
// @Param collection body models.Collection true "Collection information"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "message: Collection created successfully, id: collection ID"
// @Failure 400 {object} map[string]interface{} "error: Invalid input"
// @Failure 401 {object} map[string]interface{} "error: Unauthorized"
// @Failure 500 {object} map[string]interface{} "error: Error message"
// @Router /collections [post]
func CreateCollection(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var collection models.Collection
	if err := c.ShouldBindJSON(&collection); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	collection.ID = ""
	collection.UserID = userID.(string)
	collection.ShareToken = uuid.New().String()

	result := db.DB.Create(&collection)
	if result.Error != nil {
		utils.LogErrorWithUser(userID, result.Error, "Error creating the collection in CreateCollection")
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Collection created successfully",
		"id":      collection.ID,
	})
}

// @Summary List the agent's collections
// @Description Return all the collections of the connected agent
// @Tags collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Collection
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /collections [get]
func GetCollections(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var collectionList []models.Collection
	err := db.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&collectionList).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error fetching the collections in GetCollections")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching collections"})
		return
	}

	c.JSON(http.StatusOK, collectionList)
}

// @Summary Details of a collection
// @Description Return one collection of the connected agent with its properties
// @Tags collections
// @Accept json
// @Produce json
// @Param collectionId path string true "ID of the collection"
// @Security BearerAuth
// @Success 200 {object} models.Collection
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Collection not found"
// @Router /collections/{collectionId} [get]
func GetCollection(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	collectionID := c.Param("collectionId")
	if _, err := uuid.Parse(collectionID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collection ID"})
		return
	}

	var collection models.Collection
	err := db.DB.Preload("Properties").First(&collection, "id = ? AND user_id = ?", collectionID, userID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
		return
	}

	c.JSON(http.StatusOK, collection)
}

// @Summary Delete a collection
// @Description Delete one collection of the connected agent
// @Tags collections
// @Accept json
// @Produce json
// @Param collectionId path string true "ID of the collection"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Collection deleted successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Collection not found"
// @Router /collections/{collectionId} [delete]
func DeleteCollection(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	collectionID := c.Param("collectionId")
	if _, err := uuid.Parse(collectionID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collection ID"})
		return
	}

	result := db.DB.Where("id = ? AND user_id = ?", collectionID, userID).Delete(&models.Collection{})
	if result.Error != nil {
		utils.LogErrorWithUser(userID, result.Error, "Error deleting the collection in DeleteCollection")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting the collection"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Collection deleted successfully"})
}

type attachRequest struct {
	PropertyID string `json:"propertyId" binding:"required"`
}

// @Summary Attach a property to a collection
// @Description Add one of the agent's properties to one of their collections
// @Tags collections
// @Accept json
// @Produce json
// @Param collectionId path string true "ID of the collection"
// @Param property body attachRequest true "propertyId: ID of the property"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Property added to the collection"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Collection or property not found"
// @Router /collections/{collectionId}/properties [post]
func AttachProperty(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	collectionID := c.Param("collectionId")
	if _, err := uuid.Parse(collectionID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collection ID"})
		return
	}

	var req attachRequest
	if !utils.ValidateRequestBody(c, &req) {
		return
	}

	var collection models.Collection
	if err := db.DB.First(&collection, "id = ? AND user_id = ?", collectionID, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
		return
	}

	var property models.Property
	if err := db.DB.First(&property, "id = ? AND user_id = ?", req.PropertyID, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	if err := db.DB.Model(&collection).Association("Properties").Append(&property); err != nil {
		utils.LogErrorWithUser(userID, err, "Error attaching the property in AttachProperty")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error adding the property"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Property added to the collection"})
}

// @Summary Share link of a collection
// @Description Return the public share token of one of the agent's collections
// @Tags collections
// @Accept json
// @Produce json
// @Param collectionId path string true "ID of the collection"
// @Security BearerAuth
// @Success 200 {object} map[string]string "shareToken, shareUrl"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Collection not found"
// @Router /collections/{collectionId}/share [get]
func GetShareLink(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	collectionID := c.Param("collectionId")
	if _, err := uuid.Parse(collectionID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collection ID"})
		return
	}

	var collection models.Collection
	if err := db.DB.First(&collection, "id = ? AND user_id = ?", collectionID, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shareToken": collection.ShareToken,
		"shareUrl":   "/s/" + collection.ShareToken,
	})
}

// GetSharedCollection serves the public read-only view behind a share
// token. The route is gated by the owner's subscription status, never by
// the anonymous viewer.
// @Summary Public view of a shared collection
// @Description Return a collection and its properties through its share token
// @Tags collections
// @Accept json
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} models.Collection
// @Failure 404 {object} map[string]string "error: Collection not found"
// @Router /s/{token} [get]
func GetSharedCollection(c *gin.Context) {
	token := c.Param("token")

	var collection models.Collection
	err := db.DB.Preload("Properties").First(&collection, "share_token = ?", token).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
		return
	}

	c.JSON(http.StatusOK, collection)
}
