package clients

import (
	"net/http"

	"github.com/bicepspshop/FINALrealtor-sub001/db"
	"github.com/bicepspshop/FINALrealtor-sub001/models"
	"github.com/bicepspshop/FINALrealtor-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary Create a client
// @Description Create a client attached to the connected agent
// @Tags clients
// @Accept json
// @Produce json
// @Param client body models.Client true "Client information"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "message: Client created successfully, id: client ID"
// @Failure 400 {object} map[string]interface{} "error: Invalid input"
// @Failure 401 {object} map[string]interface{} "error: Unauthorized"
// @Failure 500 {object} map[string]interface{} "error: Error message"
// @Router /clients [post]
func CreateClient(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	client.ID = ""
	client.UserID = userID.(string)

	result := db.DB.Create(&client)
	if result.Error != nil {
		utils.LogErrorWithUser(userID, result.Error, "Error creating the client in CreateClient")
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Client created successfully",
		"id":      client.ID,
	})
}

// @Summary List the agent's clients
// @Description Return all the clients of the connected agent
// @Tags clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Client
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /clients [get]
func GetClients(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var clientList []models.Client
	err := db.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&clientList).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error fetching the clients in GetClients")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching clients"})
		return
	}

	c.JSON(http.StatusOK, clientList)
}

// @Summary Details of a client
// @Description Return one client of the connected agent
// @Tags clients
// @Accept json
// @Produce json
// @Param clientId path string true "ID of the client"
// @Security BearerAuth
// @Success 200 {object} models.Client
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Client not found"
// @Router /clients/{clientId} [get]
func GetClient(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	clientID := c.Param("clientId")
	if _, err := uuid.Parse(clientID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	var client models.Client
	err := db.DB.First(&client, "id = ? AND user_id = ?", clientID, userID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	c.JSON(http.StatusOK, client)
}

// @Summary Update a client
// @Description Update one client of the connected agent
// @Tags clients
// @Accept json
// @Produce json
// @Param clientId path string true "ID of the client"
// @Param client body models.Client true "Client fields"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Client updated successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Client not found"
// @Router /clients/{clientId} [put]
func UpdateClient(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	clientID := c.Param("clientId")
	if _, err := uuid.Parse(clientID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	var client models.Client
	if err := db.DB.First(&client, "id = ? AND user_id = ?", clientID, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	var input models.Client
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	err := db.DB.Model(&client).Updates(map[string]interface{}{
		"name":    input.Name,
		"phone":   input.Phone,
		"email":   input.Email,
		"comment": input.Comment,
	}).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error updating the client in UpdateClient")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the client"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client updated successfully"})
}

// @Summary Delete a client
// @Description Delete one client of the connected agent
// @Tags clients
// @Accept json
// @Produce json
// @Param clientId path string true "ID of the client"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Client deleted successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Client not found"
// @Router /clients/{clientId} [delete]
func DeleteClient(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	clientID := c.Param("clientId")
	if _, err := uuid.Parse(clientID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	result := db.DB.Where("id = ? AND user_id = ?", clientID, userID).Delete(&models.Client{})
	if result.Error != nil {
		utils.LogErrorWithUser(userID, result.Error, "Error deleting the client in DeleteClient")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting the client"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}
