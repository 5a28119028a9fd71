package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cyberhope-ai/committee_server/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CaseController struct {
	Service *services.CaseService
}

func (ctrl *CaseController) CreateCase(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		EventID      string `json:"event_id"`
		GameID       string `json:"game_id"`
		OriginalCall string `json:"original_call"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if input.EventID == "" || input.GameID == "" || input.OriginalCall == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	kase, err := ctrl.Service.CreateCase(userID.(uint), input.EventID, input.GameID, input.OriginalCall)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create case"})
		return
	}

	c.JSON(http.StatusCreated, kase)
}

func (ctrl *CaseController) ListCases(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cases, err := ctrl.Service.ListCases(userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cases"})
		return
	}

	c.JSON(http.StatusOK, cases)
}

func (ctrl *CaseController) GetCase(c *gin.Context) {
	caseID, ok := parseCaseID(c)
	if !ok {
		return
	}

	snapshot, err := ctrl.Service.Snapshot(caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch case"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func parseCaseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid case id"})
		return 0, false
	}
	return uint(id), true
}
