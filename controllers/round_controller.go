package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cyberhope-ai/committee_server/models"
	"github.com/cyberhope-ai/committee_server/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RoundController struct {
	Service *services.CaseService
}

func (ctrl *RoundController) GetRound(c *gin.Context) {
	caseID, ok := parseCaseID(c)
	if !ok {
		return
	}

	round, err := strconv.Atoi(c.Param("round"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round"})
		return
	}

	snapshot, err := ctrl.Service.RoundDetail(c.Request.Context(), caseID, round)
	if err != nil {
		respondRoundError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (ctrl *RoundController) GoToRound(c *gin.Context) {
	caseID, ok := parseCaseID(c)
	if !ok {
		return
	}

	var input struct {
		Round int `json:"round"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	kase, args, err := ctrl.Service.Navigate(c.Request.Context(), caseID, input.Round)
	if err != nil {
		respondRoundError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"case":      kase,
		"arguments": args,
	})
}

func (ctrl *RoundController) UpsertNote(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	caseID, ok := parseCaseID(c)
	if !ok {
		return
	}

	round, err := strconv.Atoi(c.Param("round"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round"})
		return
	}

	personaID := models.PersonaID(c.Param("persona"))
	if !personaID.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown persona"})
		return
	}

	var input struct {
		Note string `json:"note"`
	}

	if err := c.ShouldBindJSON(&input); err != nil || input.Note == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Note is required"})
		return
	}

	note, err := ctrl.Service.AppendNote(caseID, round, personaID, userID.(uint), input.Note)
	if err != nil {
		respondRoundError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

func respondRoundError(c *gin.Context, err error) {
	var unavailable *services.ArgumentsUnavailableError

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &unavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "retryable": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load round"})
	}
}
