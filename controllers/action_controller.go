package controllers

import (
	"errors"
	"net/http"

	"github.com/cyberhope-ai/committee_server/models"
	"github.com/cyberhope-ai/committee_server/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ActionController struct {
	Service *services.CaseService
}

func (ctrl *ActionController) ComputeConsensus(c *gin.Context) {
	caseID, ok := parseCaseID(c)
	if !ok {
		return
	}

	consensus, err := ctrl.Service.ComputeConsensus(c.Request.Context(), caseID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
		case errors.Is(err, services.ErrConsensusNotReady):
			c.JSON(http.StatusConflict, gin.H{"error": "Round 3 is not complete yet"})
		case errors.Is(err, services.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute consensus"})
		}
		return
	}

	c.JSON(http.StatusOK, consensus)
}

func (ctrl *ActionController) DispatchAction(c *gin.Context) {
	caseID, ok := parseCaseID(c)
	if !ok {
		return
	}

	var input struct {
		Type  string `json:"type"`
		Notes string `json:"notes"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	actionType := models.ActionType(input.Type)
	if !actionType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action type"})
		return
	}

	outcome, err := ctrl.Service.DispatchAction(c.Request.Context(), caseID, actionType, input.Notes)
	if err != nil {
		var dispatchErr *services.DispatchFailedError

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
		case errors.Is(err, services.ErrNoConsensusAvailable):
			c.JSON(http.StatusConflict, gin.H{"error": "Compute a consensus before dispatching"})
		case errors.Is(err, services.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.As(err, &dispatchErr):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "retryable": true})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to dispatch action"})
		}
		return
	}

	c.JSON(http.StatusOK, outcome)
}
