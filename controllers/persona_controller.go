package controllers

import (
	"net/http"

	"github.com/cyberhope-ai/committee_server/services"
	"github.com/gin-gonic/gin"
)

func GetPersonas(c *gin.Context) {
	c.JSON(http.StatusOK, services.RegisteredPersonas())
}
