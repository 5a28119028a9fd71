package routes

import (
	"github.com/cyberhope-ai/committee_server/controllers"
	"github.com/cyberhope-ai/committee_server/middleware"
	"github.com/cyberhope-ai/committee_server/services"
	"github.com/gin-gonic/gin"
)

func CaseRoutes(r *gin.Engine, svc *services.CaseService) {
	cases := controllers.CaseController{Service: svc}
	rounds := controllers.RoundController{Service: svc}
	actions := controllers.ActionController{Service: svc}

	r.GET("/personas", controllers.GetPersonas)

	auth := r.Group("/cases")
	auth.Use(middleware.RequireAuth())
	{
		auth.POST("", cases.CreateCase)
		auth.GET("", cases.ListCases)
		auth.GET("/:id", cases.GetCase)
		auth.GET("/:id/rounds/:round", rounds.GetRound)
		auth.POST("/:id/rounds/goto", rounds.GoToRound)
		auth.PUT("/:id/rounds/:round/notes/:persona", rounds.UpsertNote)
		auth.POST("/:id/consensus", actions.ComputeConsensus)
		auth.POST("/:id/actions", actions.DispatchAction)
	}
}
