package main

import (
	"github.com/cyberhope-ai/committee_server/database"
	"github.com/cyberhope-ai/committee_server/models"
	"github.com/cyberhope-ai/committee_server/routes"
	"github.com/cyberhope-ai/committee_server/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	database.Connect()
	database.DB.AutoMigrate(
		&models.User{},
		&models.CommitteeCase{},
		&models.PersonaArgument{},
		&models.HumanNote{},
		&models.Consensus{},
		&models.ActionRecord{},
	)

	store := services.NewArgumentStore(database.DB, services.SelectArgumentSource())
	svc := services.NewCaseService(database.DB, store, services.SelectActionTransport())

	r := gin.Default()
	routes.UserRoutes(r)
	routes.CaseRoutes(r, svc)

	r.Run()
}
