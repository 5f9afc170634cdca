package main

import (
	"fmt"
	"os"
	"time"

	"gearbook/config"
	"gearbook/dao"
	"gearbook/dao/query"
	"gearbook/engine"
	"gearbook/logutils"
	"gearbook/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	r := gin.Default()
	err := query.InitDB()
	if err != nil {
		fmt.Println("err init:", err)
		os.Exit(1)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	store := dao.NewStore(query.DB)
	coordinator := engine.NewCoordinator(store)

	service.RegisterAuth(r, query.DB)

	api := r.Group("/api", service.AuthMiddleware())
	service.RegisterProjects(api, query.DB, coordinator)
	service.RegisterItems(api, query.DB)
	service.RegisterEquipment(api, query.DB)
	service.RegisterShortages(api, coordinator)
	service.RegisterCalendar(api, query.DB)

	err = r.Run(":" + config.GetConfig().Server.Port)
	if err != nil {
		logutils.Log.Fatal(err)
	}
}
