package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/OpenMeet-Team/openmeet-api-sub011/config"
	"github.com/OpenMeet-Team/openmeet-api-sub011/controllers"
	"github.com/OpenMeet-Team/openmeet-api-sub011/matrix"
	"github.com/OpenMeet-Team/openmeet-api-sub011/middleware"
	"github.com/OpenMeet-Team/openmeet-api-sub011/repository"
	"github.com/OpenMeet-Team/openmeet-api-sub011/routes"
	"github.com/OpenMeet-Team/openmeet-api-sub011/services"
)

func main() {
	// .env is optional; deployed environments set real env vars.
	_ = godotenv.Load()

	config.ConnectDB()
	matrixCfg := config.LoadMatrix()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	matrixClient, err := matrix.NewClient(matrix.ClientConfig{
		HomeserverURL: matrixCfg.HomeserverURL,
		Logger:        logger,
	})
	if err != nil {
		log.Fatalf("matrix client: %v", err)
	}
	adminSession := matrix.NewAdminSession(matrixClient, matrixCfg.AdminUsername, matrixCfg.AdminPassword, logger)

	chatService := services.NewChatRoomService(
		repository.NewChatRoomRepository(config.DB),
		repository.NewEventLookup(config.DB),
		repository.NewGroupLookup(config.DB),
		repository.NewUserLookup(config.DB),
		adminSession,
		matrixCfg,
		logger,
	)
	controllers.InitChat(chatService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return origin == "http://localhost:5173" || origin == "https://platform.openmeet.net"
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "x-tenant-id"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.TenantContext(matrixCfg.DefaultTenantID))

	r.GET("/", func(c *gin.Context) {
		c.String(200, "OpenMeet API is running")
	})

	if err := r.SetTrustedProxies(nil); err != nil {
		panic(err)
	}

	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on port %s\n", port)
	r.Run(":" + port)
}
