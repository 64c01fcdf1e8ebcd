package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/superkingsely080296-boop/Comms-API-master/configs"
	"github.com/superkingsely080296-boop/Comms-API-master/routes"
)

func main() {
	cfg := configs.LoadConfig()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// DB
	configs.ConnectionDB(cfg.DBSource)

	// migrate
	configs.SetupDatabase()

	// HTTP
	r := gin.Default()
	routes.RegisterRoutes(r, cfg, log)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.WithField("addr", addr).Info("server running")
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
