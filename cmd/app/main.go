package main

import (
	"os"

	"github.com/DRSN-tech/ecommerce-backend/internal/app"
	config "github.com/DRSN-tech/ecommerce-backend/internal/cfg"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
)

//	@title						E-commerce catalogue API
//	@version					1.0
//	@description				Каталог товаров с отзывами, кэшем и загрузкой изображений.
//	@host						localhost:8080
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	bootLog := logger.NewSlogLogger()

	cfg, err := config.Load(bootLog)
	if err != nil {
		bootLog.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.LogBackend, cfg.App.LogLevel)
	if err != nil {
		bootLog.Errorf(err, "failed to initialize logger")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
