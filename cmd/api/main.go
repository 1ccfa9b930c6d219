package main

import (
	"flag"
	"log"

	"feiraja/internal/app"
)

// @title                       Feirajá API
// @version                     2.0.0
// @description                 Онбординг покупателей через WhatsApp, каталог, корзины, адреса и администрирование.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: $CONFIG_PATH or config/config.yaml)")
	flag.Parse()

	if err := app.Run(*configPath); err != nil {
		log.Fatalf("feiraja: %v", err)
	}
}
