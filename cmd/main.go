package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/changhyun152521/tbc-sub001/config"
	"github.com/changhyun152521/tbc-sub001/database"
	"github.com/changhyun152521/tbc-sub001/handlers"
	"github.com/changhyun152521/tbc-sub001/routes"
	"github.com/changhyun152521/tbc-sub001/stats"
)

func main() {
	cfg := config.Load()

	// fail fast when the DB is not up yet
	database.Connect(cfg)
	database.EnsureAdmin(cfg)

	cache := stats.NewSummaryCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, cfg, cache)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
