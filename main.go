package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/cppla/blogposts/config"
	"github.com/cppla/blogposts/middleware"
	"github.com/cppla/blogposts/models"
	"github.com/cppla/blogposts/routes"
	"github.com/cppla/blogposts/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db, err := config.InitDatabase(cfg, &models.Post{})
	if err != nil {
		utils.Sugar.Fatalf("failed to initialize database: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	var cache *utils.Cache
	if cfg.CacheEnabled {
		client := utils.NewRedisClient(cfg)
		defer client.Close()
		cache = utils.NewCache(client, time.Duration(cfg.CacheTTLSeconds)*time.Second)
		utils.Sugar.Infof("response cache enabled redis=%s", client.Options().Addr)
	}

	var metrics *middleware.HTTPMetrics
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = middleware.NewHTTPMetrics(reg)
	}

	r := routes.SetupRouter(cfg, db, cache, metrics)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Errorf("server stopped with error: %v", err)
	}
}
