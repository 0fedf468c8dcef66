package main

import (
	"github.com/wfunc/pictureduel/config"
	"github.com/wfunc/pictureduel/logger"
	"github.com/wfunc/pictureduel/monitor"
	"github.com/wfunc/pictureduel/persistence"
	"github.com/wfunc/pictureduel/room"
	"github.com/wfunc/pictureduel/server"
	"github.com/wfunc/pictureduel/services"
	"github.com/wfunc/pictureduel/timer"
)

func main() {
	// Initialize logger
	logger.Init()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Database is optional; rooms play fine without an archive.
	var db persistence.Database
	if cfg.Database.Enabled {
		gormDB, err := persistence.NewGormPostgreSQL(
			cfg.Database.Postgres.Host,
			cfg.Database.Postgres.Port,
			cfg.Database.Postgres.User,
			cfg.Database.Postgres.Password,
			cfg.Database.Postgres.DBName,
		)
		if err != nil {
			logger.Log.Fatalf("Failed to connect to database: %v", err)
		}
		logger.Log.Info("Database connection successful.")
		db = gormDB
		defer gormDB.Close()
	}
	records := services.NewRecordService(db)

	mon := monitor.NewMonitor("pictureduel")
	mon.StartServer(cfg.Server.MetricsAddress)

	scheduler := timer.NewScheduler()
	defer scheduler.Stop()

	gameCfg := room.Config{
		DefaultRoundDuration: cfg.Game.DefaultRoundDuration(),
		MinRoundDuration:     cfg.Game.MinRoundDuration(),
		MaxRoundDuration:     cfg.Game.MaxRoundDuration(),
		MaxDrawsPerPlayer:    cfg.Game.MaxDrawsPerPlayer,
		AutoAdvanceDelay:     cfg.Game.AutoAdvanceDelay(),
	}

	// Initialize Game Server
	gameServer := server.NewGameServer(cfg.Server.HTTPAddress, cfg.Server.RPCAddress, gameCfg, scheduler, mon, records)

	// Start Server
	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
