package main

import (
	"context"
	"net/http"
	"time"

	"github.com/quizdeck/quizdeck/internal/config"
	"github.com/quizdeck/quizdeck/internal/db"
	"github.com/quizdeck/quizdeck/internal/localapi"
	"github.com/quizdeck/quizdeck/internal/logging"
)

func main() {
	cfg := config.FromEnv()

	log, err := logging.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatal("db open failed", "error", err)
	}

	store := localapi.NewSQLStore(dbh)
	auth := localapi.NewAuthService(cfg.AuthHMACSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	srv := localapi.NewServer(store, auth, log)

	log.Info("listening", "addr", cfg.HTTPAddr, "db", cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, srv.Router(localapi.ServerConfig{CORSOrigins: cfg.CORSOrigins})); err != nil {
		log.Fatal("server exited", "error", err)
	}
}
