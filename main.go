package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"results-portal/config"
	"results-portal/controllers"
	"results-portal/driver"
	"results-portal/services"
	"results-portal/store"
	"results-portal/utils"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)

	resultStore, closeStore, err := openStore(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open record store")
	}
	defer closeStore()

	admin, err := services.NewAdmin(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		log.WithError(err).Fatal("invalid admin account")
	}
	auth := services.NewAuthService(admin, []byte(cfg.Secret), cfg.TokenTTL, log)
	results := services.NewResultService(resultStore, log)
	router := controllers.NewRouter(results, auth, resultStore, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "store": cfg.StoreDriver}).Info("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("server stopped")
}

func openStore(cfg *config.Config, log *logrus.Logger) (store.ResultStore, func(), error) {
	if cfg.StoreDriver == config.DriverMongo {
		ctx := context.Background()
		client, err := driver.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		s, err := store.NewMongoStore(ctx, client.Database(cfg.MongoDatabase))
		if err != nil {
			client.Disconnect(ctx)
			return nil, nil, err
		}
		return s, func() { client.Disconnect(context.Background()) }, nil
	}

	db, err := driver.ConnectDB(cfg.StoreDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := driver.Migrate(db, cfg.StoreDriver, log); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store.NewSQLStore(db), func() { db.Close() }, nil
}
