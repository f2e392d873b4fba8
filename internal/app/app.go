package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/readshelf/library-service/internal/config"
	"github.com/readshelf/library-service/internal/handler"
	"github.com/readshelf/library-service/internal/repository"
	"github.com/readshelf/library-service/internal/server"
	"github.com/readshelf/library-service/internal/service"
	"github.com/readshelf/library-service/internal/stats"
	"github.com/readshelf/library-service/migrations"
	"github.com/readshelf/library-service/pkg/kafka"
	"github.com/readshelf/library-service/pkg/logger"
	"github.com/readshelf/library-service/pkg/postgres"

	"go.uber.org/zap"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db, log)
	bookRepo := repository.NewBookRepository(db, log)
	tokenRepo := repository.NewTokenRepository(db, log)

	userSvc := service.NewUserService(userRepo, tokenRepo, log)
	bookSvc := service.NewBookService(bookRepo, userSvc, log)
	authSvc := service.NewAuthService(userRepo, tokenRepo, cfg.JWT, log)

	consumeCtx, stopConsume := context.WithCancel(context.Background())
	defer stopConsume()

	var audit handler.AuditLog = handler.NopAuditLog{}
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewAsyncProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewAsyncProducer", zap.Error(err))
		}
		defer producer.Close()
		go kafka.DrainErrors(producer, log)
		audit = handler.NewAuditLog(producer, kafka.AuditTopic)

		consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.AuditConsumerGroup)
		if err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
		go kafka.Consume(consumeCtx, consumer, stats.NewConsumer(stats.NewCollector(), log), kafka.AuditTopic, log)
	}

	h := handler.New(userSvc, bookSvc, authSvc, audit, cfg.JWT, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	stopConsume()
	db.Close()
	log.Info("Graceful shutdown finished")
}
