package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/rsiwady29/tennis-scoreboard/internal/cache/mem"
	"github.com/rsiwady29/tennis-scoreboard/internal/config"
	"github.com/rsiwady29/tennis-scoreboard/internal/domain"
	"github.com/rsiwady29/tennis-scoreboard/internal/input"
	"github.com/rsiwady29/tennis-scoreboard/internal/logger"
	"github.com/rsiwady29/tennis-scoreboard/internal/normalize"
	"github.com/rsiwady29/tennis-scoreboard/internal/service"
	"github.com/rsiwady29/tennis-scoreboard/internal/storage"
	"github.com/rsiwady29/tennis-scoreboard/internal/storage/fsjson"
	"github.com/rsiwady29/tennis-scoreboard/internal/storage/sqlite"
	"github.com/rsiwady29/tennis-scoreboard/internal/tgbot"
	"github.com/rsiwady29/tennis-scoreboard/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Server.Debug)

	matchStorage, err := fsjson.New(log, cfg.Scoreboard.DataDir)
	if err != nil {
		return err
	}

	var archive storage.MatchArchive
	if cfg.Scoreboard.ArchiveDB != "" {
		sqlArchive, err := sqlite.New(log, cfg.Scoreboard.ArchiveDB)
		if err != nil {
			return err
		}
		defer sqlArchive.Close()
		archive = sqlArchive
	}

	rules := domain.Rules{
		SetsToWin: cfg.Scoreboard.SetsToWin(),
		Tiebreak:  cfg.Scoreboard.Tiebreak,
	}
	matchService := service.New(
		log,
		matchStorage,
		archive,
		rules,
		normalize.Name(cfg.Scoreboard.HomeName),
		normalize.Name(cfg.Scoreboard.AwayName),
	)

	scoreCache := mem.New()
	matchService.Attach(scoreCache)
	matchService.Attach(consoleObserver{log: log})

	if cfg.Server.TgBotEnabled {
		bot, err := tgbot.New(matchService, cfg.TgBot, log)
		if err != nil {
			return err
		}
		matchService.Attach(bot)
		go bot.Run()
		defer bot.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go matchService.Run(ctx)

	listener := input.NewListener(log, matchService, input.Default())
	go func() {
		if err := listener.Listen(ctx, os.Stdin); err != nil {
			log.WithError(err).Error("input listener stopped")
		}
	}()

	server, err := web.New(matchService, scoreCache, cfg.Server)
	if err != nil {
		return err
	}
	return server.Serve()
}

// consoleObserver mirrors the score to the log, which is the on-device
// console display.
type consoleObserver struct {
	log *logrus.Logger
}

func (c consoleObserver) Update(snap domain.Snapshot) {
	entry := c.log.WithField("durable", snap.Durable)
	if !snap.Durable {
		entry.Warn(snap.State.ScoreLine())
		return
	}
	entry.Info(snap.State.ScoreLine())
}
