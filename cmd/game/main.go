package main

import (
	"flag"
	stdlog "log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Trenchline/internal/assets"
	"github.com/Garsondee/Trenchline/internal/audio"
	"github.com/Garsondee/Trenchline/internal/config"
	"github.com/Garsondee/Trenchline/internal/logging"
	"github.com/Garsondee/Trenchline/internal/store"
	"github.com/Garsondee/Trenchline/internal/view"
)

func main() {
	cfgPath := flag.String("config", "", "config file (default: trenchline.* in the working directory)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		stdlog.Fatal(err)
	}

	var graylog string
	if cfg.Graylog.Enabled {
		graylog = cfg.Graylog.Address
	}
	log, closer, err := logging.New(logging.Options{Level: cfg.LogLevel, GraylogAddress: graylog})
	if err != nil {
		stdlog.Fatal(err)
	}
	defer closer.Close()

	repo, err := assets.LoadDir(cfg.AssetsDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.AssetsDir).Msg("loading assets")
	}
	log.Info().Int("maps", len(repo.Maps())).Int("factions", len(repo.Factions)).Msg("assets loaded")

	var player *audio.Player
	if cfg.Audio.Enabled {
		player = audio.NewPlayer(cfg.Audio.Volume, log)
		if err := player.Initialize(); err != nil {
			log.Warn().Err(err).Msg("audio disabled")
			player = nil
		} else {
			defer player.Close()
		}
	}

	db, err := store.Open(cfg.Store.Driver, cfg.Store.DSN, log)
	if err != nil {
		log.Warn().Err(err).Msg("after-action store disabled")
		db = nil
	} else {
		defer db.Close()
	}

	ebiten.SetWindowTitle("Trenchline")
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	g := view.New(view.Options{
		Config: cfg,
		Repo:   repo,
		Logger: log,
		Audio:  player,
		Store:  db,
	})
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal().Err(err).Msg("game exited")
	}
}
