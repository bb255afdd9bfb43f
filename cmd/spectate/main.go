// Command spectate runs a battle in the terminal. Reinforcements are sent
// from the keyboard and the battlefield is drawn as text.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Garsondee/Trenchline/internal/assets"
	"github.com/Garsondee/Trenchline/internal/config"
	"github.com/Garsondee/Trenchline/internal/game"
	"github.com/Garsondee/Trenchline/internal/logging"
	"github.com/Garsondee/Trenchline/internal/tui"
)

type options struct {
	mapID    string
	friendly string
	enemy    string
	config   string
	assets   string
	seed     int64
}

func main() {
	var o options
	flag.StringVar(&o.mapID, "map", "western-front/flats", "map ID (campaign/map)")
	flag.StringVar(&o.friendly, "friendly", "british", "friendly faction")
	flag.StringVar(&o.enemy, "enemy", "german", "enemy faction")
	flag.StringVar(&o.config, "config", "", "config file (default: trenchline.* in the working directory)")
	flag.StringVar(&o.assets, "assets", "", "assets directory (default: config assetsDir, then built-in)")
	flag.Int64Var(&o.seed, "seed", 0, "RNG seed (0 picks one from the clock)")
	flag.Parse()

	m, err := setup(o, io.Discard)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if err := tui.Run(m); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads config and assets and builds the spectator model. Logs go to
// logOut since the terminal belongs to the model.
func setup(o options, logOut io.Writer) (tui.Model, error) {
	cfg, err := config.Load(o.config)
	if err != nil {
		return tui.Model{}, err
	}
	log, _, err := logging.New(logging.Options{Level: cfg.LogLevel, Out: logOut, NoColor: true})
	if err != nil {
		return tui.Model{}, err
	}

	dir := o.assets
	if dir == "" {
		dir = cfg.AssetsDir
	}
	repo, err := assets.LoadDir(dir)
	if err != nil {
		return tui.Model{}, err
	}
	mp, err := repo.FindMap(o.mapID)
	if err != nil {
		return tui.Model{}, err
	}
	var roster tui.Roster
	for side, name := range [2]string{o.friendly, o.enemy} {
		f, err := repo.Faction(name)
		if err != nil {
			return tui.Model{}, err
		}
		roster[side] = f.Characters
	}

	terrain, err := game.BuildTerrain(mp, cfg.TileSize)
	if err != nil {
		return tui.Model{}, err
	}
	seed := o.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	battle, err := game.NewBattle(terrain,
		game.WithSeed(seed),
		game.WithAnimFPS(cfg.Sim.AnimFPS),
		game.WithLogger(log),
	)
	if err != nil {
		return tui.Model{}, err
	}
	title := fmt.Sprintf("%s: %s vs %s", mp.Name, o.friendly, o.enemy)
	return tui.NewModel(title, battle, roster, 0), nil
}
