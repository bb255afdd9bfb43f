package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Garsondee/Trenchline/internal/assets"
	"github.com/Garsondee/Trenchline/internal/config"
	"github.com/Garsondee/Trenchline/internal/game"
	"github.com/Garsondee/Trenchline/internal/logging"
	"github.com/Garsondee/Trenchline/internal/store"
	"github.com/Garsondee/Trenchline/internal/telemetry"
)

type options struct {
	runs     int
	seconds  float64
	dt       float64
	seedBase int64
	seedStep int64
	mapID    string
	assets   string
	friendly string
	enemy    string
	perSide  int
	config   string
	persist  bool
	influx   bool
}

type runStats struct {
	runIndex int
	seed     int64
	ticks    int
	elapsed  float64

	firstShotTick  int
	firstHitTick   int
	firstDeathTick int

	shots        [2]int
	hits         [2]int
	deaths       [2]int
	stateChanges int
	trenchResets int

	outcome game.BattleOutcomeReason
	record  *store.BattleRecord
}

func main() {
	var o options
	flag.IntVar(&o.runs, "runs", 5, "number of headless simulation runs")
	flag.Float64Var(&o.seconds, "seconds", 120, "simulated seconds per run")
	flag.Float64Var(&o.dt, "dt", 1.0/60.0, "fixed timestep in seconds")
	flag.Int64Var(&o.seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&o.seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&o.mapID, "map", "western-front/flats", "map ID (campaign/map)")
	flag.StringVar(&o.assets, "assets", "", "assets directory (default: built-in assets)")
	flag.StringVar(&o.friendly, "friendly", "british", "friendly faction")
	flag.StringVar(&o.enemy, "enemy", "german", "enemy faction")
	flag.IntVar(&o.perSide, "per-side", 6, "soldiers deployed per side, cycling through the roster")
	flag.StringVar(&o.config, "config", "", "config file (default: trenchline.* in the working directory)")
	flag.BoolVar(&o.persist, "persist", false, "save each run to the after-action store")
	flag.BoolVar(&o.influx, "influx", false, "export each run to InfluxDB")
	flag.Parse()

	if err := run(o, os.Stdout); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func run(o options, out io.Writer) error {
	switch {
	case o.runs <= 0:
		return errors.New("-runs must be > 0")
	case o.seconds <= 0:
		return errors.New("-seconds must be > 0")
	case o.dt <= 0:
		return errors.New("-dt must be > 0")
	case o.perSide <= 0:
		return errors.New("-per-side must be > 0")
	}

	cfg, err := config.Load(o.config)
	if err != nil {
		return err
	}
	log, closer, err := logging.New(logging.Options{
		Level:          cfg.LogLevel,
		GraylogAddress: graylogAddress(cfg),
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	repo, err := loadAssets(o.assets, cfg.AssetsDir)
	if err != nil {
		return err
	}
	m, err := repo.FindMap(o.mapID)
	if err != nil {
		return err
	}
	friendly, err := repo.Faction(o.friendly)
	if err != nil {
		return err
	}
	enemy, err := repo.Faction(o.enemy)
	if err != nil {
		return err
	}

	var db *store.Store
	if o.persist {
		db, err = store.Open(cfg.Store.Driver, cfg.Store.DSN, log)
		if err != nil {
			return err
		}
		defer db.Close()
	}
	var exporter *telemetry.Exporter
	if o.influx {
		exporter = telemetry.NewExporter(telemetry.Settings{
			URL:    cfg.Influx.URL,
			Token:  cfg.Influx.Token,
			Org:    cfg.Influx.Org,
			Bucket: cfg.Influx.Bucket,
		}, log)
		if err := exporter.Connect(context.Background()); err != nil {
			return err
		}
		defer exporter.Close()
	}

	fmt.Fprintf(out, "=== Headless Battle Report ===\n")
	fmt.Fprintf(out, "map=%s friendly=%s enemy=%s per_side=%d runs=%d seconds=%.0f dt=%.4f seed_base=%d seed_step=%d\n\n",
		o.mapID, friendly.Name, enemy.Name, o.perSide, o.runs, o.seconds, o.dt, o.seedBase, o.seedStep)

	all := make([]runStats, 0, o.runs)
	for i := 0; i < o.runs; i++ {
		seed := o.seedBase + int64(i)*o.seedStep
		rs, err := runBattle(i+1, seed, o, cfg, m, [2]*assets.Faction{friendly, enemy}, log)
		if err != nil {
			return err
		}
		all = append(all, rs)
		printRun(out, rs)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if db != nil {
			if err := db.Save(ctx, rs.record); err != nil {
				cancel()
				return err
			}
		}
		if exporter != nil {
			if err := exporter.Export(ctx, rs.record); err != nil {
				log.Error().Err(err).Int("run", rs.runIndex).Msg("influx export failed")
			}
		}
		cancel()
	}

	printAggregate(out, all)
	if db != nil {
		counts, err := db.OutcomeCounts(context.Background(), o.mapID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "stored_outcomes[%s]: %s\n", o.mapID, formatCounts(counts))
	}
	return nil
}

func graylogAddress(cfg *config.Config) string {
	if !cfg.Graylog.Enabled {
		return ""
	}
	return cfg.Graylog.Address
}

func loadAssets(flagDir, cfgDir string) (*assets.Repository, error) {
	if flagDir != "" {
		return assets.LoadDir(flagDir)
	}
	return assets.LoadDir(cfgDir)
}

func runBattle(runIndex int, seed int64, o options, cfg *config.Config, m *assets.Map,
	factions [2]*assets.Faction, log zerolog.Logger) (runStats, error) {
	opts := []game.SimOption{
		game.WithGrid(m.Rows...),
		game.WithTileSize(cfg.TileSize),
		game.WithDelta(o.dt),
		game.WithBattle(
			game.WithSeed(seed),
			game.WithAnimFPS(cfg.Sim.AnimFPS),
			game.WithLogger(log.With().Int("run", runIndex).Logger()),
		),
	}
	for side, f := range factions {
		if len(f.Characters) == 0 {
			return runStats{}, fmt.Errorf("faction %s has no characters", f.Name)
		}
		for i := 0; i < o.perSide; i++ {
			c := f.Characters[i%len(f.Characters)]
			if game.Side(side) == game.SideEnemy {
				opts = append(opts, game.WithEnemy(c, 1))
			} else {
				opts = append(opts, game.WithFriendly(c, 1))
			}
		}
	}

	ts, err := game.NewTestSim(opts...)
	if err != nil {
		return runStats{}, err
	}
	ts.RunFor(o.seconds)

	entries := ts.SimLog.Entries()
	rs := runStats{
		runIndex:       runIndex,
		seed:           seed,
		firstShotTick:  firstTick(entries, "combat", "fired", ""),
		firstHitTick:   firstTick(entries, "combat", "hit", ""),
		firstDeathTick: firstTick(entries, "state", "died", ""),
		stateChanges:   ts.SimLog.CountCategory("state", "change"),
		trenchResets:   ts.SimLog.CountCategory("trench", "reset"),
	}
	for _, e := range entries {
		side := game.SideFriendly
		if e.Side == game.SideEnemy.String() {
			side = game.SideEnemy
		}
		switch {
		case e.Category == "combat" && e.Key == "fired":
			rs.shots[side]++
		case e.Category == "combat" && e.Key == "hit":
			rs.hits[side]++
		case e.Category == "state" && e.Key == "died":
			rs.deaths[side]++
		}
	}

	snap := ts.Snapshot()
	rs.ticks = snap.Tick
	rs.elapsed = snap.Elapsed
	rs.outcome = game.DetermineOutcome(snap)

	var names [2]string
	for i, f := range factions {
		names[i] = f.Name
	}
	rs.record, err = store.NewRecord(o.mapID, seed, snap, names,
		rs.shots[0]+rs.shots[1], rs.hits[0]+rs.hits[1])
	if err != nil {
		return runStats{}, err
	}
	return rs, nil
}

func firstTick(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

// detectStalemate reports a battle where both lines survive mostly intact
// and neither side was able to make its fire tell.
func detectStalemate(rs runStats) (bool, string) {
	o := rs.outcome
	if o.FriendlyTotal == 0 || o.EnemyTotal == 0 {
		return false, "side_not_deployed"
	}
	fSurv := float64(o.FriendlySurvivors) / float64(o.FriendlyTotal)
	eSurv := float64(o.EnemySurvivors) / float64(o.EnemyTotal)
	if fSurv < 0.5 || eSurv < 0.5 {
		return false, "decisive_attrition"
	}
	if o.Outcome == game.OutcomeFriendlyVictory || o.Outcome == game.OutcomeEnemyVictory {
		return false, "objective_decided"
	}
	shots := rs.shots[0] + rs.shots[1]
	hits := rs.hits[0] + rs.hits[1]
	if shots > 0 && float64(hits)/float64(shots) > 0.25 {
		return false, "effective_fire"
	}
	return true, fmt.Sprintf("high_mutual_survival friendly=%.0f%% enemy=%.0f%% hits=%d/%d",
		fSurv*100, eSurv*100, hits, shots)
}

func printRun(out io.Writer, rs runStats) {
	fmt.Fprintf(out, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(out, "phase_markers: first_shot=%d first_hit=%d first_death=%d\n",
		rs.firstShotTick, rs.firstHitTick, rs.firstDeathTick)
	fmt.Fprintf(out, "event_totals: fired=%d/%d hits=%d/%d deaths=%d/%d state_change=%d trench_reset=%d\n",
		rs.shots[0], rs.shots[1], rs.hits[0], rs.hits[1], rs.deaths[0], rs.deaths[1],
		rs.stateChanges, rs.trenchResets)
	o := rs.outcome
	fmt.Fprintf(out, "survivors: friendly=%d/%d enemy=%d/%d hold_time: friendly=%.1fs enemy=%.1fs\n",
		o.FriendlySurvivors, o.FriendlyTotal, o.EnemySurvivors, o.EnemyTotal,
		o.FriendlyHoldTime, o.EnemyHoldTime)
	fmt.Fprintf(out, "outcome: %s (%s)\n", o.Outcome, o.Description)
	if stale, reason := detectStalemate(rs); stale {
		fmt.Fprintf(out, "stalemate: %s\n", reason)
	}
	fmt.Fprintln(out)
}

func printAggregate(out io.Writer, all []runStats) {
	var (
		totalShots, totalHits, totalDeaths int
		shotTicks, hitTicks, deathTicks    []int
		stalemates                         int
	)
	outcomes := map[string]int{}
	for _, rs := range all {
		totalShots += rs.shots[0] + rs.shots[1]
		totalHits += rs.hits[0] + rs.hits[1]
		totalDeaths += rs.deaths[0] + rs.deaths[1]
		if rs.firstShotTick >= 0 {
			shotTicks = append(shotTicks, rs.firstShotTick)
		}
		if rs.firstHitTick >= 0 {
			hitTicks = append(hitTicks, rs.firstHitTick)
		}
		if rs.firstDeathTick >= 0 {
			deathTicks = append(deathTicks, rs.firstDeathTick)
		}
		outcomes[rs.outcome.Outcome.String()]++
		if stale, _ := detectStalemate(rs); stale {
			stalemates++
		}
	}

	fmt.Fprintln(out, "=== Aggregate ===")
	fmt.Fprintf(out, "runs=%d\n", len(all))
	fmt.Fprintf(out, "avg_events_per_run: fired=%.1f hits=%.1f deaths=%.1f\n",
		avg(totalShots, len(all)), avg(totalHits, len(all)), avg(totalDeaths, len(all)))
	fmt.Fprintf(out, "phase_marker_avg_ticks: first_shot=%s first_hit=%s first_death=%s\n",
		avgTickString(shotTicks), avgTickString(hitTicks), avgTickString(deathTicks))
	fmt.Fprintf(out, "outcomes: %s stalemates=%d\n", formatCounts(outcomes), stalemates)
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}
