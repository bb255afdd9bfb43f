// Package view is the windowed presentation of a battle: a menu, the
// battlefield, a HUD and a field-report panel.
package view

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Trenchline/internal/assets"
	"github.com/Garsondee/Trenchline/internal/audio"
	"github.com/Garsondee/Trenchline/internal/config"
	"github.com/Garsondee/Trenchline/internal/game"
	"github.com/Garsondee/Trenchline/internal/store"
)

// borderWidth is the pixel gap between the window edge and the battlefield.
const borderWidth = 24

var digitKeys = [...]ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3,
	ebiten.Key4, ebiten.Key5, ebiten.Key6,
	ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

type screenKind int

const (
	screenMenu screenKind = iota
	screenBattle
)

// Options wires the game to its collaborators. Audio and Store may be nil.
type Options struct {
	Config *config.Config
	Repo   *assets.Repository
	Logger zerolog.Logger
	Audio  *audio.Player
	Store  *store.Store
}

// battleState is everything owned by one running battle.
type battleState struct {
	battle   *game.Battle
	title    string
	seed     int64
	factions [2]*assets.Faction
	simLog   *game.SimLog
	fx       effects
	events   *eventLog
	worldBuf *ebiten.Image
}

type Game struct {
	cfg   *config.Config
	repo  *assets.Repository
	log   zerolog.Logger
	audio *audio.Player
	store *store.Store
	face  text.Face

	width      int
	height     int
	gameWidth  int // playfield width (log panel takes the rest)
	gameHeight int

	screen   screenKind
	menu     *menu
	bs       *battleState
	simSpeed float64
	status   string
}

// New builds the game at its menu screen.
func New(opts Options) *Game {
	cfg := opts.Config
	g := &Game{
		cfg:      cfg,
		repo:     opts.Repo,
		log:      opts.Logger,
		audio:    opts.Audio,
		store:    opts.Store,
		face:     text.NewGoXFace(basicfont.Face7x13),
		width:    cfg.Window.Width,
		height:   cfg.Window.Height,
		menu:     newMenu(opts.Repo),
		simSpeed: 1,
	}
	g.gameWidth = g.width - logPanelWidth - 2*borderWidth
	g.gameHeight = g.height - 2*borderWidth
	return g
}

func (g *Game) Update() error {
	switch g.screen {
	case screenMenu:
		return g.updateMenu()
	default:
		return g.updateBattle()
	}
}

func (g *Game) updateMenu() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		g.menu.move(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.menu.move(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		g.menu.cycle(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		g.menu.cycle(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		if !g.menu.ready() {
			return nil
		}
		choice, friendly, enemy := g.menu.selection()
		if err := g.startBattle(choice, friendly, enemy); err != nil {
			g.log.Error().Err(err).Str("map", choice.ID).Msg("cannot start battle")
			g.status = err.Error()
		}
	}
	return nil
}

func (g *Game) startBattle(choice mapChoice, friendly, enemy *assets.Faction) error {
	terrain, err := game.BuildTerrain(choice.Map, g.cfg.TileSize)
	if err != nil {
		return fmt.Errorf("map %s: %w", choice.ID, err)
	}
	seed := time.Now().UnixNano()
	b, err := game.NewBattle(terrain,
		game.WithSeed(seed),
		game.WithAnimFPS(g.cfg.Sim.AnimFPS),
		game.WithLogger(g.log.With().Str("map", choice.ID).Logger()),
	)
	if err != nil {
		return err
	}
	g.bs = &battleState{
		battle:   b,
		title:    choice.ID,
		seed:     seed,
		factions: [2]*assets.Faction{friendly, enemy},
		simLog:   game.NewSimLog(false),
		events:   newEventLog(),
		worldBuf: ebiten.NewImage(int(terrain.WidthPx()), int(terrain.HeightPx())),
	}
	g.screen = screenBattle
	g.simSpeed = 1
	g.status = ""
	g.log.Info().Str("map", choice.ID).Str("friendly", friendly.Name).Str("enemy", enemy.Name).Msg("battle started")
	return nil
}

func (g *Game) updateBattle() error {
	g.handleBattleInput()
	if g.bs == nil {
		return nil
	}
	g.bs.fx.update()
	if g.simSpeed <= 0 {
		return nil
	}

	// Split the frame into steps no longer than sim.maxDelta so rounds
	// cannot skip through a soldier at high speed.
	dt := g.simSpeed / float64(ebiten.TPS())
	for dt > 1e-9 {
		d := min(dt, g.cfg.Sim.MaxDelta)
		g.consume(g.bs.battle.Step(d))
		dt -= d
	}
	return nil
}

// consume fans a step's events out to the log, visuals and audio.
func (g *Game) consume(events []game.Event) {
	for _, e := range events {
		g.bs.simLog.Record(e)
	}
	g.bs.events.record(events)
	g.bs.fx.add(events)
	if g.audio != nil {
		g.audio.Handle(events)
	}
}

func (g *Game) handleBattleInput() {
	bs := g.bs
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	for i, k := range digitKeys {
		if !inpututil.IsKeyJustPressed(k) {
			continue
		}
		side := game.SideFriendly
		if shift {
			side = game.SideEnemy
		}
		g.spawn(side, i)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.advance(game.SideFriendly)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.advance(game.SideEnemy)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		g.simSpeed = slower(g.simSpeed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		g.simSpeed = faster(g.simSpeed)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		report := Report(bs.title, bs.battle.Snapshot(), bs.simLog)
		if err := clipboard.WriteAll(report); err != nil {
			g.status = "clipboard unavailable: " + err.Error()
		} else {
			g.status = "report copied to clipboard"
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.endBattle()
	}
}

func (g *Game) spawn(side game.Side, slot int) {
	f := g.bs.factions[side]
	if f == nil || slot >= len(f.Characters) {
		return
	}
	c := f.Characters[slot]
	if _, err := g.bs.battle.Spawn(c, side); err != nil {
		g.status = err.Error()
		return
	}
	// Commands issued between steps are reported on the next Step.
	g.status = fmt.Sprintf("%s deploys %s", f.DisplayName, c.DisplayName)
}

func (g *Game) advance(side game.Side) {
	idx, ok := g.bs.battle.Advance(side)
	if !ok {
		g.status = side.String() + ": no held trench to open"
		return
	}
	g.status = fmt.Sprintf("%s advance past trench #%d", side, idx)
}

// endBattle saves the after-action record and returns to the menu.
func (g *Game) endBattle() {
	bs := g.bs
	g.bs = nil
	g.screen = screenMenu
	if bs == nil {
		return
	}
	bs.worldBuf.Deallocate()

	snap := bs.battle.Snapshot()
	outcome := game.DetermineOutcome(snap)
	g.log.Info().Str("map", bs.title).Str("outcome", outcome.Outcome.String()).
		Str("reason", outcome.Description).Msg("battle ended")
	if g.store == nil || snap.Spawned == [2]int{} {
		return
	}

	var names [2]string
	for i, f := range bs.factions {
		if f != nil {
			names[i] = f.Name
		}
	}
	rec, err := store.NewRecord(bs.title, bs.seed, snap, names,
		bs.simLog.CountCategory("combat", "fired"), bs.simLog.CountCategory("combat", "hit"))
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err = g.store.Save(ctx, rec)
	}
	if err != nil {
		g.log.Error().Err(err).Msg("saving after-action record")
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.screen == screenMenu || g.bs == nil {
		g.menu.draw(screen, g.face, g.width, g.height)
		if g.status != "" {
			drawText(screen, g.face, g.status, borderWidth, g.height-borderWidth, color.RGBA{R: 230, G: 110, B: 90, A: 255})
		}
		return
	}
	screen.Fill(color.RGBA{R: 12, G: 12, B: 10, A: 255})

	bs := g.bs
	snap := bs.battle.Snapshot()
	drawWorld(bs.worldBuf, snap, &bs.fx)

	// Fit the battlefield into the playfield, keeping its aspect ratio.
	scale := min(float64(g.gameWidth)/snap.Width, float64(g.gameHeight)/snap.Height)
	var blit ebiten.DrawImageOptions
	blit.GeoM.Scale(scale, scale)
	blit.GeoM.Translate(borderWidth, borderWidth)
	screen.DrawImage(bs.worldBuf, &blit)

	ox, oy := float32(borderWidth), float32(borderWidth)
	fw, fh := float32(snap.Width*scale), float32(snap.Height*scale)
	vector.StrokeRect(screen, ox-1, oy-1, fw+2, fh+2, 2.0, color.RGBA{R: 90, G: 80, B: 55, A: 255}, false)

	bs.events.draw(screen, g.face, g.width-logPanelWidth, g.height)

	lines := hudLines(bs, snap, g.simSpeed, g.status)
	hudY := min(borderWidth+int(fh)+8, g.height-len(lines)*hudLineHeight-12)
	drawHUD(screen, g.face, lines, borderWidth, hudY)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
