// Package store persists after-action records of finished battles.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Garsondee/Trenchline/internal/game"
)

// ErrUnknownDriver is returned by Open for drivers other than sqlite and postgres.
var ErrUnknownDriver = errors.New("unknown store driver")

// SideRoster is the per-side tally stored in the roster JSON column.
type SideRoster struct {
	Faction    string   `json:"faction"`
	Characters []string `json:"characters"`
	Spawned    int      `json:"spawned"`
	Survivors  int      `json:"survivors"`
	Casualties int      `json:"casualties"`
	HoldTime   float64  `json:"holdTime"`
}

// BattleRecord is one after-action summary.
type BattleRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	MapID    string  `gorm:"index;size:128" json:"mapId"`
	Seed     int64   `json:"seed"`
	Ticks    int     `json:"ticks"`
	Elapsed  float64 `json:"elapsed"`
	Outcome  string  `gorm:"index;size:32" json:"outcome"`
	Reason   string  `gorm:"size:128" json:"reason"`
	Shots    int     `json:"shots"`
	Hits     int     `json:"hits"`
	Friendly int     `json:"friendlyCasualties"`
	Enemy    int     `json:"enemyCasualties"`

	Roster datatypes.JSON `json:"roster"`
}

// Rosters decodes the roster column.
func (r *BattleRecord) Rosters() ([2]SideRoster, error) {
	var out [2]SideRoster
	if len(r.Roster) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(r.Roster, &out); err != nil {
		return out, fmt.Errorf("decode roster of record %d: %w", r.ID, err)
	}
	return out, nil
}

// NewRecord summarises a finished battle. Factions names each side's faction
// and may be empty. Characters lists every template the side deployed, even
// when none of those soldiers remain on the field.
func NewRecord(mapID string, seed int64, snap game.Snapshot, factions [2]string, shots, hits int) (*BattleRecord, error) {
	reason := game.DetermineOutcome(snap)

	var rosters [2]SideRoster
	for _, side := range []game.Side{game.SideFriendly, game.SideEnemy} {
		rosters[side] = SideRoster{
			Faction:    factions[side],
			Characters: snap.Deployed[side],
			Spawned:    snap.Spawned[side],
			Survivors:  snap.Alive(side),
			Casualties: snap.Casualties[side],
			HoldTime:   snap.HoldTime[side],
		}
	}
	raw, err := json.Marshal(rosters)
	if err != nil {
		return nil, fmt.Errorf("encode roster: %w", err)
	}

	return &BattleRecord{
		MapID:    mapID,
		Seed:     seed,
		Ticks:    snap.Tick,
		Elapsed:  snap.Elapsed,
		Outcome:  reason.Outcome.String(),
		Reason:   reason.Description,
		Shots:    shots,
		Hits:     hits,
		Friendly: snap.Casualties[game.SideFriendly],
		Enemy:    snap.Casualties[game.SideEnemy],
		Roster:   datatypes.JSON(raw),
	}, nil
}

// Store wraps the after-action database.
type Store struct {
	DB     *gorm.DB
	Logger zerolog.Logger
	driver string
}

// Open connects to driver ("sqlite" or "postgres") and migrates the schema.
// An empty sqlite DSN opens a private in-memory database.
func Open(driver, dsn string, log zerolog.Logger) (*Store, error) {
	cfg := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "sqlite", "":
		driver = "sqlite"
		if dsn == "" {
			dsn = "file::memory:"
		}
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	case "postgres":
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), cfg)
	default:
		return nil, fmt.Errorf("open store: %w: %q", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}

	if driver == "sqlite" {
		// One connection keeps an in-memory database alive and shared.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("access sql interface: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&BattleRecord{}); err != nil {
		return nil, fmt.Errorf("migrate battle records: %w", err)
	}
	log.Info().Str("driver", driver).Msg("connected to after-action store")
	return &Store{DB: db, Logger: log, driver: driver}, nil
}

// Save inserts rec and fills its ID.
func (s *Store) Save(ctx context.Context, rec *BattleRecord) error {
	if err := s.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("save battle record: %w", err)
	}
	s.Logger.Debug().Uint("id", rec.ID).Str("map", rec.MapID).Str("outcome", rec.Outcome).Msg("saved battle record")
	return nil
}

// Recent returns up to limit records, newest first. mapID filters when set.
func (s *Store) Recent(ctx context.Context, mapID string, limit int) ([]BattleRecord, error) {
	q := s.DB.WithContext(ctx).Order("id desc")
	if mapID != "" {
		q = q.Where("map_id = ?", mapID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []BattleRecord
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query battle records: %w", err)
	}
	return out, nil
}

// OutcomeCounts tallies records by outcome for mapID, or all maps when empty.
func (s *Store) OutcomeCounts(ctx context.Context, mapID string) (map[string]int, error) {
	type row struct {
		Outcome string
		N       int
	}
	q := s.DB.WithContext(ctx).Model(&BattleRecord{}).Select("outcome, count(*) as n").Group("outcome")
	if mapID != "" {
		q = q.Where("map_id = ?", mapID)
	}
	var rows []row
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count outcomes: %w", err)
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Outcome] = r.N
	}
	return out, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
