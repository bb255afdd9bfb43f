// Package telemetry exports after-action records to InfluxDB.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Trenchline/internal/game"
	"github.com/Garsondee/Trenchline/internal/store"
)

// Measurement is the InfluxDB measurement of battle points.
const Measurement = "battle"

// Settings address the InfluxDB server.
type Settings struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// Exporter writes one point per finished battle. When the server is not
// reachable, points go to Fallback as line protocol if one is set.
type Exporter struct {
	Client   influxdb2.Client
	Writer   influxdb2_api.WriteAPIBlocking
	Fallback io.Writer
	IsValid  bool
	Logger   zerolog.Logger
	settings Settings
}

// NewExporter creates an unconnected exporter.
func NewExporter(s Settings, log zerolog.Logger) *Exporter {
	return &Exporter{settings: s, Logger: log}
}

// Connect pings the server and prepares the blocking writer. A failed ping
// leaves the exporter usable through Fallback and is reported as an error.
func (e *Exporter) Connect(ctx context.Context) error {
	if e.settings.URL == "" {
		return errors.New("influx url is empty")
	}
	e.Client = influxdb2.NewClientWithOptions(
		e.settings.URL,
		e.settings.Token,
		influxdb2.DefaultOptions().SetHTTPRequestTimeout(5),
	)

	running, err := e.Client.Ping(ctx)
	if err != nil || !running {
		e.IsValid = false
		e.Logger.Warn().Err(err).Str("url", e.settings.URL).Msg("InfluxDB not reachable, points go to fallback")
		if err == nil {
			err = errors.New("ping reported not running")
		}
		return fmt.Errorf("influx ping %s: %w", e.settings.URL, err)
	}
	e.Writer = e.Client.WriteAPIBlocking(e.settings.Org, e.settings.Bucket)
	e.IsValid = true
	e.Logger.Info().Str("bucket", e.settings.Bucket).Msg("InfluxDB client initialized")
	return nil
}

// Point converts rec into an InfluxDB point tagged by map and outcome.
func Point(rec *store.BattleRecord) (*influxdb2_write.Point, error) {
	rosters, err := rec.Rosters()
	if err != nil {
		return nil, err
	}
	ts := rec.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	p := influxdb2_write.NewPointWithMeasurement(Measurement).
		AddTag("map", rec.MapID).
		AddTag("outcome", rec.Outcome).
		AddField("seed", rec.Seed).
		AddField("ticks", rec.Ticks).
		AddField("elapsed", rec.Elapsed).
		AddField("shots", rec.Shots).
		AddField("hits", rec.Hits).
		SetTime(ts)
	for _, side := range []game.Side{game.SideFriendly, game.SideEnemy} {
		r := rosters[side]
		prefix := side.String() + "_"
		if r.Faction != "" {
			p.AddTag(prefix+"faction", r.Faction)
		}
		p.AddField(prefix+"spawned", r.Spawned).
			AddField(prefix+"survivors", r.Survivors).
			AddField(prefix+"casualties", r.Casualties).
			AddField(prefix+"hold_time", r.HoldTime)
	}
	return p, nil
}

// Export writes rec to the server, or to Fallback when not connected.
func (e *Exporter) Export(ctx context.Context, rec *store.BattleRecord) error {
	p, err := Point(rec)
	if err != nil {
		return err
	}
	if e.IsValid {
		if err := e.Writer.WritePoint(ctx, p); err != nil {
			return fmt.Errorf("write battle point: %w", err)
		}
		return nil
	}
	if e.Fallback == nil {
		return errors.New("influx client not connected and no fallback writer")
	}
	line := influxdb2_write.PointToLineProtocol(p, time.Nanosecond)
	if _, err := io.WriteString(e.Fallback, line+"\n"); err != nil {
		return fmt.Errorf("write fallback line: %w", err)
	}
	return nil
}

// Close releases the client.
func (e *Exporter) Close() {
	if e.Client != nil {
		e.Client.Close()
	}
}
