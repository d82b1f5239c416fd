// Package analytics records draft lifecycle and reconciliation events in
// ClickHouse for diagnostics. It is a raw event log, not an aggregation
// layer.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Event kinds recorded by the service.
const (
	KindDraftStart    = "draft_start"
	KindDraftImport   = "draft_import"
	KindDraftRedraft  = "draft_redraft"
	KindDeckSave      = "deck_save"
	KindReconcileDrop = "reconcile_drop"
)

// Event is one diagnostic record.
type Event struct {
	DraftID  string
	Kind     string
	Seat     int
	OracleID string
	TS       time.Time
}

// Sink receives diagnostic events. The ClickHouse client and the development
// mock both implement it.
type Sink interface {
	RecordEvent(ev Event) error
	Close() error
}

// Client provides ClickHouse integration for draft diagnostics.
type Client struct {
	conn driver.Conn
}

// NewClient connects to ClickHouse and ensures the events table exists.
func NewClient(addr, database, username, password string) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	ddl := `
		CREATE TABLE IF NOT EXISTS draft_events (
			draft_id String,
			kind String,
			seat Int32,
			oracle_id String,
			ts DateTime
		) ENGINE = MergeTree()
		ORDER BY (draft_id, ts)
	`
	if err := conn.Exec(context.Background(), ddl); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create draft_events table: %w", err)
	}

	return &Client{conn: conn}, nil
}

// RecordEvent inserts one diagnostic event.
func (c *Client) RecordEvent(ev Event) error {
	if ev.TS.IsZero() {
		ev.TS = time.Now()
	}
	return c.conn.Exec(context.Background(), `
		INSERT INTO draft_events (draft_id, kind, seat, oracle_id, ts)
		VALUES ($1, $2, $3, $4, $5)
	`, ev.DraftID, ev.Kind, int32(ev.Seat), ev.OracleID, ev.TS)
}

// EventCounts returns per-kind event counts for a draft, used by operators
// to diagnose lossy imports.
func (c *Client) EventCounts(draftID string) (map[string]uint64, error) {
	rows, err := c.conn.Query(context.Background(), `
		SELECT kind, count() FROM draft_events
		WHERE draft_id = $1
		GROUP BY kind
	`, draftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]uint64)
	for rows.Next() {
		var kind string
		var n uint64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, nil
}

// Close closes the ClickHouse connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
