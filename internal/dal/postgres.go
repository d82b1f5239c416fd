package dal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/opencube/cube-draft-api/internal/draft"
	"github.com/opencube/cube-draft-api/internal/models"
)

// PostgresDAL implements DraftDAL using PostgreSQL. Documents are stored in
// JSONB columns alongside the few fields worth indexing.
type PostgresDAL struct {
	db *sql.DB
}

// NewPostgresDAL creates a new PostgreSQL data access layer.
func NewPostgresDAL(connString string) (*PostgresDAL, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// Retry the initial ping: in Kubernetes the database DNS name can lag
	// behind pod startup.
	maxRetries := 5
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		lastErr = db.PingContext(ctx)
		cancel()
		if lastErr == nil {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(5 * time.Second)
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("failed to ping postgres after %d retries: %w", maxRetries, lastErr)
	}

	dal := &PostgresDAL{db: db}
	if err := dal.initSchema(); err != nil {
		return nil, err
	}
	return dal, nil
}

func (p *PostgresDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS drafts (
		id TEXT PRIMARY KEY,
		cube_id TEXT NOT NULL,
		owner TEXT,
		complete BOOLEAN NOT NULL DEFAULT FALSE,
		date BIGINT NOT NULL,
		data JSONB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cubes (
		id TEXT PRIMARY KEY,
		owner TEXT NOT NULL,
		data JSONB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cube_cards (
		cube_id TEXT PRIMARY KEY,
		data JSONB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_drafts_cube ON drafts(cube_id);
	`

	_, err := p.db.Exec(schema)
	return err
}

func (p *PostgresDAL) PutDraft(d *models.Draft) (string, error) {
	if d.ID == "" {
		d.ID = genID("draft")
	}

	data, err := json.Marshal(d)
	if err != nil {
		return "", err
	}

	_, err = p.db.Exec(`
		INSERT INTO drafts (id, cube_id, owner, complete, date, data)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET complete = EXCLUDED.complete, data = EXCLUDED.data
	`, d.ID, d.Cube, d.Owner, d.Complete, d.Date, string(data))
	if err != nil {
		return "", err
	}
	return d.ID, nil
}

func (p *PostgresDAL) GetDraft(id string) (*models.Draft, error) {
	var data string
	err := p.db.QueryRow(`SELECT data FROM drafts WHERE id = $1`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, &draft.NotFoundError{Kind: "draft", ID: id}
	}
	if err != nil {
		return nil, err
	}

	var d models.Draft
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (p *PostgresDAL) PutCube(c *models.Cube) error {
	if c.ID == "" {
		c.ID = genID("cube")
	}

	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	_, err = p.db.Exec(`
		INSERT INTO cubes (id, owner, data) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET owner = EXCLUDED.owner, data = EXCLUDED.data
	`, c.ID, c.Owner, string(data))
	return err
}

func (p *PostgresDAL) GetCube(id string) (*models.Cube, error) {
	var data string
	err := p.db.QueryRow(`SELECT data FROM cubes WHERE id = $1`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, &draft.NotFoundError{Kind: "cube", ID: id}
	}
	if err != nil {
		return nil, err
	}

	var c models.Cube
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (p *PostgresDAL) PutCubeCards(cubeID string, cards []models.CardRecord) error {
	data, err := json.Marshal(cards)
	if err != nil {
		return err
	}

	_, err = p.db.Exec(`
		INSERT INTO cube_cards (cube_id, data) VALUES ($1, $2)
		ON CONFLICT (cube_id) DO UPDATE SET data = EXCLUDED.data
	`, cubeID, string(data))
	return err
}

func (p *PostgresDAL) GetCubeCards(cubeID string) ([]models.CardRecord, error) {
	var data string
	err := p.db.QueryRow(`SELECT data FROM cube_cards WHERE cube_id = $1`, cubeID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, &draft.NotFoundError{Kind: "cube cards", ID: cubeID}
	}
	if err != nil {
		return nil, err
	}

	var cards []models.CardRecord
	if err := json.Unmarshal([]byte(data), &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// Close closes the underlying database handle.
func (p *PostgresDAL) Close() error {
	return p.db.Close()
}
