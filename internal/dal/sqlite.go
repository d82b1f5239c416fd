package dal

import (
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"

	"github.com/opencube/cube-draft-api/internal/draft"
	"github.com/opencube/cube-draft-api/internal/models"
)

// SQLiteDAL implements DraftDAL using SQLite. Drafts and cubes are stored as
// JSON documents keyed by id; the draft document is only ever written whole,
// which keeps the persist step atomic.
type SQLiteDAL struct {
	db *sql.DB
}

// NewSQLiteDAL creates a new SQLite data access layer.
func NewSQLiteDAL(dbPath string) (*SQLiteDAL, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	dal := &SQLiteDAL{db: db}
	if err := dal.initSchema(); err != nil {
		return nil, err
	}
	return dal, nil
}

func (s *SQLiteDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS drafts (
		id TEXT PRIMARY KEY,
		cube_id TEXT NOT NULL,
		owner TEXT,
		complete INTEGER NOT NULL DEFAULT 0,
		date INTEGER NOT NULL,
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cubes (
		id TEXT PRIMARY KEY,
		owner TEXT NOT NULL,
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cube_cards (
		cube_id TEXT PRIMARY KEY,
		data TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_drafts_cube ON drafts(cube_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDAL) PutDraft(d *models.Draft) (string, error) {
	if d.ID == "" {
		d.ID = genID("draft")
	}

	data, err := json.Marshal(d)
	if err != nil {
		return "", err
	}

	complete := 0
	if d.Complete {
		complete = 1
	}

	_, err = s.db.Exec(`
		INSERT INTO drafts (id, cube_id, owner, complete, date, data)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET complete = excluded.complete, data = excluded.data
	`, d.ID, d.Cube, d.Owner, complete, d.Date, string(data))
	if err != nil {
		return "", err
	}
	return d.ID, nil
}

func (s *SQLiteDAL) GetDraft(id string) (*models.Draft, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM drafts WHERE id = ?`, id).Scan(&data)
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

func (s *SQLiteDAL) PutCube(c *models.Cube) error {
	if c.ID == "" {
		c.ID = genID("cube")
	}

	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO cubes (id, owner, data) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET owner = excluded.owner, data = excluded.data
	`, c.ID, c.Owner, string(data))
	return err
}

func (s *SQLiteDAL) GetCube(id string) (*models.Cube, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM cubes WHERE id = ?`, id).Scan(&data)
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

func (s *SQLiteDAL) PutCubeCards(cubeID string, cards []models.CardRecord) error {
	data, err := json.Marshal(cards)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO cube_cards (cube_id, data) VALUES (?, ?)
		ON CONFLICT(cube_id) DO UPDATE SET data = excluded.data
	`, cubeID, string(data))
	return err
}

func (s *SQLiteDAL) GetCubeCards(cubeID string) ([]models.CardRecord, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM cube_cards WHERE cube_id = ?`, cubeID).Scan(&data)
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
func (s *SQLiteDAL) Close() error {
	return s.db.Close()
}
