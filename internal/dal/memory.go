package dal

import (
	"encoding/json"
	"sync"

	"github.com/opencube/cube-draft-api/internal/draft"
	"github.com/opencube/cube-draft-api/internal/models"
)

// MemoryDAL implements DraftDAL using in-memory storage. Values are stored
// and returned as deep copies so callers never share mutable state with the
// store.
type MemoryDAL struct {
	mu        sync.RWMutex
	drafts    map[string]*models.Draft
	cubes     map[string]*models.Cube
	cubeCards map[string][]models.CardRecord
}

// NewMemoryDAL creates a new in-memory data access layer.
func NewMemoryDAL() *MemoryDAL {
	return &MemoryDAL{
		drafts:    make(map[string]*models.Draft),
		cubes:     make(map[string]*models.Cube),
		cubeCards: make(map[string][]models.CardRecord),
	}
}

func (m *MemoryDAL) PutDraft(d *models.Draft) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d.ID == "" {
		d.ID = genID("draft")
	}

	stored, err := copyDraft(d)
	if err != nil {
		return "", err
	}
	m.drafts[d.ID] = stored
	return d.ID, nil
}

func (m *MemoryDAL) GetDraft(id string) (*models.Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.drafts[id]
	if !ok {
		return nil, &draft.NotFoundError{Kind: "draft", ID: id}
	}
	return copyDraft(d)
}

func (m *MemoryDAL) PutCube(c *models.Cube) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID == "" {
		c.ID = genID("cube")
	}
	stored := *c
	stored.Basics = append([]string{}, c.Basics...)
	m.cubes[c.ID] = &stored
	return nil
}

func (m *MemoryDAL) GetCube(id string) (*models.Cube, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.cubes[id]
	if !ok {
		return nil, &draft.NotFoundError{Kind: "cube", ID: id}
	}
	out := *c
	out.Basics = append([]string{}, c.Basics...)
	return &out, nil
}

func (m *MemoryDAL) PutCubeCards(cubeID string, cards []models.CardRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cubeCards[cubeID] = append([]models.CardRecord{}, cards...)
	return nil
}

func (m *MemoryDAL) GetCubeCards(cubeID string) ([]models.CardRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cards, ok := m.cubeCards[cubeID]
	if !ok {
		return nil, &draft.NotFoundError{Kind: "cube cards", ID: cubeID}
	}
	return append([]models.CardRecord{}, cards...), nil
}

// copyDraft deep-copies a draft through its JSON form. Drafts are documents
// with nested slices; a round trip is simpler than field-by-field cloning
// and matches how the SQL stores serialize them anyway.
func copyDraft(d *models.Draft) (*models.Draft, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var out models.Draft
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
