package dal

import "github.com/opencube/cube-draft-api/internal/models"

// DraftDAL defines the interface for the data access layer. PutDraft is the
// single commit point for a draft: everything before it happens in memory.
type DraftDAL interface {
	PutDraft(d *models.Draft) (string, error)
	GetDraft(id string) (*models.Draft, error)
	PutCube(c *models.Cube) error
	GetCube(id string) (*models.Cube, error)
	PutCubeCards(cubeID string, cards []models.CardRecord) error
	GetCubeCards(cubeID string) ([]models.CardRecord, error)
}
