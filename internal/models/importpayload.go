package models

// ImportPayload is the request body accepted by the Draftmancer publish
// endpoint. All card references are oracle identities; the importer resolves
// them into card table indices.
type ImportPayload struct {
	CubeID    string         `json:"cubeID"`
	SessionID string         `json:"sessionID"`
	Timestamp int64          `json:"timestamp"`
	APIKey    string         `json:"apiKey"`
	Players   []ImportPlayer `json:"players"`
}

// ImportPlayer is one participant of an imported session.
type ImportPlayer struct {
	UserName string            `json:"userName"`
	IsBot    bool              `json:"isBot"`
	Picks    []ImportPickEvent `json:"picks"`
	Decklist ImportDecklist    `json:"decklist"`
}

// ImportPickEvent records one offer: the booster contents plus the offsets
// into it that were picked and burned.
type ImportPickEvent struct {
	Booster []string `json:"booster"`
	Picks   []int    `json:"picks"`
	Burn    []int    `json:"burn"`
}

// ImportDecklist is a human-authored deck: membership was already decided by
// the player, so it is placed directly without invoking the draft bots.
type ImportDecklist struct {
	Main  []string   `json:"main"`
	Side  []string   `json:"side"`
	Lands LandCounts `json:"lands"`
}

// LandCounts is the number of each basic land in a decklist.
type LandCounts struct {
	W int `json:"W"`
	U int `json:"U"`
	B int `json:"B"`
	R int `json:"R"`
	G int `json:"G"`
}
