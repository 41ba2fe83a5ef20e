package bracket

type Standing struct {
	PlayerID string `json:"player_id"`
	Rank     int    `json:"rank"`

	Played int `json:"played"`
	Won    int `json:"won"`
	Drawn  int `json:"drawn"`
	Lost   int `json:"lost"`
	Byes   int `json:"byes,omitempty"`

	Points float64 `json:"points"`

	// Tie-break statistics
	Buchholz     float64 `json:"buchholz"`
	ScoreFor     int     `json:"score_for"`
	ScoreAgainst int     `json:"score_against"`
	PointDiff    int     `json:"point_diff"`
}
