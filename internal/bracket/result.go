package bracket

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type ScoreKind string

const (
	TennisScoreKind ScoreKind = "tennis"
	PointsScoreKind ScoreKind = "points"
)

// ScorePayload is a tagged union of sport specific score shapes. Exactly the
// field named by Kind is set.
type ScorePayload struct {
	Kind   ScoreKind    `json:"kind"`
	Tennis *TennisScore `json:"tennis,omitempty"`
	Points *PointsScore `json:"points,omitempty"`
}

type SetScore struct {
	Player1 int `json:"player_1"`
	Player2 int `json:"player_2"`

	// Tiebreak points, only present when the set went to a tiebreak.
	Tiebreak *[2]int `json:"tiebreak,omitempty"`
}

type TennisScore struct {
	Sets []SetScore `json:"sets"`
}

type PointsScore struct {
	Player1 int `json:"player_1"`
	Player2 int `json:"player_2"`
}

// Totals returns an aggregate (for, against) pair in slot order, used for
// point differential. Tennis counts games.
func (p *ScorePayload) Totals() (int, int) {
	if p == nil {
		return 0, 0
	}
	switch p.Kind {
	case TennisScoreKind:
		if p.Tennis == nil {
			return 0, 0
		}
		var a, b int
		for _, s := range p.Tennis.Sets {
			a += s.Player1
			b += s.Player2
		}
		return a, b
	case PointsScoreKind:
		if p.Points == nil {
			return 0, 0
		}
		return p.Points.Player1, p.Points.Player2
	}
	return 0, 0
}

type MatchResult struct {
	WinnerID   string        `json:"winner_id,omitempty"`
	IsDraw     bool          `json:"is_draw,omitempty"`
	IsWalkover bool          `json:"is_walkover,omitempty"`
	Score      *ScorePayload `json:"score,omitempty"`
}

func (r *MatchResult) Clone() *MatchResult {
	if r == nil {
		return nil
	}
	out := *r
	if r.Score != nil {
		score := *r.Score
		if r.Score.Tennis != nil {
			sets := make([]SetScore, len(r.Score.Tennis.Sets))
			for i, s := range r.Score.Tennis.Sets {
				sets[i] = s
				if s.Tiebreak != nil {
					tb := *s.Tiebreak
					sets[i].Tiebreak = &tb
				}
			}
			score.Tennis = &TennisScore{Sets: sets}
		}
		if r.Score.Points != nil {
			points := *r.Score.Points
			score.Points = &points
		}
		out.Score = &score
	}
	return &out
}

// Value stores the result as a JSON column.
func (r *MatchResult) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r *MatchResult) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		return json.Unmarshal([]byte(v), r)
	case []byte:
		return json.Unmarshal(v, r)
	default:
		return fmt.Errorf("cannot scan %T into MatchResult", src)
	}
}
