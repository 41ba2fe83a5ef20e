package bracket

type Player struct {
	ID     string   `json:"id" db:"id"`
	Name   string   `json:"name" db:"name"`
	Seed   int      `json:"seed,omitempty" db:"seed"`
	Rating *float64 `json:"rating,omitempty" db:"rating"`
}
