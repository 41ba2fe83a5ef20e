package bracket

type MatchStatus string

const (
	MatchPending     MatchStatus = "pending"
	MatchScheduled   MatchStatus = "scheduled"
	MatchInProgress  MatchStatus = "in_progress"
	MatchCompleted   MatchStatus = "completed"
	MatchConditional MatchStatus = "conditional"
)

// Partition tags which part of a double elimination bracket a match lives in.
// Round robin and Swiss matches leave it empty.
type Partition string

const (
	WinnerPartition     Partition = "winner"
	LoserPartition      Partition = "loser"
	GrandFinalPartition Partition = "grand_final"
)

// ByeID is the slot sentinel for "no opponent". An empty slot means the
// player is not known yet.
const ByeID = "BYE"

type Match struct {
	ID string `json:"id" db:"id"`

	// Position in the bracket for reconstructing the view
	Partition Partition `json:"partition,omitempty" db:"bracket_side"`
	Round     int       `json:"round" db:"round_number"`
	Order     int       `json:"order" db:"match_order"`

	Player1ID string `json:"player_1_id,omitempty" db:"player_1_id"`
	Player2ID string `json:"player_2_id,omitempty" db:"player_2_id"`

	Result *MatchResult `json:"result,omitempty" db:"result"`
	Status MatchStatus  `json:"status" db:"status"`

	WinnerNextMatchID string `json:"winner_next_match_id,omitempty" db:"winner_next_match_id"`
	WinnerNextSlot    int    `json:"winner_next_slot,omitempty" db:"winner_next_slot"`

	LoserNextMatchID string `json:"loser_next_match_id,omitempty" db:"loser_next_match_id"`
	LoserNextSlot    int    `json:"loser_next_slot,omitempty" db:"loser_next_slot"`

	IsBye bool   `json:"is_bye,omitempty" db:"is_bye"`
	Notes string `json:"notes,omitempty" db:"notes"`
}

// Slot returns the occupant of slot 1 or 2.
func (m *Match) Slot(slot int) string {
	if slot == 1 {
		return m.Player1ID
	}
	return m.Player2ID
}

func (m *Match) SetSlot(slot int, playerID string) {
	if slot == 1 {
		m.Player1ID = playerID
	} else {
		m.Player2ID = playerID
	}
}

// Ready reports whether both slots hold concrete players.
func (m *Match) Ready() bool {
	return IsPlayer(m.Player1ID) && IsPlayer(m.Player2ID)
}

func (m *Match) HasPlayer(playerID string) bool {
	return IsPlayer(playerID) && (m.Player1ID == playerID || m.Player2ID == playerID)
}

// Opponent returns the other occupant of the match, or "" when playerID is not in it.
func (m *Match) Opponent(playerID string) string {
	switch playerID {
	case m.Player1ID:
		return m.Player2ID
	case m.Player2ID:
		return m.Player1ID
	}
	return ""
}

func (m *Match) WinnerID() string {
	if m.Status != MatchCompleted || m.Result == nil {
		return ""
	}
	return m.Result.WinnerID
}

// LoserID is the non-winning occupant of a decided match. Draws have no loser.
func (m *Match) LoserID() string {
	winner := m.WinnerID()
	if winner == "" {
		return ""
	}
	return m.Opponent(winner)
}

func (m *Match) IsWinner(slot int) bool {
	w := m.WinnerID()
	return w != "" && m.Slot(slot) == w
}

func (m *Match) IsLoser(slot int) bool {
	w := m.WinnerID()
	return w != "" && m.Slot(slot) != w
}

// IsPlayer reports whether a slot value is a concrete player id.
func IsPlayer(id string) bool {
	return id != "" && id != ByeID
}
