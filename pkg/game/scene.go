package game

// Scene is a single narrative beat in the graph. Terminal scenes carry
// no choices; the composer enforces that before a game is stored.
type Scene struct {
	ID         string   `json:"id"` // unique across the game
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Choices    []Choice `json:"choices"`
	IsTerminal bool     `json:"is_terminal,omitempty"`
	EndingTag  string   `json:"ending_tag,omitempty"` // consulted only when terminal
}

// Choice returns the choice with the given id, searching in order.
func (s *Scene) Choice(id string) (*Choice, bool) {
	for i := range s.Choices {
		if s.Choices[i].ID == id {
			return &s.Choices[i], true
		}
	}
	return nil, false
}
