package game

// Scoreboard counts round wins per player name.
type Scoreboard struct {
	wins  map[string]int
	order []string
}

func NewScoreboard() *Scoreboard {
	return &Scoreboard{wins: map[string]int{}}
}

// Add creates a zero entry for name if it has none.
func (s *Scoreboard) Add(name string) {
	if _, ok := s.wins[name]; ok {
		return
	}
	s.wins[name] = 0
	s.order = append(s.order, name)
}

func (s *Scoreboard) Remove(name string) {
	if _, ok := s.wins[name]; !ok {
		return
	}
	delete(s.wins, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Scoreboard) Win(name string) {
	s.Add(name)
	s.wins[name]++
}

func (s *Scoreboard) Wins(name string) int { return s.wins[name] }

// Reset zeroes every entry and keeps the names.
func (s *Scoreboard) Reset() {
	for name := range s.wins {
		s.wins[name] = 0
	}
}

// Leader returns the name with most wins. Ties go to the earlier entry.
func (s *Scoreboard) Leader() string {
	best, leader := -1, ""
	for _, name := range s.order {
		if w := s.wins[name]; w > best {
			best, leader = w, name
		}
	}
	return leader
}
