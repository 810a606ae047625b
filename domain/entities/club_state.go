package entities

// ClubState is the full in-memory club: the record loaded once at startup
// and then owned by the engine.
type ClubState struct {
	Members         []*Member // insertion order breaks rank ties
	Pool            Pool
	Poll            PollState
	FirstPlacePrize int64
	LastDraw        *DrawResult

	index map[string]int
}

// NewClubState creates an empty club state
func NewClubState() *ClubState {
	return &ClubState{
		Poll:  PollState{Votes: make(map[string]string)},
		index: make(map[string]int),
	}
}

func (s *ClubState) reindex() {
	s.index = make(map[string]int, len(s.Members))
	for i, m := range s.Members {
		s.index[m.ID] = i
	}
}

// Member looks up a member by id
func (s *ClubState) Member(id string) (*Member, bool) {
	if len(s.index) != len(s.Members) {
		s.reindex()
	}
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.Members[i], true
}

// MemberByEmail looks up a member by email
func (s *ClubState) MemberByEmail(email string) (*Member, bool) {
	for _, m := range s.Members {
		if m.Email == email {
			return m, true
		}
	}
	return nil, false
}

// AddMember appends a member at the end of the insertion order
func (s *ClubState) AddMember(m *Member) {
	if s.index == nil {
		s.reindex()
	}
	s.Members = append(s.Members, m)
	s.index[m.ID] = len(s.Members) - 1
}

// RemoveMember deletes a member while keeping the order of the rest
func (s *ClubState) RemoveMember(id string) bool {
	if _, ok := s.Member(id); !ok {
		return false
	}
	i := s.index[id]
	s.Members = append(s.Members[:i], s.Members[i+1:]...)
	s.reindex()
	return true
}
