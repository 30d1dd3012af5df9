package model

// AwardKey identifies one logical scoring event within a round. Building
// keys through NewAwardKey keeps every call site on the same shape, so two
// different scoring rules can never collide by accident.
type AwardKey struct {
	Mode   GameMode
	Round  int
	Player PlayerID
	Kind   string
}

// NewAwardKey builds the idempotency key for a scoring event. Kind
// distinguishes multiple award sources for the same player in the same round
// (e.g. a drawer bonus vs. a guess award).
func NewAwardKey(mode GameMode, round int, player PlayerID, kind string) AwardKey {
	return AwardKey{Mode: mode, Round: round, Player: player, Kind: kind}
}

// AwardSet is the per-round set of scoring events that have already been
// applied. Within a round, keys are only ever added.
type AwardSet struct {
	granted map[AwardKey]struct{}
}

// Has reports whether the key has already been granted this round.
func (s *AwardSet) Has(key AwardKey) bool {
	_, ok := s.granted[key]
	return ok
}

// Grant records the key, returning false if it was already present.
func (s *AwardSet) Grant(key AwardKey) bool {
	if s.granted == nil {
		s.granted = make(map[AwardKey]struct{})
	}
	if _, ok := s.granted[key]; ok {
		return false
	}
	s.granted[key] = struct{}{}
	return true
}

// Reset clears the set at the start of a new round.
func (s *AwardSet) Reset() {
	s.granted = nil
}

// Len returns the number of granted keys.
func (s *AwardSet) Len() int {
	return len(s.granted)
}
