package domain

// Profile is a psychographic reading of a single post: what the author feels,
// believes, has tried, and what they think is stopping them.
type Profile struct {
	PostID             string   `json:"post_id,omitempty"`
	Emotion            string   `json:"emotion"`
	CoreBelief         string   `json:"core_belief"`
	AttemptedSolutions []string `json:"attempted_solutions"`
	PerceivedBlockers  []string `json:"perceived_blockers"`
	ExternalForces     []string `json:"external_forces"`
	Quote              string   `json:"quote"`
}

// IsEmpty returns true if the profile carries no insight at all.
func (p Profile) IsEmpty() bool {
	return p.Emotion == "" && p.CoreBelief == "" && p.Quote == "" &&
		len(p.AttemptedSolutions) == 0 && len(p.PerceivedBlockers) == 0 && len(p.ExternalForces) == 0
}
