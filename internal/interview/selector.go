package interview

import (
	"github.com/jonathan/interview-coach/internal/types"
)

// SelectorConfig tunes the question-mixing policy.
type SelectorConfig struct {
	// ResumeSwitchChance is the probability of switching to a
	// resume-sourced question even while a conversational thread is open.
	ResumeSwitchChance float64
	// MaxConsecutive bounds runs of same-source questions. After this many
	// consecutive turns from one source the selector switches to the
	// other, digest availability permitting.
	MaxConsecutive int
	// TrackAsked enables exhaustion avoidance: resume items already asked
	// about are skipped, and an exhausted digest falls back to the
	// conversational path.
	TrackAsked bool
}

// DefaultSelectorConfig returns the production policy: 30% switch chance,
// runs bounded at 2, repeat avoidance on.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		ResumeSwitchChance: 0.3,
		MaxConsecutive:     2,
		TrackAsked:         true,
	}
}

// Selector is the stateful policy that decides, turn by turn, whether the
// next question is mined from the resume digest or follows up on the
// running conversation. It is owned by a single session and is not safe
// for concurrent use; the session serializes access.
type Selector struct {
	cfg    SelectorConfig
	rng    Rand
	digest *types.ResumeDigest

	// asked marks (category, item index) pairs already used for a question
	asked map[string]map[int]bool

	consecutiveResume       int
	consecutiveConversation int
}

// NewSelector builds a selector over an immutable digest.
func NewSelector(cfg SelectorConfig, rng Rand, digest *types.ResumeDigest) *Selector {
	if rng == nil {
		rng = NewRand()
	}
	if digest == nil {
		digest = types.NewResumeDigest()
	}
	return &Selector{
		cfg:    cfg,
		rng:    rng,
		digest: digest,
		asked:  make(map[string]map[int]bool),
	}
}

// NextSource picks the generation path for the next question.
// Resume sourcing wins when there is no previous question, when the
// conversational thread has run MaxConsecutive turns, or on a random
// draw below ResumeSwitchChance — but never for more than MaxConsecutive
// resume turns in a row, and only while the digest has unasked items.
func (s *Selector) NextSource(hasPrevious bool) types.QuestionSource {
	resumeAvailable := s.hasAvailableItem()

	if !resumeAvailable {
		return types.SourceConversation
	}
	if hasPrevious && s.consecutiveResume >= s.cfg.MaxConsecutive {
		return types.SourceConversation
	}

	shouldAskFromResume := !hasPrevious ||
		s.consecutiveConversation >= s.cfg.MaxConsecutive ||
		s.rng.Float64() < s.cfg.ResumeSwitchChance
	if shouldAskFromResume {
		return types.SourceResume
	}
	return types.SourceConversation
}

// PickResumeItem draws one digest item: first a uniform pick among
// categories that still have available items, then a uniform pick within
// the category. With TrackAsked on, the pair is recorded and never
// redrawn. ok is false when the digest is exhausted.
func (s *Selector) PickResumeItem() (category, item string, ok bool) {
	available := s.availableCategories()
	if len(available) == 0 {
		return "", "", false
	}

	cat := available[s.rng.Intn(len(available))]
	indices := s.availableIndices(cat)
	idx := indices[s.rng.Intn(len(indices))]

	if s.cfg.TrackAsked {
		if s.asked[cat.Name] == nil {
			s.asked[cat.Name] = make(map[int]bool)
		}
		s.asked[cat.Name][idx] = true
	}

	return cat.Name, cat.Items[idx], true
}

// Record updates the consecutive-source counters after a question is
// emitted with the given tag.
func (s *Selector) Record(source types.QuestionSource) {
	if source == types.SourceResume {
		s.consecutiveResume++
		s.consecutiveConversation = 0
	} else {
		s.consecutiveConversation++
		s.consecutiveResume = 0
	}
}

// Exhausted reports whether no resume item remains available.
func (s *Selector) Exhausted() bool {
	return !s.hasAvailableItem()
}

func (s *Selector) hasAvailableItem() bool {
	return len(s.availableCategories()) > 0
}

func (s *Selector) availableCategories() []types.DigestCategory {
	var available []types.DigestCategory
	for _, cat := range s.digest.Categories() {
		if len(s.availableIndices(cat)) > 0 {
			available = append(available, cat)
		}
	}
	return available
}

func (s *Selector) availableIndices(cat types.DigestCategory) []int {
	indices := make([]int, 0, len(cat.Items))
	for i := range cat.Items {
		if s.cfg.TrackAsked && s.asked[cat.Name][i] {
			continue
		}
		indices = append(indices, i)
	}
	return indices
}
