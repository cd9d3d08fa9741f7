// Package interview implements the interview session controller: a
// per-session state machine that sequences questions between the resume
// digest and conversational follow-ups, scores answers as the interview
// runs, and drives the end-of-session evaluation exactly once.
package interview

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/digest"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/types"
)

// Sentinel errors returned by session operations. The server maps these
// to HTTP statuses.
var (
	ErrSessionNotActive = errors.New("session is not active")
	ErrEmptyAnswer      = errors.New("answer must not be empty")
	ErrAnswerInFlight   = errors.New("previous answer is still being processed")
	ErrSessionEnded     = errors.New("session has ended")
	ErrAlreadyStarted   = errors.New("session already started")
)

// Summarizer produces the final report from the full session history.
// Implementations must not fail hard: LLM or parse trouble degrades to a
// placeholder report, never an error.
type Summarizer interface {
	Summarize(ctx context.Context, role, level, resumeText, jobDescription string, history []types.ConversationTurn) *types.FinalReport
}

// Params are the candidate-supplied inputs for one session.
type Params struct {
	UserID          uuid.UUID
	ResumeText      string
	Role            string
	ExperienceLevel string
	JobDescription  string
	DurationMinutes int
}

// Config wires a session's collaborators. Zero-value fields fall back to
// production defaults (system clock, math/rand, default selector policy).
type Config struct {
	Client     llm.Client
	Summarizer Summarizer
	Selector   SelectorConfig
	Clock      Clock
	Rand       Rand
	// OnComplete is invoked exactly once with the generated report, from
	// whichever path terminated the session (explicit end or timer expiry).
	OnComplete func(s *Session, report *types.FinalReport)
}

// Session owns all live interview state. State is single-writer: every
// mutation happens under the session mutex, and LLM round trips happen
// outside it so a slow model never blocks status reads.
type Session struct {
	ID     uuid.UUID
	UserID uuid.UUID

	client     llm.Client
	summarizer Summarizer
	clock      Clock
	rng        Rand
	selCfg     SelectorConfig
	onComplete func(s *Session, report *types.FinalReport)

	mu               sync.Mutex
	stage            types.Stage
	params           Params
	digest           *types.ResumeDigest
	selector         *Selector
	history          []types.ConversationTurn
	pendingQuestion  string
	pendingSource    types.QuestionSource
	durationMinutes  int
	remainingMinutes int
	aggregateScore   int
	scoredCount      int
	answeredCount    int
	inFlight         bool
	startedAt        time.Time

	ticker      Ticker
	done        chan struct{}
	report      *types.FinalReport
	reportReady chan struct{}
}

const (
	defaultDurationMinutes = 10
	minDurationMinutes     = 5
	maxDurationMinutes     = 15
)

// NewSession validates inputs and creates a session in the setup stage.
// Missing resume text, role, or experience level is rejected here, before
// any state transition.
func NewSession(params Params, cfg Config) (*Session, error) {
	params.ResumeText = strings.TrimSpace(params.ResumeText)
	params.Role = strings.TrimSpace(params.Role)
	params.ExperienceLevel = strings.TrimSpace(params.ExperienceLevel)

	if params.ResumeText == "" {
		return nil, errors.New("resume text is required")
	}
	if params.Role == "" {
		return nil, errors.New("role is required")
	}
	if params.ExperienceLevel == "" {
		return nil, errors.New("experience level is required")
	}

	if cfg.Client == nil {
		return nil, errors.New("llm client is required")
	}
	if cfg.Summarizer == nil {
		return nil, errors.New("summarizer is required")
	}

	if params.DurationMinutes == 0 {
		params.DurationMinutes = defaultDurationMinutes
	}
	if params.DurationMinutes < minDurationMinutes || params.DurationMinutes > maxDurationMinutes {
		return nil, errors.New("duration must be between 5 and 15 minutes")
	}

	if cfg.Clock == nil {
		cfg.Clock = NewClock()
	}
	if cfg.Rand == nil {
		cfg.Rand = NewRand()
	}
	if cfg.Selector == (SelectorConfig{}) {
		cfg.Selector = DefaultSelectorConfig()
	}

	return &Session{
		ID:              uuid.New(),
		UserID:          params.UserID,
		client:          cfg.Client,
		summarizer:      cfg.Summarizer,
		clock:           cfg.Clock,
		rng:             cfg.Rand,
		selCfg:          cfg.Selector,
		onComplete:      cfg.OnComplete,
		stage:           types.StageSetup,
		params:          params,
		durationMinutes: params.DurationMinutes,
		done:            make(chan struct{}),
		reportReady:     make(chan struct{}),
	}, nil
}

// Start transitions setup -> active: extracts the resume digest (best
// effort), emits the fixed opening question, and starts the countdown.
func (s *Session) Start(ctx context.Context) error {
	d := digest.Extract(ctx, s.client, s.params.ResumeText, s.params.Role, s.params.ExperienceLevel)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != types.StageSetup {
		return ErrAlreadyStarted
	}

	s.digest = d
	s.selector = NewSelector(s.selCfg, s.rng, d)
	s.stage = types.StageActive
	s.pendingQuestion = OpeningQuestion
	s.pendingSource = types.SourceConversation
	s.selector.Record(types.SourceConversation)
	s.remainingMinutes = s.durationMinutes
	s.startedAt = s.clock.Now()

	s.ticker = s.clock.NewTicker(time.Minute)
	go s.countdown()

	return nil
}

// countdown decrements the budget once per minute and routes expiry to
// the same termination path as an explicit end.
func (s *Session) countdown() {
	for {
		select {
		case <-s.ticker.C():
			if s.tick() {
				_, _ = s.End(context.Background())
				return
			}
		case <-s.done:
			return
		}
	}
}

// tick advances the countdown by one minute and reports expiry. The
// explicit zero-check also catches a budget that was already spent, as a
// safety net against a missed tick.
func (s *Session) tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != types.StageActive {
		return false
	}
	if s.remainingMinutes > 0 {
		s.remainingMinutes--
	}
	return s.remainingMinutes <= 0
}

// SubmitAnswer accepts the candidate's answer to the pending question,
// picks and generates the next question, and, when the next question is a
// conversational follow-up, scores the submitted answer. History grows by
// exactly one per accepted submission.
func (s *Session) SubmitAnswer(ctx context.Context, answer string) (*types.SubmitAnswerResponse, error) {
	answer = strings.TrimSpace(answer)

	s.mu.Lock()
	if s.stage != types.StageActive {
		s.mu.Unlock()
		return nil, ErrSessionNotActive
	}
	if answer == "" {
		s.mu.Unlock()
		return nil, ErrEmptyAnswer
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrAnswerInFlight
	}

	s.inFlight = true
	prevQuestion := s.pendingQuestion
	prevSource := s.pendingSource
	role := s.params.Role
	level := s.params.ExperienceLevel

	source := s.selector.NextSource(true)
	var category, item string
	if source == types.SourceResume {
		cat, it, ok := s.selector.PickResumeItem()
		if ok {
			category, item = cat, it
		} else {
			source = types.SourceConversation
		}
	}
	s.mu.Unlock()

	// Suspension point: all LLM traffic happens outside the lock.
	var question string
	var genErr error
	if source == types.SourceResume {
		question, genErr = generateResumeQuestion(ctx, s.client, category, item, role, level)
	} else {
		question, genErr = generateFollowUp(ctx, s.client, prevQuestion, answer, role, level)
	}
	if genErr != nil {
		question = fallbackQuestion
		source = types.SourceConversation
	}

	// Conversational follow-ups trigger live scoring of the answer just
	// submitted. Resume-sourced questions leave scoring to the final report.
	var eval *Evaluation
	if source == types.SourceConversation {
		eval, _ = evaluateAnswer(ctx, s.client, prevQuestion, answer, role, level)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	// The session may have ended while the round trip was in flight.
	// Stale results are discarded, not applied to a terminated session.
	if s.stage != types.StageActive {
		return nil, ErrSessionEnded
	}

	turn := types.ConversationTurn{
		Question: prevQuestion,
		Answer:   answer,
		Source:   prevSource,
	}
	resp := &types.SubmitAnswerResponse{
		Question: question,
		Source:   source,
	}
	if eval != nil {
		score := eval.Score
		turn.Score = &score
		turn.Feedback = eval.Feedback
		s.aggregateScore += score
		s.scoredCount++
		resp.Score = &score
		resp.Feedback = eval.Feedback
	}

	s.history = append(s.history, turn)
	s.answeredCount++
	s.pendingQuestion = question
	s.pendingSource = source
	s.selector.Record(source)

	resp.RemainingMinutes = s.remainingMinutes
	resp.AnsweredCount = s.answeredCount
	return resp, nil
}

// End terminates the session idempotently. The first caller — explicit
// user action or timer expiry — transitions active -> completed, stops the
// countdown synchronously, and generates the report. Later callers block
// until that one report is ready and receive the same value.
func (s *Session) End(ctx context.Context) (*types.FinalReport, error) {
	s.mu.Lock()

	switch s.stage {
	case types.StageSetup:
		s.mu.Unlock()
		return nil, ErrSessionNotActive
	case types.StageCompleted:
		s.mu.Unlock()
		<-s.reportReady
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.report, nil
	}

	s.stage = types.StageCompleted
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.done)

	history := make([]types.ConversationTurn, len(s.history))
	copy(history, s.history)
	role := s.params.Role
	level := s.params.ExperienceLevel
	resumeText := s.params.ResumeText
	jobDescription := s.params.JobDescription
	s.mu.Unlock()

	report := s.summarizer.Summarize(ctx, role, level, resumeText, jobDescription, history)

	s.mu.Lock()
	s.report = report
	close(s.reportReady)
	s.mu.Unlock()

	if s.onComplete != nil {
		s.onComplete(s, report)
	}
	return report, nil
}

// Status returns the live view of the session.
func (s *Session) Status() types.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	avg := 0.0
	if s.scoredCount > 0 {
		avg = float64(s.aggregateScore) / float64(s.scoredCount)
	}

	return types.SessionStatus{
		SessionID:        s.ID,
		Stage:            s.stage,
		Role:             s.params.Role,
		ExperienceLevel:  s.params.ExperienceLevel,
		AnsweredCount:    s.answeredCount,
		AverageScore:     avg,
		RemainingMinutes: s.remainingMinutes,
		StartedAt:        s.startedAt,
	}
}

// PendingQuestion returns the currently displayed unanswered question.
func (s *Session) PendingQuestion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingQuestion
}

// Digest returns the immutable resume digest (nil before Start).
func (s *Session) Digest() *types.ResumeDigest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.digest
}

// History returns a copy of the turns answered so far.
func (s *Session) History() []types.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]types.ConversationTurn, len(s.history))
	copy(history, s.history)
	return history
}
