package interview

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateJSONFunc func(ctx context.Context, prompt string, tier llm.ModelTier, temperature float32) (string, error)
}

func (m *MockLLMClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier, temperature float32) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier, temperature)
	}
	return "{}", nil
}

func (m *MockLLMClient) GetModel(_ llm.ModelTier) string { return "mock-model" }

func (m *MockLLMClient) Close() error { return nil }

// scriptedClient routes replies on prompt content, mirroring the four
// call sites: digest extraction, resume question, follow-up, evaluation.
func scriptedClient() *MockLLMClient {
	return &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, _ llm.ModelTier, _ float32) (string, error) {
			switch {
			case strings.Contains(prompt, "Extract:"):
				return `{"skills": ["Go", "PostgreSQL"], "projects": ["Payment gateway"], "experience_highlights": [], "certifications": []}`, nil
			case strings.Contains(prompt, "Their resume mentions"):
				return `{"question": "How did you use Go in production?", "source": "resume"}`, nil
			case strings.Contains(prompt, "Previous question:"):
				return `{"question": "Why did you choose that approach?", "source": "conversation"}`, nil
			case strings.Contains(prompt, "Evaluate this response"):
				return `{"score": 7, "feedback": "Solid answer with a concrete example."}`, nil
			}
			return "{}", nil
		},
	}
}

// stubSummarizer records its input and returns a canned report.
type stubSummarizer struct {
	mu      sync.Mutex
	calls   int
	history []types.ConversationTurn
	report  *types.FinalReport
}

func (s *stubSummarizer) Summarize(_ context.Context, role, level, _, _ string, history []types.ConversationTurn) *types.FinalReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.history = history
	if s.report != nil {
		return s.report
	}
	return &types.FinalReport{
		OverallEvaluation: types.OverallEvaluation{Score: 7, Summary: "done"},
		QuestionAnalyses:  []types.QuestionAnalysis{},
		Metadata: types.ReportMetadata{
			Role:            role,
			ExperienceLevel: level,
			TotalQuestions:  len(history),
		},
	}
}

func (s *stubSummarizer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *fakeTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type fakeClock struct {
	now    time.Time
	ticker *fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		now:    time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		ticker: &fakeTicker{ch: make(chan time.Time)},
	}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) NewTicker(_ time.Duration) Ticker { return c.ticker }

func testParams() Params {
	return Params{
		UserID:          uuid.New(),
		ResumeText:      "resume text",
		Role:            "Backend Developer",
		ExperienceLevel: "Senior",
		DurationMinutes: 10,
	}
}

func newTestSession(t *testing.T, params Params, cfg Config) *Session {
	t.Helper()
	if cfg.Client == nil {
		cfg.Client = scriptedClient()
	}
	if cfg.Summarizer == nil {
		cfg.Summarizer = &stubSummarizer{}
	}
	if cfg.Clock == nil {
		cfg.Clock = newFakeClock()
	}
	if cfg.Rand == nil {
		cfg.Rand = &scriptedRand{}
	}
	s, err := NewSession(params, cfg)
	require.NoError(t, err)
	return s
}

func TestNewSession_Validation(t *testing.T) {
	cfg := Config{Client: scriptedClient(), Summarizer: &stubSummarizer{}}

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"missing resume", func(p *Params) { p.ResumeText = "   " }},
		{"missing role", func(p *Params) { p.Role = "" }},
		{"missing level", func(p *Params) { p.ExperienceLevel = "" }},
		{"duration too short", func(p *Params) { p.DurationMinutes = 4 }},
		{"duration too long", func(p *Params) { p.DurationMinutes = 16 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := testParams()
			tt.mutate(&params)
			_, err := NewSession(params, cfg)
			assert.Error(t, err)
		})
	}
}

func TestNewSession_DefaultDuration(t *testing.T) {
	params := testParams()
	params.DurationMinutes = 0
	s := newTestSession(t, params, Config{})
	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 10, s.Status().RemainingMinutes)
}

func TestStart_EmitsOpeningQuestion(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, testParams(), Config{Clock: clock})

	require.NoError(t, s.Start(context.Background()))

	status := s.Status()
	assert.Equal(t, types.StageActive, status.Stage)
	assert.Equal(t, 10, status.RemainingMinutes)
	assert.Equal(t, clock.now, status.StartedAt)
	assert.Equal(t, OpeningQuestion, s.PendingQuestion())

	d := s.Digest()
	require.NotNil(t, d)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, d.Skills)
}

func TestStart_Twice(t *testing.T) {
	s := newTestSession(t, testParams(), Config{})
	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)
}

func TestSubmitAnswer_BeforeStart(t *testing.T) {
	s := newTestSession(t, testParams(), Config{})
	_, err := s.SubmitAnswer(context.Background(), "an answer")
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestSubmitAnswer_EmptyAnswer(t *testing.T) {
	s := newTestSession(t, testParams(), Config{})
	require.NoError(t, s.Start(context.Background()))

	_, err := s.SubmitAnswer(context.Background(), "   \n ")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
	assert.Empty(t, s.History())
}

func TestSubmitAnswer_ConversationalFollowUpScoresAnswer(t *testing.T) {
	// Default scripted rand draws high, so the next source stays
	// conversational and the submitted answer is scored live.
	s := newTestSession(t, testParams(), Config{})
	require.NoError(t, s.Start(context.Background()))

	resp, err := s.SubmitAnswer(context.Background(), "I built a payment service in Go.")
	require.NoError(t, err)

	assert.Equal(t, "Why did you choose that approach?", resp.Question)
	assert.Equal(t, types.SourceConversation, resp.Source)
	require.NotNil(t, resp.Score)
	assert.Equal(t, 7, *resp.Score)
	assert.Equal(t, "Solid answer with a concrete example.", resp.Feedback)
	assert.Equal(t, 1, resp.AnsweredCount)

	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, OpeningQuestion, history[0].Question)
	assert.Equal(t, "I built a payment service in Go.", history[0].Answer)
	assert.Equal(t, types.SourceConversation, history[0].Source)
	require.NotNil(t, history[0].Score)
	assert.Equal(t, 7, *history[0].Score)

	assert.InDelta(t, 7.0, s.Status().AverageScore, 0.001)
}

func TestSubmitAnswer_ResumeQuestionSkipsLiveScoring(t *testing.T) {
	// A low draw switches to a resume-sourced question; the answer is not
	// scored live.
	s := newTestSession(t, testParams(), Config{Rand: &scriptedRand{floats: []float64{0.1}}})
	require.NoError(t, s.Start(context.Background()))

	resp, err := s.SubmitAnswer(context.Background(), "I built a payment service in Go.")
	require.NoError(t, err)

	assert.Equal(t, "How did you use Go in production?", resp.Question)
	assert.Equal(t, types.SourceResume, resp.Source)
	assert.Nil(t, resp.Score)
	assert.Empty(t, resp.Feedback)

	history := s.History()
	require.Len(t, history, 1)
	assert.Nil(t, history[0].Score)
	assert.Equal(t, 0.0, s.Status().AverageScore)
}

func TestSubmitAnswer_GenerationFailureFallsBack(t *testing.T) {
	client := scriptedClient()
	inner := client.GenerateJSONFunc
	client.GenerateJSONFunc = func(ctx context.Context, prompt string, tier llm.ModelTier, temperature float32) (string, error) {
		if strings.Contains(prompt, "Previous question:") {
			return "", errors.New("service unavailable")
		}
		return inner(ctx, prompt, tier, temperature)
	}

	s := newTestSession(t, testParams(), Config{Client: client})
	require.NoError(t, s.Start(context.Background()))

	resp, err := s.SubmitAnswer(context.Background(), "an answer")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Question)
	assert.Equal(t, types.SourceConversation, resp.Source)
	assert.NotEmpty(t, s.PendingQuestion())

	// The session keeps going: the next submission is accepted.
	require.Len(t, s.History(), 1)
}

func TestSubmitAnswer_HistoryGrowsByOne(t *testing.T) {
	s := newTestSession(t, testParams(), Config{})
	require.NoError(t, s.Start(context.Background()))

	for i := 1; i <= 4; i++ {
		_, err := s.SubmitAnswer(context.Background(), "answer")
		require.NoError(t, err)
		assert.Len(t, s.History(), i)
	}
	assert.Equal(t, 4, s.Status().AnsweredCount)
}

func TestEnd_BeforeStart(t *testing.T) {
	s := newTestSession(t, testParams(), Config{})
	_, err := s.End(context.Background())
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestEnd_GeneratesReportOnce(t *testing.T) {
	summarizer := &stubSummarizer{}
	clock := newFakeClock()
	s := newTestSession(t, testParams(), Config{Summarizer: summarizer, Clock: clock})
	require.NoError(t, s.Start(context.Background()))

	_, err := s.SubmitAnswer(context.Background(), "first answer")
	require.NoError(t, err)

	report, err := s.End(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Metadata.TotalQuestions)
	assert.True(t, clock.ticker.isStopped())
	assert.Equal(t, types.StageCompleted, s.Status().Stage)

	// Second end returns the same report without a second generation.
	again, err := s.End(context.Background())
	require.NoError(t, err)
	assert.Same(t, report, again)
	assert.Equal(t, 1, summarizer.callCount())
}

func TestEnd_ConcurrentCallsShareOneReport(t *testing.T) {
	summarizer := &stubSummarizer{}
	s := newTestSession(t, testParams(), Config{Summarizer: summarizer})
	require.NoError(t, s.Start(context.Background()))

	const callers = 8
	reports := make([]*types.FinalReport, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reports[i], _ = s.End(context.Background())
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, summarizer.callCount())
	for i := 1; i < callers; i++ {
		assert.Same(t, reports[0], reports[i])
	}
}

func TestEnd_InvokesOnComplete(t *testing.T) {
	var gotReport *types.FinalReport
	var calls int
	s := newTestSession(t, testParams(), Config{
		OnComplete: func(_ *Session, r *types.FinalReport) {
			calls++
			gotReport = r
		},
	})
	require.NoError(t, s.Start(context.Background()))

	report, err := s.End(context.Background())
	require.NoError(t, err)
	_, _ = s.End(context.Background())

	assert.Equal(t, 1, calls)
	assert.Same(t, report, gotReport)
}

func TestSubmitAnswer_AfterEnd(t *testing.T) {
	s := newTestSession(t, testParams(), Config{})
	require.NoError(t, s.Start(context.Background()))
	_, err := s.End(context.Background())
	require.NoError(t, err)

	_, err = s.SubmitAnswer(context.Background(), "too late")
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestSubmitAnswer_StaleResultDiscardedAfterEnd(t *testing.T) {
	// An answer in flight when the session ends must not be appended to a
	// completed session.
	entered := make(chan struct{})
	release := make(chan struct{})

	client := scriptedClient()
	inner := client.GenerateJSONFunc
	client.GenerateJSONFunc = func(ctx context.Context, prompt string, tier llm.ModelTier, temperature float32) (string, error) {
		if strings.Contains(prompt, "Previous question:") {
			close(entered)
			<-release
		}
		return inner(ctx, prompt, tier, temperature)
	}

	summarizer := &stubSummarizer{}
	s := newTestSession(t, testParams(), Config{Client: client, Summarizer: summarizer})
	require.NoError(t, s.Start(context.Background()))

	errCh := make(chan error, 1)
	go func() {
		_, err := s.SubmitAnswer(context.Background(), "slow answer")
		errCh <- err
	}()

	<-entered
	_, err := s.End(context.Background())
	require.NoError(t, err)
	close(release)

	assert.ErrorIs(t, <-errCh, ErrSessionEnded)
	assert.Empty(t, s.History())
	assert.Empty(t, summarizer.history)
}

func TestTimerExpiry_EndsSession(t *testing.T) {
	params := testParams()
	params.DurationMinutes = 5

	clock := newFakeClock()
	summarizer := &stubSummarizer{}
	completed := make(chan struct{})
	s := newTestSession(t, params, Config{
		Clock:      clock,
		Summarizer: summarizer,
		OnComplete: func(_ *Session, _ *types.FinalReport) { close(completed) },
	})
	require.NoError(t, s.Start(context.Background()))

	for i := 0; i < 5; i++ {
		clock.ticker.ch <- clock.now.Add(time.Duration(i+1) * time.Minute)
	}

	select {
	case <-completed:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not complete after timer expiry")
	}

	status := s.Status()
	assert.Equal(t, types.StageCompleted, status.Stage)
	assert.Equal(t, 0, status.RemainingMinutes)
	assert.Equal(t, 1, summarizer.callCount())

	// The expired session rejects further answers and serves the report.
	_, err := s.SubmitAnswer(context.Background(), "too late")
	assert.ErrorIs(t, err, ErrSessionNotActive)

	report, err := s.End(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, report)
}

func TestTimerTick_DecrementsRemaining(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, testParams(), Config{Clock: clock})
	require.NoError(t, s.Start(context.Background()))

	clock.ticker.ch <- clock.now.Add(time.Minute)

	// The countdown goroutine applies the tick after the channel send
	// returns; poll briefly for the observable effect.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Status().RemainingMinutes == 9 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("remaining minutes = %d, want 9", s.Status().RemainingMinutes)
}

func TestExhaustedDigestFallsBackToConversation(t *testing.T) {
	// A digest with a single item: once asked, every later question must be
	// conversational even when the draw favors the resume path.
	client := scriptedClient()
	inner := client.GenerateJSONFunc
	client.GenerateJSONFunc = func(ctx context.Context, prompt string, tier llm.ModelTier, temperature float32) (string, error) {
		if strings.Contains(prompt, "Extract:") {
			return `{"skills": ["Go"], "projects": [], "experience_highlights": [], "certifications": []}`, nil
		}
		return inner(ctx, prompt, tier, temperature)
	}

	// Every draw favors the resume path.
	rng := &scriptedRand{floats: []float64{0.1, 0.1, 0.1, 0.1}}
	s := newTestSession(t, testParams(), Config{Client: client, Rand: rng})
	require.NoError(t, s.Start(context.Background()))

	resp, err := s.SubmitAnswer(context.Background(), "answer one")
	require.NoError(t, err)
	assert.Equal(t, types.SourceResume, resp.Source)

	resp, err = s.SubmitAnswer(context.Background(), "answer two")
	require.NoError(t, err)
	assert.Equal(t, types.SourceConversation, resp.Source)

	resp, err = s.SubmitAnswer(context.Background(), "answer three")
	require.NoError(t, err)
	assert.Equal(t, types.SourceConversation, resp.Source)
}
