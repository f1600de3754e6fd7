// Package quiz tracks answer state for a delivered lesson's quiz.
//
// Every question is an independent two-state automaton: unanswered, then
// answered with the selected option. Answers are final until Reset.
package quiz

import (
	"sync"
	"time"

	"learnos/internal/domain"
)

// DefaultRevealDelay is how long a correctness reveal waits after a selection.
const DefaultRevealDelay = 300 * time.Millisecond

// NoSelection marks a question that has not been answered.
const NoSelection = -1

// Result describes a recorded selection.
type Result struct {
	Question      int
	Selected      int
	CorrectAnswer int
	Correct       bool
}

// QuestionState is a read-only projection of one question for rendering.
type QuestionState struct {
	Question      domain.QuizQuestion
	Answered      bool
	Selected      int
	Correct       bool
	Revealed      bool
	CorrectAnswer int
}

// RevealFunc is invoked once the reveal delay for a selection has elapsed.
type RevealFunc func(Result)

// Option configures a StateMachine.
type Option func(*StateMachine)

// WithRevealDelay sets the delay before a selection's correctness is revealed.
// Zero reveals immediately.
func WithRevealDelay(d time.Duration) Option {
	return func(m *StateMachine) {
		if d >= 0 {
			m.delay = d
		}
	}
}

// WithOnReveal registers a callback fired on each reveal.
func WithOnReveal(fn RevealFunc) Option {
	return func(m *StateMachine) {
		m.onReveal = fn
	}
}

type questionState struct {
	answered bool
	selected int
	revealed bool
	timer    *time.Timer
}

// StateMachine holds per-question answer state. It is safe for concurrent use.
type StateMachine struct {
	mu        sync.Mutex
	questions []domain.QuizQuestion
	states    []questionState
	delay     time.Duration
	onReveal  RevealFunc
	// epoch is bumped by Reset so timers that already fired become stale.
	epoch uint64
}

// New returns a state machine with every question unanswered.
func New(questions []domain.QuizQuestion, opts ...Option) *StateMachine {
	m := &StateMachine{
		questions: append([]domain.QuizQuestion(nil), questions...),
		states:    make([]questionState, len(questions)),
		delay:     DefaultRevealDelay,
	}
	for i := range m.states {
		m.states[i].selected = NoSelection
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Len returns the number of questions.
func (m *StateMachine) Len() int {
	return len(m.questions)
}

// Select records option as the answer to question q. It returns false and
// changes nothing when q is out of range, option is not one of the
// question's options, or q has already been answered.
func (m *StateMachine) Select(q, option int) (Result, bool) {
	m.mu.Lock()
	if q < 0 || q >= len(m.questions) {
		m.mu.Unlock()
		return Result{}, false
	}
	question := m.questions[q]
	st := &m.states[q]
	if st.answered || option < 0 || option >= len(question.Options) {
		m.mu.Unlock()
		return Result{}, false
	}

	st.answered = true
	st.selected = option
	res := Result{
		Question:      q,
		Selected:      option,
		CorrectAnswer: question.CorrectAnswer,
		Correct:       question.IsCorrect(option),
	}

	if m.delay > 0 {
		epoch := m.epoch
		st.timer = time.AfterFunc(m.delay, func() { m.reveal(q, epoch, res) })
		m.mu.Unlock()
		return res, true
	}

	st.revealed = true
	fn := m.onReveal
	m.mu.Unlock()
	if fn != nil {
		fn(res)
	}
	return res, true
}

func (m *StateMachine) reveal(q int, epoch uint64, res Result) {
	m.mu.Lock()
	if m.epoch != epoch || !m.states[q].answered {
		m.mu.Unlock()
		return
	}
	m.states[q].revealed = true
	m.states[q].timer = nil
	fn := m.onReveal
	m.mu.Unlock()

	if fn != nil {
		fn(res)
	}
}

// Reset returns every question to unanswered and cancels pending reveals.
func (m *StateMachine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.epoch++
	for i := range m.states {
		if m.states[i].timer != nil {
			m.states[i].timer.Stop()
		}
		m.states[i] = questionState{selected: NoSelection}
	}
}

// State returns the projection of question q.
func (m *StateMachine) State(q int) (QuestionState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if q < 0 || q >= len(m.questions) {
		return QuestionState{}, false
	}
	return m.project(q), true
}

// Snapshot returns the projection of every question in order.
func (m *StateMachine) Snapshot() []QuestionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]QuestionState, len(m.questions))
	for i := range m.questions {
		out[i] = m.project(i)
	}
	return out
}

// Score returns how many answered questions are correct.
func (m *StateMachine) Score() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	score := 0
	for i, st := range m.states {
		if st.answered && m.questions[i].IsCorrect(st.selected) {
			score++
		}
	}
	return score
}

// Done reports whether every question has been answered.
func (m *StateMachine) Done() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, st := range m.states {
		if !st.answered {
			return false
		}
	}
	return true
}

func (m *StateMachine) project(q int) QuestionState {
	st := m.states[q]
	question := m.questions[q]
	question.Options = append([]string(nil), question.Options...)
	return QuestionState{
		Question:      question,
		Answered:      st.answered,
		Selected:      st.selected,
		Correct:       st.answered && question.IsCorrect(st.selected),
		Revealed:      st.revealed,
		CorrectAnswer: question.CorrectAnswer,
	}
}
