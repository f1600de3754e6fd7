package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"learnos/internal/domain"
	"learnos/internal/repository"
	"learnos/internal/sanitize"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validReply = "```json\n" + `{
  "keyConcepts": [
    {"title": "Mass", "explanation": "Everything is made of stuff. Mass is how much stuff."},
    {"title": "Attraction", "explanation": "Things with mass pull on each other."}
  ],
  "analogies": [
    {"concept": "Mass", "analogy": "A backpack full of books is harder to lift."},
    {"concept": "Attraction", "analogy": "A bowling ball on a trampoline pulls marbles in."}
  ],
  "quiz": [
    {"question": "What makes an apple fall?", "options": ["Gravity", "Wind", "Magnetism", "Light"], "correctAnswer": 0},
    {"question": "More mass means?", "options": ["Weaker pull", "Stronger pull", "No pull", "Random pull"], "correctAnswer": 1},
    {"question": "Gravity acts between?", "options": ["Only planets", "Only magnets", "All masses", "Only liquids"], "correctAnswer": 2}
  ]
}` + "\n```"

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sampleContent() *domain.LessonContent {
	return &domain.LessonContent{
		KeyConcepts: []domain.KeyConcept{{Title: "Mass", Explanation: "How much stuff"}, {Title: "Pull", Explanation: "Masses attract"}},
		Analogies:   []domain.Analogy{{Concept: "Mass", Analogy: "Backpack"}, {Concept: "Pull", Analogy: "Trampoline"}},
		Quiz: []domain.QuizQuestion{
			{Question: "q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 0},
			{Question: "q2", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 1},
			{Question: "q3", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 2},
		},
	}
}

func newTestService(repo domain.LessonRepository, gen domain.LessonGenerator, san domain.LessonSanitizer, pub domain.LessonEventPublisher) *lessonService {
	svc := NewLessonService(repo, gen, san, pub, time.Second).(*lessonService)
	svc.now = func() time.Time { return fixedNow }
	svc.newID = func() string { return "01HGZ8VNRYXS8QKNJV5GRWPWDQ" }
	return svc
}

func realSanitizer(t *testing.T) domain.LessonSanitizer {
	t.Helper()
	s, err := sanitize.NewLessonSanitizer()
	require.NoError(t, err)
	return s
}

func TestGetOrCreateLesson_StoredLessonSkipsGeneration(t *testing.T) {
	repo := new(MockLessonRepository)
	gen := new(MockLessonGenerator)
	san := new(MockLessonSanitizer)
	stored := domain.NewLesson("id-1", "gravity", sampleContent(), fixedNow)

	repo.On("FindByKey", mock.Anything, "gravity").Return(stored, nil).Once()

	svc := newTestService(repo, gen, san, nil)
	got, err := svc.GetOrCreateLesson(context.Background(), "  Gravity ")
	require.NoError(t, err)
	assert.Same(t, stored, got)

	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "InsertIfAbsent", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestGetOrCreateLesson_InvalidTopic(t *testing.T) {
	repo := new(MockLessonRepository)
	svc := newTestService(repo, new(MockLessonGenerator), new(MockLessonSanitizer), nil)

	_, err := svc.GetOrCreateLesson(context.Background(), " \t ")
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeInvalidInput))
	repo.AssertNotCalled(t, "FindByKey", mock.Anything, mock.Anything)
}

func TestGetOrCreateLesson_StoreReadFailure(t *testing.T) {
	repo := new(MockLessonRepository)
	gen := new(MockLessonGenerator)
	repo.On("FindByKey", mock.Anything, "gravity").Return(nil, errors.New("ORA-03113")).Once()

	svc := newTestService(repo, gen, new(MockLessonSanitizer), nil)
	_, err := svc.GetOrCreateLesson(context.Background(), "gravity")
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeInternal))
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestGetOrCreateLesson_GenerationNotConfigured(t *testing.T) {
	repo := new(MockLessonRepository)
	repo.On("FindByKey", mock.Anything, "gravity").Return(nil, nil).Once()

	svc := newTestService(repo, nil, new(MockLessonSanitizer), nil)
	_, err := svc.GetOrCreateLesson(context.Background(), "gravity")
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeGenerationNotConfigured))
	repo.AssertNotCalled(t, "InsertIfAbsent", mock.Anything, mock.Anything)
}

func TestGetOrCreateLesson_GeneratesAndStores(t *testing.T) {
	repo := new(MockLessonRepository)
	gen := new(MockLessonGenerator)
	san := new(MockLessonSanitizer)
	pub := new(MockLessonEventPublisher)
	content := sampleContent()

	repo.On("FindByKey", mock.Anything, "black holes").Return(nil, nil).Once()
	gen.On("Generate", mock.Anything, " Black Holes ").Return("raw reply", nil).Once()
	san.On("Sanitize", "raw reply").Return(content, nil).Once()
	repo.On("InsertIfAbsent", mock.Anything, mock.MatchedBy(func(l *domain.Lesson) bool {
		return l.TopicKey == "black holes" && l.ID == "01HGZ8VNRYXS8QKNJV5GRWPWDQ" && l.CreatedAt.Equal(fixedNow)
	})).Return(nil).Once()
	pub.On("PublishLessonCreated", mock.Anything, mock.AnythingOfType("*domain.Lesson")).Return(nil).Once()

	svc := newTestService(repo, gen, san, pub)
	got, err := svc.GetOrCreateLesson(context.Background(), " Black Holes ")
	require.NoError(t, err)

	assert.Equal(t, "black holes", got.TopicKey)
	assert.Equal(t, content.KeyConcepts, got.KeyConcepts)
	assert.Equal(t, content.Analogies, got.Analogies)
	assert.Equal(t, content.Quiz, got.Quiz)
	assert.True(t, got.CreatedAt.Equal(fixedNow))

	repo.AssertExpectations(t)
	gen.AssertExpectations(t)
	san.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestGetOrCreateLesson_PublishFailureIsIgnored(t *testing.T) {
	repo := new(MockLessonRepository)
	gen := new(MockLessonGenerator)
	san := new(MockLessonSanitizer)
	pub := new(MockLessonEventPublisher)

	repo.On("FindByKey", mock.Anything, "gravity").Return(nil, nil).Once()
	gen.On("Generate", mock.Anything, "gravity").Return("raw", nil).Once()
	san.On("Sanitize", "raw").Return(sampleContent(), nil).Once()
	repo.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(nil).Once()
	pub.On("PublishLessonCreated", mock.Anything, mock.Anything).Return(errors.New("channel closed")).Once()

	svc := newTestService(repo, gen, san, pub)
	got, err := svc.GetOrCreateLesson(context.Background(), "gravity")
	require.NoError(t, err)
	assert.Equal(t, "gravity", got.TopicKey)
	pub.AssertExpectations(t)
}

func TestGetOrCreateLesson_GenerationFailure(t *testing.T) {
	tests := []struct {
		name   string
		genErr error
	}{
		{"domain error passes through", domain.NewGenerationFailedError(errors.New("503 UNAVAILABLE"))},
		{"plain error is wrapped", errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockLessonRepository)
			gen := new(MockLessonGenerator)
			san := new(MockLessonSanitizer)

			repo.On("FindByKey", mock.Anything, "gravity").Return(nil, nil).Once()
			gen.On("Generate", mock.Anything, "gravity").Return("", tt.genErr).Once()

			svc := newTestService(repo, gen, san, nil)
			_, err := svc.GetOrCreateLesson(context.Background(), "gravity")
			require.Error(t, err)
			assert.True(t, domain.HasCode(err, domain.CodeGenerationFailed), "got %v", err)

			san.AssertNotCalled(t, "Sanitize", mock.Anything)
			repo.AssertNotCalled(t, "InsertIfAbsent", mock.Anything, mock.Anything)
		})
	}
}

func TestGetOrCreateLesson_RejectedOutputPersistsNothing(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		code  domain.ErrorCode
	}{
		{"not json", "I cannot help with that.", domain.CodeMalformedOutput},
		{"quiz missing", `{"keyConcepts": [], "analogies": []}`, domain.CodeIncompleteStructure},
		{"two options", `{"keyConcepts": [{"title":"a","explanation":"b"},{"title":"c","explanation":"d"}],
			"analogies": [{"concept":"a","analogy":"b"},{"concept":"c","analogy":"d"}],
			"quiz": [{"question":"q","options":["x","y"],"correctAnswer":0},
			         {"question":"q","options":["x","y","z","w"],"correctAnswer":0},
			         {"question":"q","options":["x","y","z","w"],"correctAnswer":0}]}`, domain.CodeInvalidStructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repository.NewLessonMemoryAdapter()
			gen := new(MockLessonGenerator)
			gen.On("Generate", mock.Anything, "gravity").Return(tt.reply, nil).Once()

			svc := newTestService(repo, gen, realSanitizer(t), nil)
			_, err := svc.GetOrCreateLesson(context.Background(), "gravity")
			require.Error(t, err)
			assert.True(t, domain.HasCode(err, tt.code), "got %v", err)
			assert.Equal(t, 0, repo.Len())
		})
	}
}

func TestGetOrCreateLesson_StoreWriteFailure(t *testing.T) {
	repo := new(MockLessonRepository)
	gen := new(MockLessonGenerator)
	san := new(MockLessonSanitizer)
	pub := new(MockLessonEventPublisher)

	repo.On("FindByKey", mock.Anything, "gravity").Return(nil, nil).Once()
	gen.On("Generate", mock.Anything, "gravity").Return("raw", nil).Once()
	san.On("Sanitize", "raw").Return(sampleContent(), nil).Once()
	repo.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(errors.New("ORA-01653")).Once()

	svc := newTestService(repo, gen, san, pub)
	_, err := svc.GetOrCreateLesson(context.Background(), "gravity")
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeInternal))
	pub.AssertNotCalled(t, "PublishLessonCreated", mock.Anything, mock.Anything)
}

func TestGetOrCreateLesson_LostInsertRaceReturnsWinner(t *testing.T) {
	repo := new(MockLessonRepository)
	gen := new(MockLessonGenerator)
	san := new(MockLessonSanitizer)
	pub := new(MockLessonEventPublisher)
	winner := domain.NewLesson("winner-id", "gravity", sampleContent(), fixedNow.Add(-time.Second))

	repo.On("FindByKey", mock.Anything, "gravity").Return(nil, nil).Once()
	gen.On("Generate", mock.Anything, "gravity").Return("raw", nil).Once()
	san.On("Sanitize", "raw").Return(sampleContent(), nil).Once()
	repo.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(domain.ErrLessonAlreadyExists).Once()
	repo.On("FindByKey", mock.Anything, "gravity").Return(winner, nil).Once()

	svc := newTestService(repo, gen, san, pub)
	got, err := svc.GetOrCreateLesson(context.Background(), "gravity")
	require.NoError(t, err)
	assert.Equal(t, "winner-id", got.ID)
	pub.AssertNotCalled(t, "PublishLessonCreated", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

// gatedGenerator blocks every call until release is closed and counts invocations.
type gatedGenerator struct {
	calls   int32
	release chan struct{}
	reply   string
}

func (g *gatedGenerator) Generate(ctx context.Context, _ string) (string, error) {
	atomic.AddInt32(&g.calls, 1)
	select {
	case <-g.release:
		return g.reply, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestGetOrCreateLesson_ConcurrentRequestsShareOneGeneration(t *testing.T) {
	repo := repository.NewLessonMemoryAdapter()
	gen := &gatedGenerator{release: make(chan struct{}), reply: validReply}
	svc := NewLessonService(repo, gen, realSanitizer(t), nil, 5*time.Second)

	variants := []string{"Gravity", "gravity", " GRAVITY ", "gravity\n"}
	const callers = 24

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = map[string]int{}
		errs    []error
		started sync.WaitGroup
	)
	started.Add(callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(topic string) {
			defer wg.Done()
			started.Done()
			lesson, err := svc.GetOrCreateLesson(context.Background(), topic)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			ids[lesson.ID]++
		}(variants[i%len(variants)])
	}
	started.Wait()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&gen.calls) >= 1 }, time.Second, 5*time.Millisecond)
	close(gen.release)
	wg.Wait()

	assert.Empty(t, errs)
	assert.Len(t, ids, 1, "every caller sees the same artifact")
	assert.Equal(t, 1, repo.Len())
	assert.LessOrEqual(t, atomic.LoadInt32(&gen.calls), int32(callers))

	// Later requests are served from the store.
	before := atomic.LoadInt32(&gen.calls)
	_, err := svc.GetOrCreateLesson(context.Background(), "Gravity")
	require.NoError(t, err)
	assert.Equal(t, before, atomic.LoadInt32(&gen.calls))
}

func TestGetOrCreateLesson_CallerCancelDoesNotAbortGeneration(t *testing.T) {
	repo := repository.NewLessonMemoryAdapter()
	gen := &gatedGenerator{release: make(chan struct{}), reply: validReply}
	svc := NewLessonService(repo, gen, realSanitizer(t), nil, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.GetOrCreateLesson(ctx, "gravity")
		done <- err
	}()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&gen.calls) == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("caller did not return after its context was cancelled")
	}

	close(gen.release)
	require.Eventually(t, func() bool { return repo.Len() == 1 }, time.Second, 5*time.Millisecond)
}

func TestGetOrCreateLesson_GenerationTimeout(t *testing.T) {
	repo := repository.NewLessonMemoryAdapter()
	gen := &gatedGenerator{release: make(chan struct{}), reply: validReply}
	svc := NewLessonService(repo, gen, realSanitizer(t), nil, 50*time.Millisecond)

	_, err := svc.GetOrCreateLesson(context.Background(), "gravity")
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeGenerationFailed))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, repo.Len())
}

func TestListLessons(t *testing.T) {
	repo := new(MockLessonRepository)
	summaries := []domain.LessonSummary{{Topic: "gravity", CreatedAt: fixedNow}}
	repo.On("ListSummaries", mock.Anything).Return(summaries, nil).Once()

	svc := newTestService(repo, nil, nil, nil)
	got, err := svc.ListLessons(context.Background())
	require.NoError(t, err)
	assert.Equal(t, summaries, got)

	repo.On("ListSummaries", mock.Anything).Return(nil, errors.New("boom")).Once()
	_, err = svc.ListLessons(context.Background())
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeInternal))
}
