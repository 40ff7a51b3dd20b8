package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	apperrors "github.com/yourusername/indcric-api/internal/pkg/errors"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}

type MockRecent struct {
	mock.Mock
}

func (m *MockRecent) ListRecentByUser(ctx context.Context, userID string, limit int) ([]entity.QuizAttempt, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.QuizAttempt), args.Error(1)
}

func validQuizJSON() string {
	var qs []string
	for i := 1; i <= QuizQuestionCount; i++ {
		qs = append(qs, fmt.Sprintf(`{"id":"q%d","question":"Question %d?","options":["A","B","C","D"],"correct_answer":"B","explanation":"because"}`, i, i))
	}
	return "```json\n{\"questions\":[" + strings.Join(qs, ",") + "]}\n```"
}

func TestAnalyzeAttempt_NoGeneratorFallback(t *testing.T) {
	a := NewAnalyzer(nil)
	out := a.AnalyzeAttempt(context.Background(), &entity.QuizAttempt{Format: "IPL", Score: 3, TotalQuestions: 5})

	assert.Equal(t, SourceFallback, out.Source)
	assert.Contains(t, out.Summary, "IPL quiz")
	assert.Contains(t, out.Summary, "3 out of 5")
	assert.Len(t, out.Recommendations, 3)
}

func TestAnalyzeAttempt_InvalidJSONFallback(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("sorry, no json", nil)

	out := NewAnalyzer(gen).AnalyzeAttempt(context.Background(), &entity.QuizAttempt{ID: "a1", Format: "T20"})
	assert.Equal(t, SourceFallback, out.Source)
	gen.AssertExpectations(t)
}

func TestAnalyzeAttempt_AI(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "scored 5 out of 5") && strings.Contains(p, "Who won?")
	}), mock.MatchedBy(func(o GenerateOptions) bool { return o.JSON })).
		Return(`{"summary":"Great","strengths":["stats"],"weaknesses":["eras"],"recommendations":["read"]}`, nil)

	attempt := &entity.QuizAttempt{
		Format: "ODI", Score: 5, TotalQuestions: 5,
		Questions: []entity.AttemptQuestion{{
			QuizQuestion: entity.QuizQuestion{Question: "Who won?", Options: entity.StringArray{"A", "B", "C", "D"}, CorrectAnswer: "A"},
			UserAnswer:   "A",
		}},
	}
	out := NewAnalyzer(gen).AnalyzeAttempt(context.Background(), attempt)
	assert.Equal(t, SourceAI, out.Source)
	assert.Equal(t, "Great", out.Summary)
}

func TestGenerateQuiz_AvoidsRecentQuestions(t *testing.T) {
	recent := new(MockRecent)
	recent.On("ListRecentByUser", mock.Anything, "u1", 5).Return([]entity.QuizAttempt{
		{Questions: []entity.AttemptQuestion{{QuizQuestion: entity.QuizQuestion{Question: "Who is the Wall?"}}}},
		{Questions: []entity.AttemptQuestion{{QuizQuestion: entity.QuizQuestion{Question: "Who is the Wall?"}}}},
	}, nil)

	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Count(p, "Who is the Wall?") == 1 && strings.Contains(p, `"Test" cricket`)
	}), mock.Anything).Return(validQuizJSON(), nil)

	quiz, err := NewQuizGenerator(gen, recent).GenerateQuiz(context.Background(), "Test", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Test", quiz.Format)
	assert.Len(t, quiz.Questions, QuizQuestionCount)
	gen.AssertExpectations(t)
	recent.AssertExpectations(t)
}

func TestGenerateQuiz_RejectsWrongCorrectAnswer(t *testing.T) {
	bad := strings.Replace(validQuizJSON(), `"correct_answer":"B"`, `"correct_answer":"E"`, 1)
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(bad, nil)

	_, err := NewQuizGenerator(gen, nil).GenerateQuiz(context.Background(), "T20", "")
	assert.ErrorIs(t, err, ErrInvalidQuiz)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestGenerateQuiz_NoGenerator(t *testing.T) {
	_, err := NewQuizGenerator(nil, nil).GenerateQuiz(context.Background(), "T20", "u1")
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)

	_, err = NewQuizGenerator(nil, nil).GenerateQuiz(context.Background(), " ", "u1")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGenerateFacts_FallbackOnError(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("quota"))

	out := NewFactGenerator(gen).GenerateFacts(context.Background(), "IPL", 3)
	assert.Equal(t, SourceFallback, out.Source)
	assert.Len(t, out.Facts, 3)
}

func TestGenerateFacts_AITrimsToCount(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(`{"facts":[
		{"fact":"Dhoni finished the 2011 final with a six.","category":"player","difficulty":"easy"},
		{"fact":"Test cricket began in 1877 at Melbourne.","category":"historical","difficulty":"medium"}]}`, nil)

	out := NewFactGenerator(gen).GenerateFacts(context.Background(), "India", 1)
	assert.Equal(t, SourceAI, out.Source)
	require.Len(t, out.Facts, 1)
	assert.Equal(t, "player", out.Facts[0].Category)
}

func TestGenerateFacts_InvalidCategoryFallback(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"facts":[{"fact":"Something long enough here","category":"gossip","difficulty":"easy"}]}`, nil)

	out := NewFactGenerator(gen).GenerateFacts(context.Background(), "", 2)
	assert.Equal(t, SourceFallback, out.Source)
}

func TestClampFactCount(t *testing.T) {
	assert.Equal(t, 1, ClampFactCount(0))
	assert.Equal(t, 10, ClampFactCount(50))
	assert.Equal(t, 7, ClampFactCount(7))
	// запасной набор меньше верхнего предела
	assert.Len(t, FallbackFacts(10).Facts, len(fallbackFacts))
}
