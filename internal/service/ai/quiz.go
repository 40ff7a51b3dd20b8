package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	apperrors "github.com/yourusername/indcric-api/internal/pkg/errors"
)

const (
	// QuizQuestionCount число вопросов в викторине
	QuizQuestionCount = 5
	// recentAttemptsWindow сколько последних попыток учитывается для исключения повторов
	recentAttemptsWindow = 5
)

// ErrInvalidQuiz модель вернула викторину неправильной формы
var ErrInvalidQuiz = fmt.Errorf("%w: ai returned invalid quiz data", apperrors.ErrUnavailable)

// RecentAttempts источник недавних попыток пользователя
type RecentAttempts interface {
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]entity.QuizAttempt, error)
}

// Quiz сгенерированная викторина
type Quiz struct {
	Format    string                `json:"format"`
	Questions []entity.QuizQuestion `json:"questions"`
}

// QuizGenerator генерирует викторины
type QuizGenerator struct {
	gen     TextGenerator
	history RecentAttempts
}

func NewQuizGenerator(gen TextGenerator, history RecentAttempts) *QuizGenerator {
	return &QuizGenerator{gen: gen, history: history}
}

// GenerateQuiz генерирует 5 вопросов нарастающей сложности по формату,
// избегая вопросов из последних попыток пользователя
func (g *QuizGenerator) GenerateQuiz(ctx context.Context, format, userID string) (*Quiz, error) {
	format = strings.TrimSpace(format)
	if format == "" {
		return nil, fmt.Errorf("%w: format is required", apperrors.ErrValidation)
	}
	if g.gen == nil {
		return nil, fmt.Errorf("%w: ai generator is not configured", apperrors.ErrUnavailable)
	}

	seen := g.seenQuestions(ctx, userID)
	text, err := g.gen.Generate(ctx, quizPrompt(format, seen), GenerateOptions{Temperature: 0.8, MaxTokens: 2048, JSON: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnavailable, err)
	}

	var quiz Quiz
	if err := decodeJSONObject(text, &quiz); err != nil {
		log.Error().Err(err).Str("component", "AI").Str("format", format).Msg("Ответ модели не JSON")
		return nil, ErrInvalidQuiz
	}
	if err := validateQuiz(quiz.Questions); err != nil {
		log.Error().Err(err).Str("component", "AI").Str("format", format).Msg("Викторина не прошла проверку")
		return nil, ErrInvalidQuiz
	}

	quiz.Format = format
	for i := range quiz.Questions {
		if strings.TrimSpace(quiz.Questions[i].ID) == "" {
			quiz.Questions[i].ID = uuid.NewString()
		}
	}
	log.Info().Str("component", "AI").Str("format", format).Int("seen", len(seen)).Msg("Викторина сгенерирована")
	return &quiz, nil
}

// seenQuestions собирает тексты вопросов последних попыток. Ошибки не мешают генерации.
func (g *QuizGenerator) seenQuestions(ctx context.Context, userID string) []string {
	if g.history == nil || strings.TrimSpace(userID) == "" {
		return nil
	}
	attempts, err := g.history.ListRecentByUser(ctx, userID, recentAttemptsWindow)
	if err != nil {
		log.Warn().Err(err).Str("component", "AI").Str("user_id", userID).Msg("Не удалось загрузить недавние вопросы")
		return nil
	}
	set := make(map[string]struct{})
	var out []string
	for _, a := range attempts {
		for _, q := range a.Questions {
			text := strings.TrimSpace(q.Question)
			if text == "" {
				continue
			}
			if _, dup := set[text]; dup {
				continue
			}
			set[text] = struct{}{}
			out = append(out, text)
		}
	}
	return out
}

func validateQuiz(questions []entity.QuizQuestion) error {
	if len(questions) != QuizQuestionCount {
		return fmt.Errorf("expected %d questions, got %d", QuizQuestionCount, len(questions))
	}
	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

func quizPrompt(format string, seen []string) string {
	seenText := "(No recent questions)"
	if len(seen) > 0 {
		lines := make([]string, len(seen))
		for i, q := range seen {
			lines[i] = fmt.Sprintf("- %q", q)
		}
		seenText = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`You are a world-class cricket expert and quizmaster. Generate a completely new 5-question multiple-choice quiz about %[1]q cricket.

Difficulty must increase with every question:
1. Easy: casual fan knowledge
2. Medium: more than surface level
3. Difficult: specific records or stats
4. Very hard: obscure facts or historical events
5. Extremely hard: expert-level trivia

Cover different topics: players, teams, records, tournaments, rules, historical moments.

Return ONLY a JSON object with this exact structure:
{
  "questions": [
    {
      "id": "unique_id",
      "question": "Question text?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correct_answer": "Option A",
      "explanation": "Brief explanation",
      "hint": "Short hint"
    }
  ]
}

The correct answer must EXACTLY match one of the 4 options. All 4 options must be distinct and plausible.

Do NOT repeat or paraphrase these recently seen questions:
%[2]s
`, format, seenText)
}
