package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/indcric-api/internal/domain/entity"
)

// QuizAnalysis разбор попытки для пользователя
type QuizAnalysis struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
	Source          Source   `json:"source"`
}

// Analyzer строит разбор попытки
type Analyzer struct {
	gen TextGenerator
}

// NewAnalyzer создаёт анализатор. gen может быть nil.
func NewAnalyzer(gen TextGenerator) *Analyzer {
	return &Analyzer{gen: gen}
}

// AnalyzeAttempt возвращает разбор. При недоступности модели или
// некорректном ответе возвращается статический разбор.
func (a *Analyzer) AnalyzeAttempt(ctx context.Context, attempt *entity.QuizAttempt) QuizAnalysis {
	if attempt == nil {
		return FallbackAnalysis(nil)
	}
	if a.gen == nil {
		return FallbackAnalysis(attempt)
	}

	text, err := a.gen.Generate(ctx, analysisPrompt(attempt), GenerateOptions{Temperature: 0.6, MaxTokens: 1024, JSON: true})
	if err != nil {
		log.Error().Err(err).Str("component", "AI").Str("attempt_id", attempt.ID).Msg("Разбор попытки: ошибка модели")
		return FallbackAnalysis(attempt)
	}

	var out QuizAnalysis
	if err := decodeJSONObject(text, &out); err != nil || !out.valid() {
		log.Warn().Err(err).Str("component", "AI").Str("attempt_id", attempt.ID).Msg("Разбор попытки: некорректный ответ модели")
		return FallbackAnalysis(attempt)
	}
	out.Source = SourceAI
	return out
}

func (q QuizAnalysis) valid() bool {
	return strings.TrimSpace(q.Summary) != "" && len(q.Strengths) > 0 && len(q.Weaknesses) > 0 && len(q.Recommendations) > 0
}

// FallbackAnalysis статический разбор, когда модель недоступна
func FallbackAnalysis(attempt *entity.QuizAttempt) QuizAnalysis {
	format, score, total := "cricket", "a good", "your"
	if attempt != nil {
		if f := strings.TrimSpace(attempt.Format); f != "" {
			format = f
		}
		score = fmt.Sprint(attempt.Score)
		total = fmt.Sprint(attempt.TotalQuestions)
	}
	return QuizAnalysis{
		Summary: fmt.Sprintf("A solid effort on the %s quiz! You scored %s out of %s. We're showing general feedback as the AI coach is unavailable.",
			format, score, total),
		Strengths:  []string{"Consistency in completing quizzes.", "Willingness to learn and improve."},
		Weaknesses: []string{"Potential gaps in specific eras or player stats.", "Time management on difficult questions."},
		Recommendations: []string{
			"Review questions you were unsure about.",
			"Focus on one cricket format to build deep knowledge.",
			"Try to answer questions you're confident about more quickly.",
		},
		Source: SourceFallback,
	}
}

func analysisPrompt(a *entity.QuizAttempt) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an encouraging cricket coach. A user finished a %q cricket quiz and scored %d out of %d.\n",
		a.Format, a.Score, a.TotalQuestions)
	if a.IsDisqualified() {
		fmt.Fprintf(&sb, "The attempt was disqualified: %s.\n", a.Reason)
	}
	sb.WriteString("Questions and answers:\n")
	for i, q := range a.Questions {
		verdict := "wrong"
		if q.IsCorrect(q.UserAnswer) {
			verdict = "correct"
		}
		fmt.Fprintf(&sb, "%d. %s\n   user answer: %q (%s), correct answer: %q\n", i+1, q.Question, q.UserAnswer, verdict, q.CorrectAnswer)
	}
	sb.WriteString(`
Return ONLY a JSON object with this exact structure:
{"summary": "...", "strengths": ["..."], "weaknesses": ["..."], "recommendations": ["..."]}
Give 2-3 items in every list.`)
	return sb.String()
}
