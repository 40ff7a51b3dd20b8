package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Пределы количества фактов в одном запросе
const (
	MinFacts = 1
	MaxFacts = 10
)

// Fact факт о крикете
type Fact struct {
	Fact       string `json:"fact"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// Facts ответ генератора фактов
type Facts struct {
	Facts  []Fact `json:"facts"`
	Source Source `json:"source"`
}

var factCategories = map[string]struct{}{
	"player": {}, "team": {}, "record": {}, "historical": {}, "rules": {}, "tournament": {},
}

var factDifficulties = map[string]struct{}{"easy": {}, "medium": {}, "hard": {}}

var fallbackFacts = []Fact{
	{Fact: "Sachin Tendulkar is the highest run-scorer in Test cricket with 15,921 runs.", Category: "player", Difficulty: "easy"},
	{Fact: "The first Test match was played between Australia and England in 1877.", Category: "historical", Difficulty: "medium"},
	{Fact: "Chris Gayle holds the record for highest individual score in T20I with 175*.", Category: "record", Difficulty: "medium"},
	{Fact: "India won its first Cricket World Cup in 1983 under Kapil Dev.", Category: "tournament", Difficulty: "easy"},
	{Fact: "A cricket ball must weigh between 155.9 and 163 grams.", Category: "rules", Difficulty: "hard"},
}

// FactGenerator генерирует факты
type FactGenerator struct {
	gen TextGenerator
}

func NewFactGenerator(gen TextGenerator) *FactGenerator {
	return &FactGenerator{gen: gen}
}

// ClampFactCount приводит количество к диапазону 1..10
func ClampFactCount(n int) int {
	if n < MinFacts {
		return MinFacts
	}
	if n > MaxFacts {
		return MaxFacts
	}
	return n
}

// GenerateFacts возвращает count фактов по теме. При ошибке модели
// используется запасной набор.
func (g *FactGenerator) GenerateFacts(ctx context.Context, topic string, count int) Facts {
	count = ClampFactCount(count)
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = "cricket"
	}
	if g.gen == nil {
		return FallbackFacts(count)
	}

	prompt := fmt.Sprintf(`Generate %d interesting, accurate cricket fact(s) related to: %q.
Each fact must be unique, verifiable and at least 10 characters long.
Return ONLY a JSON object: {"facts": [{"fact": "...", "category": "player|team|record|historical|rules|tournament", "difficulty": "easy|medium|hard"}]}
Return exactly %d fact(s).`, count, topic, count)

	text, err := g.gen.Generate(ctx, prompt, GenerateOptions{Temperature: 0.8, MaxTokens: 1024, JSON: true})
	if err != nil {
		log.Error().Err(err).Str("component", "AI").Msg("Генерация фактов: ошибка модели")
		return FallbackFacts(count)
	}

	var out Facts
	if err := decodeJSONObject(text, &out); err != nil || !validFacts(out.Facts) {
		log.Warn().Err(err).Str("component", "AI").Msg("Генерация фактов: некорректный ответ, используется запасной набор")
		return FallbackFacts(count)
	}
	if len(out.Facts) > count {
		out.Facts = out.Facts[:count]
	}
	out.Source = SourceAI
	return out
}

// FallbackFacts возвращает до count фактов из запасного набора
func FallbackFacts(count int) Facts {
	count = ClampFactCount(count)
	if count > len(fallbackFacts) {
		count = len(fallbackFacts)
	}
	facts := make([]Fact, count)
	copy(facts, fallbackFacts[:count])
	return Facts{Facts: facts, Source: SourceFallback}
}

func validFacts(facts []Fact) bool {
	if len(facts) == 0 {
		return false
	}
	for _, f := range facts {
		if len(strings.TrimSpace(f.Fact)) < 10 {
			return false
		}
		if _, ok := factCategories[f.Category]; !ok {
			return false
		}
		if _, ok := factDifficulties[f.Difficulty]; !ok {
			return false
		}
	}
	return true
}
