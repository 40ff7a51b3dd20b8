// Package rewards отбирает попытки, за которые показывается скретч-карта:
// не больше одной награды на бренд за календарную неделю.
package rewards

import (
	"sort"
	"strings"
	"time"

	"github.com/yourusername/indcric-api/internal/domain/entity"
)

// DefaultMaxFormats ограничение на число различных форматов в одной выдаче
const DefaultMaxFormats = 3

// Options параметры отбора
type Options struct {
	// Location часовой пояс, в котором считается начало недели. nil означает UTC.
	Location *time.Location
	// MaxFormats оставляет только N самых свежих различных форматов. 0 отключает ограничение.
	MaxFormats int
}

// Select общий конвейер отбора наград: сначала недельная дедупликация,
// затем ограничение по форматам
func Select(attempts []entity.QuizAttempt, opts Options) []entity.QuizAttempt {
	selected := SelectRewardable(attempts, opts.Location)
	return ApplyFormatCap(selected, opts.MaxFormats)
}

// WeekStart возвращает понедельник 00:00 недели, содержащей t, в часовом поясе loc
func WeekStart(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	// Воскресенье (0) относится к неделе, начавшейся шесть дней назад
	back := int(local.Weekday()) - 1
	if local.Weekday() == time.Sunday {
		back = 6
	}
	y, m, d := local.Date()
	return time.Date(y, m, d-back, 0, 0, 0, 0, loc)
}

type brandWeek struct {
	brand string
	week  int64
}

// SelectRewardable оставляет не больше одной попытки на пару (бренд, неделя),
// самую свежую в паре. Попытки без бренда или без валидной метки времени отбрасываются.
// Результат упорядочен от новых к старым; равные метки сохраняют входной порядок.
func SelectRewardable(attempts []entity.QuizAttempt, loc *time.Location) []entity.QuizAttempt {
	candidates := sortedNewestFirst(attempts, true)

	seen := make(map[brandWeek]struct{}, len(candidates))
	out := make([]entity.QuizAttempt, 0, len(candidates))
	for _, a := range candidates {
		key := brandWeek{
			brand: strings.TrimSpace(a.Brand),
			week:  WeekStart(a.Timestamp.Time, loc).Unix(),
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}

// RecentUniqueFormats возвращает до n различных форматов в порядке от самой свежей попытки.
// Попытки без формата или метки времени пропускаются.
func RecentUniqueFormats(attempts []entity.QuizAttempt, n int) []string {
	if n <= 0 {
		return []string{}
	}
	formats := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for _, a := range sortedNewestFirst(attempts, false) {
		format := strings.TrimSpace(a.Format)
		if format == "" {
			continue
		}
		if _, dup := seen[format]; dup {
			continue
		}
		seen[format] = struct{}{}
		formats = append(formats, format)
		if len(formats) == n {
			break
		}
	}
	return formats
}

// ApplyFormatCap оставляет попытки n самых свежих различных форматов.
// n <= 0 возвращает вход без изменений.
func ApplyFormatCap(attempts []entity.QuizAttempt, n int) []entity.QuizAttempt {
	if n <= 0 {
		return attempts
	}
	allowed := make(map[string]struct{}, n)
	for _, f := range RecentUniqueFormats(attempts, n) {
		allowed[f] = struct{}{}
	}
	out := make([]entity.QuizAttempt, 0, len(attempts))
	for _, a := range attempts {
		if _, ok := allowed[strings.TrimSpace(a.Format)]; ok {
			out = append(out, a)
		}
	}
	return out
}

// sortedNewestFirst копирует попытки с валидной меткой (и брендом, если requireBrand)
// и стабильно сортирует по убыванию времени
func sortedNewestFirst(attempts []entity.QuizAttempt, requireBrand bool) []entity.QuizAttempt {
	out := make([]entity.QuizAttempt, 0, len(attempts))
	for _, a := range attempts {
		if !a.Timestamp.Valid || a.Timestamp.Time.IsZero() {
			continue
		}
		if requireBrand && strings.TrimSpace(a.Brand) == "" {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Time.After(out[j].Timestamp.Time)
	})
	return out
}
