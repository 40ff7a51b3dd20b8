package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

// QuestionOptionsCount число вариантов ответа в сгенерированном вопросе
const QuestionOptionsCount = 4

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
func (o *StringArray) Scan(value interface{}) error {
	if value == nil {
		*o = StringArray{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(raw) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(raw, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// QuizQuestion вопрос викторины, сгенерированный моделью
type QuizQuestion struct {
	ID            string      `json:"id"`
	Question      string      `json:"question"`
	Options       StringArray `json:"options"`
	CorrectAnswer string      `json:"correct_answer"`
	Explanation   string      `json:"explanation,omitempty"`
	Hint          string      `json:"hint,omitempty"`
}

// Validate проверяет форму вопроса: текст, ровно четыре различных варианта
// и правильный ответ среди них
func (q *QuizQuestion) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return errors.New("question text is empty")
	}
	if len(q.Options) != QuestionOptionsCount {
		return errors.New("question must have exactly 4 options")
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		key := strings.TrimSpace(opt)
		if key == "" {
			return errors.New("question option is empty")
		}
		if _, dup := seen[key]; dup {
			return errors.New("question options must be distinct")
		}
		seen[key] = struct{}{}
	}
	if !q.IsCorrect(q.CorrectAnswer) {
		return errors.New("correct answer is not one of the options")
	}
	return nil
}

// IsCorrect проверяет совпадение ответа с одним из вариантов и правильным ответом
func (q *QuizQuestion) IsCorrect(answer string) bool {
	answer = strings.TrimSpace(answer)
	if answer == "" || answer != strings.TrimSpace(q.CorrectAnswer) {
		return false
	}
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == answer {
			return true
		}
	}
	return false
}
