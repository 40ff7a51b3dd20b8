package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuestion() QuizQuestion {
	return QuizQuestion{
		ID:            "q1",
		Question:      "Who captained India in the 1983 World Cup final?",
		Options:       StringArray{"Kapil Dev", "Sunil Gavaskar", "Mohinder Amarnath", "Ravi Shastri"},
		CorrectAnswer: "Kapil Dev",
	}
}

func TestQuizQuestion_Validate(t *testing.T) {
	q := validQuestion()
	require.NoError(t, q.Validate())

	// Правильный ответ не из списка вариантов
	q.CorrectAnswer = "MS Dhoni"
	assert.Error(t, q.Validate())

	// Три варианта вместо четырёх
	q = validQuestion()
	q.Options = q.Options[:3]
	assert.Error(t, q.Validate())

	// Повтор варианта
	q = validQuestion()
	q.Options[3] = "Kapil Dev"
	assert.Error(t, q.Validate())
}

func TestQuizQuestion_IsCorrect(t *testing.T) {
	q := validQuestion()

	assert.True(t, q.IsCorrect("Kapil Dev"))
	assert.True(t, q.IsCorrect(" Kapil Dev "), "пробелы по краям не должны влиять")
	assert.False(t, q.IsCorrect("Sunil Gavaskar"))
	assert.False(t, q.IsCorrect(""))
}

func TestStringArray_ScanAndValue(t *testing.T) {
	var arr StringArray
	require.NoError(t, arr.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringArray{"a", "b"}, arr)

	require.NoError(t, arr.Scan(nil))
	assert.Empty(t, arr)

	v, err := StringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	assert.Error(t, arr.Scan(42))
}
