package timeutil

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SupportedShapes(t *testing.T) {
	want := time.Date(2025, 8, 11, 17, 5, 56, 0, time.UTC)

	tests := []struct {
		name     string
		input    any
		wantKind Kind
	}{
		{"time.Time", want, KindTime},
		{"structured seconds", map[string]any{"seconds": float64(want.Unix()), "nanoseconds": float64(0)}, KindStructured},
		{"structured underscore", map[string]any{"_seconds": json.Number("1754931956"), "_nanoseconds": json.Number("0")}, KindStructured},
		{"seconds number", float64(want.Unix()), KindNumber},
		{"int64 seconds", want.Unix(), KindNumber},
		{"milliseconds number", float64(want.UnixMilli()), KindNumber},
		{"rfc3339 string", "2025-08-11T17:05:56Z", KindString},
		{"numeric string", "1754931956", KindString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, ok := Parse(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, ts.Kind)
			assert.True(t, want.Equal(ts.Time), "got %s", ts.Time)
		})
	}
}

func TestParse_DateOnlyString(t *testing.T) {
	ts, ok := Parse("1990-04-24")
	require.True(t, ok)
	assert.Equal(t, 1990, ts.Time.Year())
	assert.Equal(t, time.April, ts.Time.Month())
	assert.Equal(t, 24, ts.Time.Day())
}

func TestParse_BeforeEpoch(t *testing.T) {
	want := time.Date(1965, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		json string
	}{
		{"structured", `{"seconds": -157766400, "nanoseconds": 0}`},
		{"structured underscore", `{"_seconds": -157766400}`},
		{"seconds number", `-157766400`},
		{"milliseconds number", `-157766400000`},
		{"date string", `"1965-01-01"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.json), &ts))
			require.True(t, ts.Valid)
			assert.True(t, want.Equal(ts.Time), "got %s", ts.Time)
		})
	}

	ts, ok := Parse(0)
	require.True(t, ok)
	assert.True(t, time.Unix(0, 0).Equal(ts.Time))
}

func TestParse_DateStringLayouts(t *testing.T) {
	may20 := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"1990/05/20", may20},
		{"05/20/1990", may20},
		{"May 20, 1990", may20},
		{"September 3, 1985", time.Date(1985, 9, 3, 0, 0, 0, 0, time.UTC)},
		{"Sep 3, 1985", time.Date(1985, 9, 3, 0, 0, 0, 0, time.UTC)},
		{"20 May 1990", may20},
		{"Sun, 20 May 1990 00:00:00 UTC", may20},
		{"Sun, 20 May 1990 00:00:00 +0000", may20},
		{"2024", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"1965", time.Date(1965, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ts, ok := Parse(tt.input)
			require.True(t, ok)
			assert.Equal(t, KindString, ts.Kind)
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}
}

func TestParse_RejectsMalformed(t *testing.T) {
	inputs := []any{
		nil,
		"",
		"   ",
		"not a date",
		math.NaN(),
		math.Inf(1),
		"NaN",
		map[string]any{"seconds": math.Inf(-1)},
		time.Time{},
		map[string]any{"nanoseconds": 10},
		map[string]any{"seconds": "abc"},
		[]int{1, 2},
		true,
	}
	for _, in := range inputs {
		_, ok := Parse(in)
		assert.False(t, ok, "input %#v должно быть отвергнуто", in)
	}
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	var payload struct {
		A Timestamp `json:"a"`
		B Timestamp `json:"b"`
		C Timestamp `json:"c"`
		D Timestamp `json:"d"`
	}
	body := `{"a":{"seconds":1754931956,"nanoseconds":500},"b":1754931956,"c":"2025-08-11T17:05:56Z","d":"garbage"}`

	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	assert.True(t, payload.A.Valid)
	assert.Equal(t, 500, payload.A.Time.Nanosecond())
	assert.True(t, payload.B.Valid)
	assert.True(t, payload.C.Valid)
	assert.True(t, payload.A.Time.Truncate(time.Second).Equal(payload.B.Time))
	assert.False(t, payload.D.Valid, "нераспознанная строка должна давать невалидную метку, а не ошибку")
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	ts := Of(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2025-01-02T03:04:05Z"`, string(data))

	data, err = json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestTimestamp_ScanAndValue(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	var ts Timestamp
	require.NoError(t, ts.Scan(now))
	assert.True(t, ts.Valid)

	v, err := ts.Value()
	require.NoError(t, err)
	assert.Equal(t, now, v)

	require.NoError(t, ts.Scan(nil))
	assert.False(t, ts.Valid)
	v, err = ts.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
