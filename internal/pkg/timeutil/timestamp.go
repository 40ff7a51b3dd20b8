// Package timeutil содержит единый разборщик временных меток, приходящих
// из внешних источников в разных формах.
package timeutil

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind описывает, в какой форме пришла временная метка
type Kind int

const (
	KindInvalid    Kind = iota
	KindStructured      // объект {seconds, nanoseconds} или {_seconds, _nanoseconds}
	KindTime            // уже time.Time
	KindNumber          // секунды (или миллисекунды) от epoch
	KindString          // RFC 3339, дата или число строкой
)

// millisThreshold: числа не меньше этого значения считаются миллисекундами.
// 1e11 секунд это примерно 5138 год, так что путаницы не возникает.
const millisThreshold = 1e11

var stringLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// Timestamp это момент времени с признаком валидности.
// Невалидная метка означает "отсутствует или не разобрана".
// Моменты до 1970 года валидны: так приходят даты рождения.
type Timestamp struct {
	Time  time.Time
	Valid bool
	Kind  Kind
}

// Of оборачивает time.Time. Нулевое время считается отсутствующим.
func Of(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{Time: t, Valid: true, Kind: KindTime}
}

// Parse разбирает значение любой поддерживаемой формы.
// Второе значение false, если метку разобрать не удалось.
func Parse(v any) (Timestamp, bool) {
	ts := parse(v)
	return ts, ts.Valid
}

func parse(v any) Timestamp {
	switch val := v.(type) {
	case nil:
		return Timestamp{}
	case Timestamp:
		return val
	case *Timestamp:
		if val == nil {
			return Timestamp{}
		}
		return *val
	case time.Time:
		return Of(val)
	case *time.Time:
		if val == nil {
			return Timestamp{}
		}
		return Of(*val)
	case map[string]any:
		return fromStructured(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return Timestamp{}
		}
		return fromEpoch(f)
	case float64:
		return fromEpoch(val)
	case float32:
		return fromEpoch(float64(val))
	case int:
		return fromEpoch(float64(val))
	case int64:
		return fromEpoch(float64(val))
	case int32:
		return fromEpoch(float64(val))
	case uint64:
		return fromEpoch(float64(val))
	case string:
		return fromString(val)
	case []byte:
		return fromString(string(val))
	default:
		return Timestamp{}
	}
}

func fromStructured(m map[string]any) Timestamp {
	secRaw, ok := m["seconds"]
	if !ok {
		secRaw, ok = m["_seconds"]
	}
	if !ok {
		return Timestamp{}
	}
	sec, ok := toFloat(secRaw)
	if !ok || math.IsNaN(sec) || math.IsInf(sec, 0) {
		return Timestamp{}
	}
	nanosRaw, ok := m["nanoseconds"]
	if !ok {
		nanosRaw = m["_nanoseconds"]
	}
	nanos, _ := toFloat(nanosRaw)
	return Timestamp{
		Time:  time.Unix(int64(sec), int64(nanos)).UTC(),
		Valid: true,
		Kind:  KindStructured,
	}
}

func fromEpoch(f float64) Timestamp {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Timestamp{}
	}
	var t time.Time
	if math.Abs(f) >= millisThreshold {
		t = time.UnixMilli(int64(f))
	} else {
		whole, frac := math.Modf(f)
		t = time.Unix(int64(whole), int64(frac*1e9))
	}
	return Timestamp{Time: t.UTC(), Valid: true, Kind: KindNumber}
}

func fromString(s string) Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}
	}
	// Четыре цифры это год, а не секунды от epoch
	if len(s) == 4 {
		if year, err := strconv.Atoi(s); err == nil && year > 0 {
			return Timestamp{Time: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), Valid: true, Kind: KindString}
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		ts := fromEpoch(f)
		ts.Kind = KindString
		return ts
	}
	for _, layout := range stringLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.IsZero() {
				return Timestamp{}
			}
			return Timestamp{Time: t, Valid: true, Kind: KindString}
		}
	}
	return Timestamp{}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// UnmarshalJSON принимает любую поддерживаемую форму. Неразбираемое значение
// не является ошибкой: метка просто остаётся невалидной.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("timeutil: invalid timestamp json: %w", err)
	}
	*t = parse(raw)
	return nil
}

// MarshalJSON пишет RFC 3339 строку или null
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

// Scan реализует sql.Scanner
func (t *Timestamp) Scan(src any) error {
	*t = parse(src)
	return nil
}

// Value реализует driver.Valuer
func (t Timestamp) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return t.Time, nil
}

// GormDataType сообщает GORM тип колонки
func (Timestamp) GormDataType() string {
	return "time"
}

// Unix возвращает секунды от epoch или 0 для невалидной метки
func (t Timestamp) Unix() int64 {
	if !t.Valid {
		return 0
	}
	return t.Time.Unix()
}
