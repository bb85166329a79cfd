package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const (
	layoutShort = "15:04"
	layoutLong  = "15:04:05"

	secondsPerDay = 24 * 60 * 60
)

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOverflow возвращается, когда результат выходит за пределы суток
	ErrTimeOverflow = errors.New("time string overflows the day")
)

// TimeString время суток без даты в формате "HH:MM" (или "HH:MM:SS", если секунды ненулевые).
// Хранится в колонках типа TIME.
// Проверенное значение получают только через конструкторы, Scan или UnmarshalText.
// Методы сравнения и арифметики (IsBefore, IsAfter, Equal, Minutes, On) требуют
// проверенного значения: некорректная строка в них читается как 00:00.
type TimeString string

// NewTimeString создает TimeString из time.Time (секунды отбрасываются)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(layoutShort))
}

// NewTimeStringFromString парсит строку "HH:MM" или "HH:MM:SS"
func NewTimeStringFromString(s string) (TimeString, error) {
	secs, err := parseSeconds(s)
	if err != nil {
		return "", err
	}
	return fromSeconds(secs), nil
}

// NewTimeStringFromMinutes создает TimeString из количества минут от полуночи
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes*60 >= secondsPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOverflow, minutes)
	}
	return fromSeconds(minutes * 60), nil
}

// MustTimeString парсит строку и паникует при ошибке. Только для констант и тестов.
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// IsZero проверяет, что время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат времени
func (t TimeString) Validate() error {
	_, err := parseSeconds(string(t))
	return err
}

// Minutes возвращает количество полных минут от полуночи
func (t TimeString) Minutes() int {
	return t.totalSeconds() / 60
}

// Seconds возвращает секундную составляющую (0-59)
func (t TimeString) Seconds() int {
	return t.totalSeconds() % 60
}

// AddMinutes возвращает время, сдвинутое на указанное количество минут
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	secs, err := parseSeconds(string(t))
	if err != nil {
		return "", err
	}
	result := secs + minutes*60
	if result < 0 || result >= secondsPerDay {
		return "", fmt.Errorf("%w: %s + %d minutes", ErrTimeOverflow, t, minutes)
	}
	return fromSeconds(result), nil
}

// IsBefore проверяет, что t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.totalSeconds() < other.totalSeconds()
}

// IsAfter проверяет, что t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.totalSeconds() > other.totalSeconds()
}

// Equal проверяет равенство времени независимо от формы записи ("10:00" == "10:00:00")
func (t TimeString) Equal(other TimeString) bool {
	return t.totalSeconds() == other.totalSeconds()
}

// On возвращает момент времени t в дату date (в локации date)
func (t TimeString) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, date.Location()).Add(time.Duration(t.totalSeconds()) * time.Second)
}

// Scan реализует sql.Scanner
func (t *TimeString) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	case time.Time:
		*t = fromSeconds(v.Hour()*3600 + v.Minute()*60 + v.Second())
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeString, src)
	}

	parsed, err := NewTimeStringFromString(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnmarshalText реализует encoding.TextUnmarshaler (TOML, JSON).
// Пустая строка дает нулевое значение.
func (t *TimeString) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*t = ""
		return nil
	}
	parsed, err := NewTimeStringFromString(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	secs, err := parseSeconds(string(t))
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60), nil
}

// totalSeconds секунды от полуночи; для непроверенного значения 0
func (t TimeString) totalSeconds() int {
	secs, err := parseSeconds(string(t))
	if err != nil {
		return 0
	}
	return secs
}

func parseSeconds(s string) (int, error) {
	layout := layoutShort
	if len(s) > len(layoutShort) {
		layout = layoutLong
	}
	parsed, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return parsed.Hour()*3600 + parsed.Minute()*60 + parsed.Second(), nil
}

func fromSeconds(secs int) TimeString {
	h, m, s := secs/3600, secs%3600/60, secs%60
	if s == 0 {
		return TimeString(fmt.Sprintf("%02d:%02d", h, m))
	}
	return TimeString(fmt.Sprintf("%02d:%02d:%02d", h, m, s))
}
