// Package parser содержит чистые функции разбора и нормализации данных об инциденте:
// распознавание дат на испанском, слияние частичных записей, проверку полноты и форматирование ответа.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	minYear = 2000
	maxYear = 2100

	// Окно допустимых дат относительно "сегодня" в часовом поясе пользователя
	windowDaysBack    = 10
	windowDaysForward = 1

	isoLayout = "2006-01-02"
)

// DateResult - результат распознавания даты
type DateResult struct {
	Date       string `json:"date"`
	Recognized bool   `json:"recognized"`
}

var relativeDays = map[string]int{
	"hoy":           0,
	"ayer":          -1,
	"anteayer":      -2,
	"mañana":        1,
	"pasado mañana": 2,
}

// Названия месяцев и сокращения без диакритики
var monthNames = map[string]int{
	"enero": 1, "ene": 1,
	"febrero": 2, "feb": 2,
	"marzo": 3, "mar": 3,
	"abril": 4, "abr": 4,
	"mayo": 5, "may": 5,
	"junio": 6, "jun": 6,
	"julio": 7, "jul": 7,
	"agosto": 8, "ago": 8,
	"septiembre": 9, "setiembre": 9, "sep": 9, "sept": 9, "set": 9,
	"octubre": 10, "oct": 10,
	"noviembre": 11, "nov": 11,
	"diciembre": 12, "dic": 12,
}

type dateOrder int

const (
	orderYMD dateOrder = iota
	orderDMY
	orderDMonthY
)

type datePattern struct {
	re        *regexp.Regexp
	order     dateOrder
	shortYear bool
}

// Порядок важен: побеждает первое совпадение
var datePatterns = []datePattern{
	{re: regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`), order: orderYMD},
	// Разделители в D/M/Y должны совпадать: "15/03-2025" не распознаётся
	{re: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`), order: orderDMY},
	{re: regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`), order: orderDMY},
	{re: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2})$`), order: orderDMY, shortYear: true},
	{re: regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{2})$`), order: orderDMY, shortYear: true},
	{re: regexp.MustCompile(`(\d{1,2})\s+(?:de\s+)?(\p{L}+)\.?\s+(?:del?\s+)?(\d{4})\b`), order: orderDMonthY},
	{re: regexp.MustCompile(`(\d{1,2})\s+(?:de\s+)?(\p{L}+)\.?\s+(?:del?\s+)?(\d{2})\b`), order: orderDMonthY, shortYear: true},
}

// DateResolver распознаёт абсолютные и относительные даты на испанском языке.
// Не хранит изменяемого состояния и безопасен для конкурентного использования.
type DateResolver struct {
	now        func() time.Time
	defaultLoc *time.Location
}

// DateResolverOption настраивает DateResolver
type DateResolverOption func(*DateResolver)

// WithClock подменяет источник текущего времени (используется в тестах)
func WithClock(now func() time.Time) DateResolverOption {
	return func(r *DateResolver) {
		r.now = now
	}
}

// NewDateResolver создаёт резолвер. defaultTimeZone применяется, когда пользователь не передал свой пояс.
func NewDateResolver(defaultTimeZone string, opts ...DateResolverOption) (*DateResolver, error) {
	loc := time.UTC
	if defaultTimeZone != "" {
		l, err := time.LoadLocation(defaultTimeZone)
		if err != nil {
			return nil, fmt.Errorf("invalid default time zone %q: %w", defaultTimeZone, err)
		}
		loc = l
	}

	r := &DateResolver{
		now:        time.Now,
		defaultLoc: loc,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve превращает текстовое выражение даты в строку YYYY-MM-DD.
// Нераспознанные или неправдоподобные значения возвращают Recognized=false, а не ошибку.
func (r *DateResolver) Resolve(text, timeZone string) DateResult {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if trimmed == "" {
		return DateResult{}
	}

	loc := r.location(timeZone)
	today := civilDay(r.now().In(loc))

	if offset, ok := relativeDays[trimmed]; ok {
		return DateResult{Date: today.AddDate(0, 0, offset).Format(isoLayout), Recognized: true}
	}

	for _, p := range datePatterns {
		match := p.re.FindStringSubmatch(trimmed)
		if match == nil {
			continue
		}

		year, month, day := p.components(match)
		if !validComponents(year, month, day) {
			return DateResult{}
		}
		if !withinWindow(year, month, day, today) {
			return DateResult{}
		}
		return DateResult{Date: fmt.Sprintf("%04d-%02d-%02d", year, month, day), Recognized: true}
	}

	return DateResult{}
}

func (r *DateResolver) location(timeZone string) *time.Location {
	if timeZone == "" {
		return r.defaultLoc
	}
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return r.defaultLoc
	}
	return loc
}

func (p datePattern) components(match []string) (year, month, day int) {
	switch p.order {
	case orderYMD:
		year, _ = strconv.Atoi(match[1])
		month, _ = strconv.Atoi(match[2])
		day, _ = strconv.Atoi(match[3])
	case orderDMY:
		day, _ = strconv.Atoi(match[1])
		month, _ = strconv.Atoi(match[2])
		year, _ = strconv.Atoi(match[3])
	case orderDMonthY:
		day, _ = strconv.Atoi(match[1])
		month = MonthNumber(match[2])
		year, _ = strconv.Atoi(match[3])
	}
	if p.shortYear {
		year = inferCentury(year)
	}
	return year, month, day
}

// MonthNumber возвращает номер месяца по испанскому названию или сокращению.
// Неизвестное название даёт январь: разбор намеренно снисходительный.
func MonthNumber(name string) int {
	key := strings.TrimSuffix(foldDiacritics(strings.ToLower(name)), ".")
	if m, ok := monthNames[key]; ok {
		return m
	}
	return 1
}

// inferCentury относит двузначный год к 2000-м
func inferCentury(yy int) int {
	return 2000 + yy
}

func validComponents(year, month, day int) bool {
	return year >= minYear && year <= maxYear &&
		month >= 1 && month <= 12 &&
		day >= 1 && day <= 31
}

// withinWindow проверяет попадание календарной даты в [today-10d, today+1d].
// Несуществующие даты вроде 31 февраля нормализуются time.Date перед сравнением.
func withinWindow(year, month, day int, today time.Time) bool {
	candidate := time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
	earliest := today.AddDate(0, 0, -windowDaysBack)
	latest := today.AddDate(0, 0, windowDaysForward)
	return !candidate.Before(earliest) && !candidate.After(latest)
}

// civilDay переносит календарную дату t на полдень UTC.
// В зонах, где переход на летнее время происходит в полночь, 00:00 местного времени не существует,
// поэтому арифметика по дням ведётся вне зоны пользователя.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
