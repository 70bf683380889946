package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/avzakharova/studio-bot/internal"
	schedmodel "github.com/avzakharova/studio-bot/internal/core/datamodel/schedule"
)

// Manager serves the weekly schedule from a JSON file with a short-lived
// in-memory cache. Reads never fail: a broken or missing file yields the
// built-in default so the display path stays available.
type Manager struct {
	filePath string
	cacheTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.RWMutex
	cache     *schedmodel.Document
	cachedAt  time.Time
}

func NewManager(filePath string, cacheTTL time.Duration, logger *slog.Logger) *Manager {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &Manager{
		filePath: filePath,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Get returns the schedule, from cache while fresh.
func (m *Manager) Get(ctx context.Context) *schedmodel.Document {
	m.mu.RLock()
	if m.cache != nil && m.now().Sub(m.cachedAt) < m.cacheTTL {
		doc := m.cache
		m.mu.RUnlock()
		return doc
	}
	m.mu.RUnlock()

	data, err := os.ReadFile(m.filePath)
	if err != nil {
		m.logger.Warn("failed to read schedule file, serving default",
			"error", err, "path", m.filePath)
		return DefaultDocument()
	}

	var doc schedmodel.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		m.logger.Warn("failed to parse schedule file, serving default",
			"error", err, "path", m.filePath)
		return DefaultDocument()
	}

	m.mu.Lock()
	m.cache = &doc
	m.cachedAt = m.now()
	m.mu.Unlock()
	return &doc
}

// Update stamps the document with today's date, writes it to disk and
// refreshes the cache atomically with the write.
func (m *Manager) Update(ctx context.Context, doc *schedmodel.Document) error {
	doc.LastUpdated = m.now().Format("2006-01-02")

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return internal.NewInternalError("failed to encode schedule", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.WriteFile(m.filePath, data, 0o644); err != nil {
		return internal.NewStorageError("failed to write schedule file", err)
	}
	m.cache = doc
	m.cachedAt = m.now()

	m.logger.Info("schedule updated", "path", m.filePath, "last_updated", doc.LastUpdated)
	return nil
}

// TodayEntries returns the classes scheduled for the current weekday.
func (m *Manager) TodayEntries(ctx context.Context) []schedmodel.Entry {
	doc := m.Get(ctx)
	day := strings.ToLower(m.now().Weekday().String())
	return doc.Schedule[day]
}

var dayTitles = map[string]string{
	"monday":    "ПОНЕДЕЛЬНИК",
	"tuesday":   "ВТОРНИК",
	"wednesday": "СРЕДА",
	"thursday":  "ЧЕТВЕРГ",
	"friday":    "ПЯТНИЦА",
	"saturday":  "СУББОТА",
	"sunday":    "ВОСКРЕСЕНЬЕ",
}

// Format renders the week as a message, grouping by day and decorating each
// entry by training category. Days without classes are omitted.
func Format(doc *schedmodel.Document) string {
	var b strings.Builder
	b.WriteString("🗓️ *РАСПИСАНИЕ ЗАНЯТИЙ*\n\n")
	fmt.Fprintf(&b, "📅 Обновлено: %s\n\n", doc.LastUpdated)

	hasClasses := false
	for _, day := range schedmodel.DayOrder {
		entries := doc.Schedule[day]
		if len(entries) == 0 {
			continue
		}
		hasClasses = true
		fmt.Fprintf(&b, "*%s*\n", dayTitles[day])
		for _, e := range entries {
			fmt.Fprintf(&b, "%s *%s* - %s", categoryEmoji(e.Name), e.Time, e.Name)
			if e.Trainer != "" {
				fmt.Fprintf(&b, " (тренер: %s)", e.Trainer)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if !hasClasses {
		b.WriteString("На этой неделе занятий нет.\n")
	}
	if doc.Note != "" {
		b.WriteString("\n" + doc.Note)
	}
	return b.String()
}

// FormatToday renders one day's classes as a short message.
func FormatToday(entries []schedmodel.Entry) string {
	var b strings.Builder
	b.WriteString("📅 *СЕГОДНЯ*\n\n")
	if len(entries) == 0 {
		b.WriteString("Сегодня занятий нет.")
		return b.String()
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "%s *%s* - %s", categoryEmoji(e.Name), e.Time, e.Name)
		if e.Trainer != "" {
			fmt.Fprintf(&b, " (тренер: %s)", e.Trainer)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func categoryEmoji(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "пилатес"):
		return "🧘‍♀️"
	case strings.Contains(lower, "стретчинг"):
		return "🤸‍♀️"
	case strings.Contains(lower, "степ"):
		return "🏃‍♀️"
	case strings.Contains(lower, "функциональный"):
		return "💪"
	default:
		return "🏋️‍♀️"
	}
}

// DefaultDocument is served when the schedule file cannot be read.
func DefaultDocument() *schedmodel.Document {
	return &schedmodel.Document{
		Schedule: map[string][]schedmodel.Entry{
			"monday": {
				{Time: "9:30-10:30", Name: "Пилатес", Trainer: "Анна"},
				{Time: "18:00-19:00", Name: "Стретчинг", Trainer: "Ирина"},
			},
			"tuesday": {
				{Time: "8:00-9:00", Name: "Функциональный тренинг", Trainer: "Анна"},
				{Time: "19:00-20:00", Name: "Степ", Trainer: "Ирина"},
			},
			"wednesday": {
				{Time: "9:30-10:30", Name: "Пилатес", Trainer: "Анна"},
				{Time: "18:00-19:00", Name: "Функциональный тренинг", Trainer: "Ирина"},
			},
			"thursday": {
				{Time: "8:00-9:00", Name: "Стретчинг", Trainer: "Анна"},
				{Time: "19:00-20:00", Name: "Степ", Trainer: "Ирина"},
			},
			"friday": {
				{Time: "9:30-10:30", Name: "Пилатес", Trainer: "Анна"},
				{Time: "18:00-19:00", Name: "Функциональный тренинг", Trainer: "Ирина"},
			},
			"saturday": {
				{Time: "10:00-11:00", Name: "Субботний микс", Trainer: "Анна"},
			},
			"sunday": {},
		},
		LastUpdated: time.Now().Format("2006-01-02"),
		Note:        "📝 *Внимание:* Расписание может меняться. Уточняйте актуальную информацию у администратора.",
	}
}
