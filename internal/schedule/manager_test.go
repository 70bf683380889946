package schedule_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	schedmodel "github.com/avzakharova/studio-bot/internal/core/datamodel/schedule"
	"github.com/avzakharova/studio-bot/internal/schedule"
)

func TestScheduleManager(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Schedule Manager Suite")
}

var _ = Describe("Manager", func() {
	var (
		dir      string
		filePath string
		ctx      context.Context

		testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	)

	writeDoc := func(doc *schedmodel.Document) {
		data, err := json.Marshal(doc)
		Expect(err).NotTo(HaveOccurred())
		Expect(os.WriteFile(filePath, data, 0o644)).To(Succeed())
	}

	sampleDoc := func(note string) *schedmodel.Document {
		return &schedmodel.Document{
			Schedule: map[string][]schedmodel.Entry{
				"monday": {{Time: "9:30-10:30", Name: "Пилатес", Trainer: "Анна"}},
			},
			LastUpdated: "2026-08-01",
			Note:        note,
		}
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		filePath = filepath.Join(dir, "schedule.json")
		ctx = context.Background()
	})

	Describe("Get", func() {
		It("reads the schedule from disk", func() {
			writeDoc(sampleDoc("первая версия"))
			m := schedule.NewManager(filePath, time.Minute, testLogger)

			doc := m.Get(ctx)
			Expect(doc.Note).To(Equal("первая версия"))
			Expect(doc.Schedule["monday"]).To(HaveLen(1))
		})

		It("serves the cached copy while the TTL is fresh", func() {
			writeDoc(sampleDoc("первая версия"))
			m := schedule.NewManager(filePath, time.Minute, testLogger)
			Expect(m.Get(ctx).Note).To(Equal("первая версия"))

			writeDoc(sampleDoc("вторая версия"))
			Expect(m.Get(ctx).Note).To(Equal("первая версия"))
		})

		It("rereads the file after the TTL elapses", func() {
			writeDoc(sampleDoc("первая версия"))
			m := schedule.NewManager(filePath, 10*time.Millisecond, testLogger)
			Expect(m.Get(ctx).Note).To(Equal("первая версия"))

			writeDoc(sampleDoc("вторая версия"))
			Eventually(func() string {
				return m.Get(ctx).Note
			}).Should(Equal("вторая версия"))
		})

		It("serves the default when the file is missing", func() {
			m := schedule.NewManager(filepath.Join(dir, "nope.json"), time.Minute, testLogger)

			doc := m.Get(ctx)
			Expect(doc.Schedule).NotTo(BeEmpty())
			Expect(doc.Schedule["monday"]).NotTo(BeEmpty())
		})

		It("serves the default when the file is corrupt", func() {
			Expect(os.WriteFile(filePath, []byte("{not json"), 0o644)).To(Succeed())
			m := schedule.NewManager(filePath, time.Minute, testLogger)

			doc := m.Get(ctx)
			Expect(doc.Schedule).NotTo(BeEmpty())
		})
	})

	Describe("Update", func() {
		It("stamps the update date and persists", func() {
			m := schedule.NewManager(filePath, time.Minute, testLogger)
			doc := sampleDoc("новая версия")

			Expect(m.Update(ctx, doc)).To(Succeed())
			Expect(doc.LastUpdated).To(Equal(time.Now().Format("2006-01-02")))

			data, err := os.ReadFile(filePath)
			Expect(err).NotTo(HaveOccurred())
			var persisted schedmodel.Document
			Expect(json.Unmarshal(data, &persisted)).To(Succeed())
			Expect(persisted.Note).To(Equal("новая версия"))
		})

		It("refreshes the cache so the next read sees the new version", func() {
			writeDoc(sampleDoc("первая версия"))
			m := schedule.NewManager(filePath, time.Hour, testLogger)
			Expect(m.Get(ctx).Note).To(Equal("первая версия"))

			Expect(m.Update(ctx, sampleDoc("вторая версия"))).To(Succeed())
			Expect(m.Get(ctx).Note).To(Equal("вторая версия"))
		})

		It("fails with a storage error when the directory is gone", func() {
			m := schedule.NewManager(filepath.Join(dir, "missing", "schedule.json"), time.Minute, testLogger)
			Expect(m.Update(ctx, sampleDoc("x"))).NotTo(Succeed())
		})
	})

	Describe("TodayEntries", func() {
		It("returns the entries for the current weekday", func() {
			doc := &schedmodel.Document{Schedule: map[string][]schedmodel.Entry{}}
			for _, day := range schedmodel.DayOrder {
				doc.Schedule[day] = []schedmodel.Entry{
					{Time: "10:00-11:00", Name: "Пилатес " + day, Trainer: "Анна"},
				}
			}
			writeDoc(doc)
			m := schedule.NewManager(filePath, time.Minute, testLogger)

			today := strings.ToLower(time.Now().Weekday().String())
			entries := m.TodayEntries(ctx)
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Name).To(Equal("Пилатес " + today))
		})

		It("is empty for a day with no classes", func() {
			writeDoc(&schedmodel.Document{Schedule: map[string][]schedmodel.Entry{}})
			m := schedule.NewManager(filePath, time.Minute, testLogger)

			Expect(m.TodayEntries(ctx)).To(BeEmpty())
		})
	})

	Describe("FormatToday", func() {
		It("lists the day's classes with trainers", func() {
			text := schedule.FormatToday([]schedmodel.Entry{
				{Time: "9:30-10:30", Name: "Пилатес", Trainer: "Анна"},
			})
			Expect(text).To(ContainSubstring("СЕГОДНЯ"))
			Expect(text).To(ContainSubstring("Пилатес"))
			Expect(text).To(ContainSubstring("тренер: Анна"))
		})

		It("says so when the day is empty", func() {
			Expect(schedule.FormatToday(nil)).To(ContainSubstring("занятий нет"))
		})
	})

	Describe("Format", func() {
		It("groups entries by day and omits empty days", func() {
			doc := &schedmodel.Document{
				Schedule: map[string][]schedmodel.Entry{
					"monday": {{Time: "9:30-10:30", Name: "Пилатес", Trainer: "Анна"}},
					"sunday": {},
				},
				LastUpdated: "2026-08-01",
			}

			text := schedule.Format(doc)
			Expect(text).To(ContainSubstring("ПОНЕДЕЛЬНИК"))
			Expect(text).To(ContainSubstring("Пилатес"))
			Expect(text).To(ContainSubstring("тренер: Анна"))
			Expect(text).NotTo(ContainSubstring("ВОСКРЕСЕНЬЕ"))
		})

		It("says so when the whole week is empty", func() {
			text := schedule.Format(&schedmodel.Document{Schedule: map[string][]schedmodel.Entry{}})
			Expect(text).To(ContainSubstring("занятий нет"))
		})

		It("appends the note when present", func() {
			doc := sampleDoc("не забудьте коврик")
			Expect(schedule.Format(doc)).To(ContainSubstring("не забудьте коврик"))
		})
	})
})
