package content

// Item is one entry of a read-only content catalog: a training direction,
// a special program or a trainer profile.
type Item struct {
	Key         string
	Title       string
	Description string
	// Photo is an optional local path or platform file id.
	Photo string
}

// Catalog is a fixed lookup table. A miss is a user-facing "not available"
// reply, never an error.
type Catalog map[string]*Item

func (c Catalog) Get(key string) (*Item, bool) {
	item, ok := c[key]
	return item, ok
}

// Product is what a confirmed payment buys.
type Product struct {
	ID   int64
	Name string
}

// DefaultProduct is recorded for receipts submitted through the payment
// wizard, which sells a single monthly subscription.
var DefaultProduct = Product{ID: 1, Name: "Абонемент на месяц"}

// Trainings are the regular group class directions.
var Trainings = Catalog{
	"pilates": {
		Key:         "pilates",
		Title:       "Пилатес",
		Description: "🧘‍♀️ *Пилатес*\n\nМягкая тренировка для развития гибкости и укрепления мышц кора. Подходит новичкам.",
		Photo:       "media/trainings/pilates.jpg",
	},
	"stretching": {
		Key:         "stretching",
		Title:       "Стретчинг",
		Description: "🤸‍♀️ *Стретчинг*\n\nРастяжка для повышения эластичности мышц и улучшения осанки.",
		Photo:       "media/trainings/stretching.jpg",
	},
	"step": {
		Key:         "step",
		Title:       "Степ",
		Description: "🏃‍♀️ *Степ-аэробика*\n\nКардио-тренировка на степ-платформе. Требуется сменная спортивная обувь.",
		Photo:       "media/trainings/step.jpg",
	},
	"functional": {
		Key:         "functional",
		Title:       "Функциональный тренинг",
		Description: "💪 *Функциональный тренинг*\n\nСиловая тренировка с собственным весом и инвентарем.",
		Photo:       "media/trainings/functional.jpg",
	},
}

// SpecialPrograms are limited-capacity programs booked through the admin.
var SpecialPrograms = Catalog{
	"smart_fitness": {
		Key:         "smart_fitness",
		Title:       "Умный фитнес",
		Description: "🧠 *Умный фитнес*\n\nИндивидуальный подход с учетом вашего уровня подготовки. Количество мест ограничено.",
		Photo:       "media/special/smart_fitness.jpg",
	},
	"transformation": {
		Key:         "transformation",
		Title:       "Проект \"Перезагрузка\"",
		Description: "🔥 *Проект \"Перезагрузка\"*\n\nКомплексная программа тренировок и сопровождения. Запись через администратора.",
		Photo:       "media/special/transformation.jpg",
	},
}

// Trainers are the coach profiles.
var Trainers = Catalog{
	"irina": {
		Key:         "irina",
		Title:       "Ирина",
		Description: "Тренер направлений стретчинг и степ. Образование в области реабилитационного фитнеса.",
		Photo:       "media/trainers/irina.jpg",
	},
	"anna": {
		Key:         "anna",
		Title:       "Анна",
		Description: "Тренер направлений пилатес и функциональный тренинг. Администратор студии.",
		Photo:       "media/trainers/anna.jpg",
	},
}

// NotAvailableText is the reply for a catalog miss.
const NotAvailableText = "Информация временно недоступна"
