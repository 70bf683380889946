package content

// Menu button labels. Inbound text is matched against these verbatim.
const (
	MenuTrainings = "🏋️‍♀️ Направления тренировок"
	MenuSpecial   = "🎫 Тренировки с ограниченным кол-вом мест"
	MenuPayment   = "💰 Информация об оплате"
	MenuTrainers  = "👨‍🏫 Тренерский состав"
	MenuSchedule  = "📅 Расписание"
	MenuFAQ       = "❓ Часто задаваемые вопросы"
)

const (
	MainMenuText       = "🏠 *Главное меню*\n\nВыберите раздел:"
	TrainingsText      = "Выберите тип тренировки:"
	SpecialText        = "🎫 *Тренировки с ограниченным количеством мест*\n\nВыберите программу:"
	TrainersText       = "👨‍🏫 *Наши тренеры*\n\nВыберите тренера, чтобы узнать больше:"
	ScheduleErrorText  = "❌ Не удалось загрузить расписание. Попробуйте позже."
	GenericErrorText   = "❌ Произошла ошибка при обработке команды. Пожалуйста, попробуйте еще раз."
	PhotoFallbackText  = "⚠️ Фото временно недоступно"
	BookingContactText = "📞 *Для записи на специальные тренировки свяжитесь с администратором:*\n\n" +
		"👩‍💼 *Анна*\n" +
		"📱 Телефон: +7 (953) 096-94-27\n" +
		"🕒 Часы работы: ежедневно с 9:00 до 21:00"
)

func WelcomeText(firstName string) string {
	return "👋 Привет, " + firstName + "! Добро пожаловать в фитнес-студию \"Жизнь\".\n\n" +
		"📌 Для навигации используйте кнопки меню или команды:\n" +
		"/help - список всех команд\n" +
		"/menu - главное меню"
}

const HelpText = "📚 Список команд бота:\n\n" +
	"/start - Начать работу с ботом\n" +
	"/menu - Показать главное меню\n" +
	"/trainings - Показать направления тренировок\n" +
	"/special_trainings - Тренировки с ограниченным количеством мест\n" +
	"/payment - Информация об оплате\n" +
	"/trainers - Наши тренеры\n" +
	"/schedule - Расписание занятий\n" +
	"/questions - Часто задаваемые вопросы\n" +
	"/help - Показать этот список команд\n\n" +
	"📍 Также вы можете использовать кнопки главного меню"

const FAQText = "❓ *Часто задаваемые вопросы*\n\n" +
	"📍 *Как нас найти?*\n" +
	"Станица Каневская, улица Вокзальная 42а, второй этаж.\n\n" +
	"📱 *Как с вами связаться?*\n" +
	"Администратор студии: +7 (953) 096-94-27 (Анна), ежедневно с 9:00 до 21:00.\n\n" +
	"👕 *Что взять с собой?*\n" +
	"Удобная спортивная форма, сменная обувь (степ, функциональный тренинг), носки (пилатес, стретчинг), вода и полотенце.\n\n" +
	"🏃‍♀️ *С чего начать новичку?*\n" +
	"Рекомендуем пилатес, стретчинг или умный фитнес — тренировки адаптируются под ваш уровень.\n\n" +
	"💳 *Варианты оплаты*\n" +
	"Разовые посещения (400 рублей), абонементы на 8-12 занятий (от 2500 рублей), специальные программы.\n\n" +
	"Для подробной информации об оплате воспользуйтесь разделом \"💰 Информация об оплате\" в главном меню."
