package bot

import (
	"github.com/avzakharova/studio-bot/internal/content"
	"github.com/avzakharova/studio-bot/internal/transport"
)

// Catalog browsing payloads.
const (
	payloadTrainingPrefix = "btn_"
	payloadSpecialPrefix  = "btn_special_"
	payloadTrainerPrefix  = "btn_trainer_"

	payloadRefreshSchedule = "refresh_schedule"
	payloadScheduleToday   = "schedule_today"
	payloadBackTrainings   = "back_to_trainings_list"
	payloadBackSpecial     = "back_to_special_list"
	payloadBackTrainers    = "back_to_trainers_list"
	payloadBooking         = "contact_for_booking"
	payloadMainMenu        = "back_to_main_menu"
)

func mainMenuControls() *transport.Controls {
	return &transport.Controls{
		Menu: [][]string{
			{content.MenuTrainings, content.MenuSpecial},
			{content.MenuPayment, content.MenuTrainers},
			{content.MenuSchedule, content.MenuFAQ},
		},
	}
}

func trainingsKeyboard() *transport.Controls {
	return &transport.Controls{
		Inline: [][]transport.Button{
			{
				{Label: "Пилатес", Data: payloadTrainingPrefix + "pilates"},
				{Label: "Стретчинг", Data: payloadTrainingPrefix + "stretching"},
			},
			{
				{Label: "Степ", Data: payloadTrainingPrefix + "step"},
				{Label: "Функциональный тренинг", Data: payloadTrainingPrefix + "functional"},
			},
			{
				{Label: "⬅️ Назад в меню", Data: payloadMainMenu},
			},
		},
	}
}

func specialKeyboard() *transport.Controls {
	return &transport.Controls{
		Inline: [][]transport.Button{
			{
				{Label: "🧠 Умный фитнес", Data: payloadSpecialPrefix + "smart_fitness"},
				{Label: "🔥 Проект \"Перезагрузка\"", Data: payloadSpecialPrefix + "transformation"},
			},
			{
				{Label: "⬅️ Назад в меню", Data: payloadMainMenu},
			},
		},
	}
}

func trainersKeyboard() *transport.Controls {
	return &transport.Controls{
		Inline: [][]transport.Button{
			{
				{Label: "Ирина", Data: payloadTrainerPrefix + "irina"},
				{Label: "Анна", Data: payloadTrainerPrefix + "anna"},
			},
			{
				{Label: "⬅️ Назад в меню", Data: payloadMainMenu},
			},
		},
	}
}

func detailsKeyboard(backData string) *transport.Controls {
	return &transport.Controls{
		Inline: transport.InlineRow(
			transport.Button{Label: "⬅️ Назад к списку", Data: backData},
			transport.Button{Label: "🏠 В главное меню", Data: payloadMainMenu},
		),
	}
}

func specialDetailsKeyboard() *transport.Controls {
	return &transport.Controls{
		Inline: [][]transport.Button{
			{
				{Label: "📞 Записаться", Data: payloadBooking},
			},
			{
				{Label: "⬅️ Назад к списку", Data: payloadBackSpecial},
				{Label: "🏠 В главное меню", Data: payloadMainMenu},
			},
		},
	}
}

func scheduleKeyboard() *transport.Controls {
	return &transport.Controls{
		Inline: [][]transport.Button{
			{
				{Label: "📅 Сегодня", Data: payloadScheduleToday},
				{Label: "🔄 Обновить", Data: payloadRefreshSchedule},
			},
			{
				{Label: "🏠 В меню", Data: payloadMainMenu},
			},
		},
	}
}
