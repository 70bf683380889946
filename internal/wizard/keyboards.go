package wizard

import (
	"github.com/avzakharova/studio-bot/internal/session"
	"github.com/avzakharova/studio-bot/internal/transport"
)

func welcomeKeyboard() *transport.Controls {
	return &transport.Controls{
		Inline: transport.InlineRow(
			transport.Button{Label: "▶️ Посмотреть инструкцию", Data: nextPayload(session.StepWelcome)},
			transport.Button{Label: "🏠 В меню", Data: PayloadMainMenu},
		),
	}
}

func stepKeyboard(s session.Step) *transport.Controls {
	row := []transport.Button{
		{Label: "◀️ Назад", Data: backPayload(s)},
		{Label: "▶️ Далее", Data: nextPayload(s)},
	}
	controls := &transport.Controls{Inline: [][]transport.Button{row}}
	if s == session.FirstInstructional {
		controls.Inline = append(controls.Inline, []transport.Button{
			{Label: "🏠 В меню", Data: PayloadMainMenu},
		})
	}
	return controls
}

func finalStepKeyboard() *transport.Controls {
	return &transport.Controls{
		Inline: [][]transport.Button{
			{
				{Label: "✅ Я оплатил", Data: PayloadPaid},
				{Label: "◀️ Назад", Data: backPayload(session.StepFour)},
			},
			{
				{Label: "🏠 В меню", Data: PayloadMainMenu},
			},
		},
	}
}

func waitingKeyboard() *transport.Controls {
	return &transport.Controls{
		Inline: transport.InlineRow(
			transport.Button{Label: "❌ Отменить отправку", Data: PayloadCancelReceipt},
			transport.Button{Label: "🏠 В меню", Data: PayloadMainMenu},
		),
	}
}
