package wizard

import "github.com/avzakharova/studio-bot/internal/session"

// StepContent is one screen of the payment instruction wizard.
type StepContent struct {
	Title       string
	Description string
	// Photos are optional illustrative screenshots sent before the text.
	Photos []string
}

var stepContent = map[session.Step]StepContent{
	session.StepWelcome: {
		Title: "💰 *Оплата абонемента*",
		Description: "Здесь вы можете оплатить абонемент на месяц и отправить чек администратору.\n\n" +
			"Нажмите «Посмотреть инструкцию», чтобы увидеть пошаговое руководство по оплате.",
	},
	session.StepOne: {
		Title:       "Шаг 1 из 4. Откройте приложение банка",
		Description: "Откройте приложение вашего банка и выберите «Перевод по номеру телефона».",
		Photos:      []string{"media/payment/step1.jpg"},
	},
	session.StepTwo: {
		Title:       "Шаг 2 из 4. Укажите номер получателя",
		Description: "Введите номер +7 (953) 096-94-27 и выберите получателя «Анна З.».",
		Photos:      []string{"media/payment/step2.jpg"},
	},
	session.StepThree: {
		Title:       "Шаг 3 из 4. Введите сумму",
		Description: "Укажите стоимость вашего абонемента. Разовое занятие — 400 ₽, абонементы — от 2500 ₽.",
		Photos:      []string{"media/payment/step3.jpg"},
	},
	session.StepFour: {
		Title: "Шаг 4 из 4. Подтвердите перевод",
		Description: "Проверьте данные и подтвердите перевод. Сохраните чек — он понадобится на следующем шаге.\n\n" +
			"После оплаты нажмите «Я оплатил».",
		Photos: []string{"media/payment/step4.jpg"},
	},
}

const (
	waitingForReceiptText = "📸 *Отправьте скриншот чека*\n\n" +
		"Пришлите скриншот чека об оплате одним изображением, и администратор подтвердит ваш платеж."
	receiptReceivedText = "✅ Чек получен и передан администратору!\n\n" +
		"После проверки вы получите подтверждение. Обычно это занимает не больше пары часов."
	sendImageInsteadText = "Пожалуйста, отправьте скриншот чека в виде изображения 📸"
	relayFailedText      = "❌ Не удалось отправить чек. Попробуйте позже или свяжитесь с администратором напрямую."
	storageFailedText    = "❌ Не удалось сохранить заявку. Пожалуйста, попробуйте еще раз."
)
