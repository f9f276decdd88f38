package handlers

// Тексты ответов бота
const (
	TextAdminGreeting = "Привет, админ! Открой панель:"
	TextTutorGreeting = "Привет! Открой свою панель:"

	ButtonAdminPanel = "Открыть панель администратора"
	ButtonTutorPanel = "Моя панель (репетитор)"

	TextHelp = "Бот WebApp для центра Вершина знаний. Нажми кнопку 'Моя панель' чтобы открыть интерфейс."

	TextAdminOnly      = "Только админ."
	TextPayUsage       = "Использование: /pay <lesson_id>"
	TextLessonPaid     = "Урок %d отмечен как оплаченный."
	TextLessonNotFound = "Не нашёл урок с таким ID."
	TextInternalError  = "❌ Произошла ошибка. Попробуйте позже."
)
