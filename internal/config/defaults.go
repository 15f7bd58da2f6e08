package config

import "time"

// Default values for optional configuration parameters
const (
	// Log defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Telegram defaults
	DefaultTelegramWebhookPath = "/telegram/webhook"
	DefaultTelegramListenAddr  = ":8080"

	// Completion defaults
	DefaultCompletionProvider     = "openrouter"
	DefaultCompletionBaseURL      = "https://openrouter.ai/api/v1"
	DefaultCompletionModel        = "mistralai/mistral-7b-instruct:free"
	DefaultCompletionTemperature  = 0.7
	DefaultCompletionTimeout      = 2 * time.Minute
	DefaultCompletionSystemPrompt = "Ты полезный AI-ассистент для студентов."

	// Bot defaults
	DefaultBotMessageLimit = 4000 // Answers longer than this go out as a text file

	// Database defaults
	DefaultDatabasePath = "studbot.db"

	// Scheduler defaults
	DefaultMaintenanceCron = "0 4 * * *"
)

// Default user-facing messages
var DefaultBotMessages = BotMessages{
	Welcome: "Привет! Я AI-помощник для студентов. Задай мне вопрос.",
	Help: "Напиши вопрос — отвечу текстом.\n" +
		"«реферат: тема» — пришлю реферат в .docx\n" +
		"«презентация: тема» — пришлю презентацию в .pptx",
	Apology:       "Произошла ошибка при обращении к ИИ. Попробуйте позже.",
	NotAuthorized: "Эта команда доступна только администратору.",
}
