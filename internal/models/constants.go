package models

const (
	ParseModeMarkdown = "Markdown"
	ParseModeHTML     = "HTML"
)

const (
	// DefaultRedisTTL время жизни состояния пользователя в Redis
	DefaultRedisTTL = 24 * 60 * 60 // 24 часа в секундах

	// DefaultPaginationSize размер пагинации по умолчанию
	DefaultPaginationSize = 8

	// RateLimitMessages количество сообщений в окне
	RateLimitMessages = 20

	// RateLimitWindow окно ограничения частоты сообщений
	RateLimitWindow = 60 // 1 минута в секундах

	// DateFormat формат дат, вводимых пользователем
	DateFormat = "02.01.2006"

	// PopularTagsLimit количество тегов, предлагаемых кнопками
	PopularTagsLimit = 20

	// SavedLocationsLimit количество сохраненных мест одного типа
	SavedLocationsLimit = 10

	// MaxTagsPerItem максимальное количество тегов у элемента
	MaxTagsPerItem = 20
)
