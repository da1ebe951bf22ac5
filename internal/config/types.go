package config

// ConfigLogger настройки логирования
type ConfigLogger struct {
	Level string `mapstructure:"level"`
}

// ConfigStore настройки удаленного хранилища
type ConfigStore struct {
	// Backend выбирает реализацию хранилища: "memory" или "sqlite"
	Backend string `mapstructure:"backend"`
	// Path путь к файлу базы SQLite (только для backend=sqlite)
	Path string `mapstructure:"path"`
	// RateLimitRPS ограничение исходящих запросов к хранилищу в секунду
	RateLimitRPS int `mapstructure:"rate_limit_rps"`
	// RateLimitBurst разрешенный кратковременный всплеск запросов
	RateLimitBurst int `mapstructure:"rate_limit_burst"`
}

// ConfigSession настройки сессии
type ConfigSession struct {
	// DemoUserID идентификатор демо-пользователя для интерактивной оболочки
	DemoUserID string `mapstructure:"demo_user_id"`
	// DemoUsername отображаемое имя демо-пользователя
	DemoUsername string `mapstructure:"demo_username"`
}

// Config основная структура конфигурации
type Config struct {
	Logger  *ConfigLogger  `mapstructure:"logger"`
	Store   *ConfigStore   `mapstructure:"store"`
	Session *ConfigSession `mapstructure:"session"`
}
