package model

// User представляет пользователя, полученного от провайдера аутентификации.
// Жизненный цикл привязан к сессии входа
type User struct {
	ID       string // Стабильный идентификатор пользователя
	Username string // Отображаемое имя
	Email    string // Электронная почта
}

// Permission описывает права доступа к ресурсу (папке или заметке)
// для конкретного пользователя. Запись создается вместе с ресурсом
// и дает создателю полный доступ
type Permission struct {
	CanEdit bool // Право изменять и удалять ресурс
	CanView bool // Право просматривать ресурс
}
