package model

import (
	"errors"
	"strings"
	"time"
)

// DefaultFolderName имя защищенной папки по умолчанию.
// Ровно одна такая папка существует у каждого пользователя,
// она создается лениво при первом входе и не может быть
// переименована или удалена
const DefaultFolderName = "Default"

// Folder представляет папку — пользовательскую группировку заметок
type Folder struct {
	ID        string    // UUID папки, присваивается хранилищем при создании
	Name      string    // Имя папки
	OwnerID   string    // Идентификатор пользователя-владельца
	CreatedAt time.Time // Дата создания
	UpdatedAt time.Time // Дата последнего обновления
}

// Validate проверяет валидность папки
func (f *Folder) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.New("name cannot be empty")
	}
	return nil
}

// IsDefault проверяет, является ли папка папкой по умолчанию
func (f *Folder) IsDefault() bool {
	return f.Name == DefaultFolderName
}
