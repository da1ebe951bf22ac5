package model

import (
	"errors"
	"strings"
	"time"
)

// Note представляет заметку (доменная модель).
// Заметка всегда принадлежит ровно одной папке через FolderID
type Note struct {
	ID        string    // UUID заметки, присваивается хранилищем при создании
	FolderID  string    // UUID папки, к которой относится заметка
	Title     string    // Заголовок заметки
	Content   string    // Содержание заметки
	OwnerID   string    // Идентификатор пользователя-владельца
	CreatedAt time.Time // Дата создания
	UpdatedAt time.Time // Дата последнего обновления
}

// Validate проверяет валидность заметки: заголовок и содержание
// не должны быть пустыми после обрезки пробелов
func (n *Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return errors.New("title cannot be empty")
	}
	if strings.TrimSpace(n.Content) == "" {
		return errors.New("content cannot be empty")
	}
	return nil
}

// IsEmpty проверяет, пуста ли заметка
func (n *Note) IsEmpty() bool {
	return n.ID == "" && n.Title == "" && n.Content == ""
}
