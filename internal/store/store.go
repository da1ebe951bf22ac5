package store

import (
	"context"
	"errors"

	"notes-sync/internal/model"
)

// ErrFolderNotFound возвращается, когда папка не найдена
var ErrFolderNotFound = errors.New("folder not found")

// ErrNoteNotFound возвращается, когда заметка не найдена
var ErrNoteNotFound = errors.New("note not found")

// ErrPermissionDenied возвращается, когда для владельца ресурса
// отсутствует запись прав с разрешением на редактирование
var ErrPermissionDenied = errors.New("permission denied")

// NoteFields содержит изменяемые поля заметки для операции обновления.
// Папка и владелец неизменяемы после создания
type NoteFields struct {
	Title   string
	Content string
}

// Store интерфейс удаленного хранилища документов, с которым
// работает ядро синхронизации. Реализации создают запись прав
// для создателя при создании папки или заметки и проверяют право
// редактирования при изменяющих операциях.
//
// Все операции синхронные; асинхронность запросов обеспечивает
// вызывающая сторона (горутины сессии)
type Store interface {
	// CreateFolder создает новую папку и возвращает созданную папку с ID
	CreateFolder(ctx context.Context, folder model.Folder) (model.Folder, error)

	// QueryFolders возвращает все папки пользователя
	QueryFolders(ctx context.Context, ownerID string) ([]model.Folder, error)

	// QueryFoldersByName возвращает папки пользователя с указанным именем,
	// не более limit результатов (limit <= 0 означает без ограничения)
	QueryFoldersByName(ctx context.Context, ownerID, name string, limit int) ([]model.Folder, error)

	// RenameFolder изменяет имя существующей папки
	RenameFolder(ctx context.Context, folderID, newName string) error

	// DeleteFolder удаляет папку по ID
	DeleteFolder(ctx context.Context, folderID string) error

	// CreateNote создает новую заметку и возвращает созданную заметку с ID
	CreateNote(ctx context.Context, note model.Note) (model.Note, error)

	// QueryNotes возвращает заметки пользователя в указанной папке
	QueryNotes(ctx context.Context, ownerID, folderID string) ([]model.Note, error)

	// QueryAllNotes возвращает все заметки пользователя независимо от папки
	QueryAllNotes(ctx context.Context, ownerID string) ([]model.Note, error)

	// GetNoteByID возвращает заметку по её ID
	GetNoteByID(ctx context.Context, noteID string) (model.Note, error)

	// UpdateNote обновляет изменяемые поля существующей заметки
	UpdateNote(ctx context.Context, noteID string, fields NoteFields) error

	// DeleteNote удаляет заметку по ID
	DeleteNote(ctx context.Context, noteID string) error

	// BatchDeleteNotes удаляет набор заметок одной операцией.
	// Либо удаляются все, либо ни одной
	BatchDeleteNotes(ctx context.Context, noteIDs []string) error

	// SetPermission записывает права доступа к ресурсу для пользователя
	SetPermission(ctx context.Context, resourceID, userID string, perm model.Permission) error
}
