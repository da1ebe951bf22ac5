package memory

import (
	"context"
	"sync"
	"time"

	"notes-sync/internal/model"
	"notes-sync/internal/store"

	"github.com/google/uuid"
)

var _ store.Store = (*memStore)(nil)

type memStore struct {
	mu      sync.RWMutex
	folders map[string]model.Folder
	notes   map[string]model.Note
	perms   map[string]model.Permission // ключ: resourceID + "/" + userID
}

// NewStore создает новый экземпляр in-memory хранилища на основе map.
// Используется в тестах и в демо-режиме без персистентности
func NewStore() store.Store {
	return &memStore{
		folders: make(map[string]model.Folder),
		notes:   make(map[string]model.Note),
		perms:   make(map[string]model.Permission),
	}
}

func permKey(resourceID, userID string) string {
	return resourceID + "/" + userID
}

// canEdit проверяет наличие у пользователя права редактирования ресурса.
// Вызывается под мьютексом
func (s *memStore) canEdit(resourceID, userID string) bool {
	perm, ok := s.perms[permKey(resourceID, userID)]
	return ok && perm.CanEdit
}

// CreateFolder создает новую папку и возвращает созданную папку с ID.
// Права создателя записываются в той же операции
func (s *memStore) CreateFolder(ctx context.Context, folder model.Folder) (model.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Генерируем UUID если не передан
	if folder.ID == "" {
		folder.ID = uuid.New().String()
	}

	// Устанавливаем временные метки
	now := time.Now()
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = now
	}
	folder.UpdatedAt = now

	s.folders[folder.ID] = folder
	s.perms[permKey(folder.ID, folder.OwnerID)] = model.Permission{CanEdit: true, CanView: true}

	return folder, nil
}

// QueryFolders возвращает все папки пользователя
func (s *memStore) QueryFolders(ctx context.Context, ownerID string) ([]model.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	folders := make([]model.Folder, 0, len(s.folders))
	for _, folder := range s.folders {
		if folder.OwnerID == ownerID {
			folders = append(folders, folder)
		}
	}

	return folders, nil
}

// QueryFoldersByName возвращает папки пользователя с указанным именем,
// не более limit результатов
func (s *memStore) QueryFoldersByName(ctx context.Context, ownerID, name string, limit int) ([]model.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var folders []model.Folder
	for _, folder := range s.folders {
		if folder.OwnerID == ownerID && folder.Name == name {
			folders = append(folders, folder)
			if limit > 0 && len(folders) >= limit {
				break
			}
		}
	}

	return folders, nil
}

// RenameFolder изменяет имя существующей папки
func (s *memStore) RenameFolder(ctx context.Context, folderID, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	folder, exists := s.folders[folderID]
	if !exists {
		return store.ErrFolderNotFound
	}
	if !s.canEdit(folderID, folder.OwnerID) {
		return store.ErrPermissionDenied
	}

	folder.Name = newName
	folder.UpdatedAt = time.Now()
	s.folders[folderID] = folder

	return nil
}

// DeleteFolder удаляет папку по ID
func (s *memStore) DeleteFolder(ctx context.Context, folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	folder, exists := s.folders[folderID]
	if !exists {
		return store.ErrFolderNotFound
	}
	if !s.canEdit(folderID, folder.OwnerID) {
		return store.ErrPermissionDenied
	}

	delete(s.folders, folderID)

	return nil
}

// CreateNote создает новую заметку и возвращает созданную заметку с ID.
// Права создателя записываются в той же операции
func (s *memStore) CreateNote(ctx context.Context, note model.Note) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note.ID == "" {
		note.ID = uuid.New().String()
	}

	now := time.Now()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now

	s.notes[note.ID] = note
	s.perms[permKey(note.ID, note.OwnerID)] = model.Permission{CanEdit: true, CanView: true}

	return note, nil
}

// QueryNotes возвращает заметки пользователя в указанной папке
func (s *memStore) QueryNotes(ctx context.Context, ownerID, folderID string) ([]model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var notes []model.Note
	for _, note := range s.notes {
		if note.OwnerID == ownerID && note.FolderID == folderID {
			notes = append(notes, note)
		}
	}

	return notes, nil
}

// QueryAllNotes возвращает все заметки пользователя независимо от папки
func (s *memStore) QueryAllNotes(ctx context.Context, ownerID string) ([]model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var notes []model.Note
	for _, note := range s.notes {
		if note.OwnerID == ownerID {
			notes = append(notes, note)
		}
	}

	return notes, nil
}

// GetNoteByID возвращает заметку по её ID
func (s *memStore) GetNoteByID(ctx context.Context, noteID string) (model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	note, exists := s.notes[noteID]
	if !exists {
		return model.Note{}, store.ErrNoteNotFound
	}

	return note, nil
}

// UpdateNote обновляет изменяемые поля существующей заметки
func (s *memStore) UpdateNote(ctx context.Context, noteID string, fields store.NoteFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, exists := s.notes[noteID]
	if !exists {
		return store.ErrNoteNotFound
	}
	if !s.canEdit(noteID, note.OwnerID) {
		return store.ErrPermissionDenied
	}

	note.Title = fields.Title
	note.Content = fields.Content
	note.UpdatedAt = time.Now()
	s.notes[noteID] = note

	return nil
}

// DeleteNote удаляет заметку по ID
func (s *memStore) DeleteNote(ctx context.Context, noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, exists := s.notes[noteID]
	if !exists {
		return store.ErrNoteNotFound
	}
	if !s.canEdit(noteID, note.OwnerID) {
		return store.ErrPermissionDenied
	}

	delete(s.notes, noteID)

	return nil
}

// BatchDeleteNotes удаляет набор заметок одной операцией.
// Перед удалением проверяется существование и права на каждую заметку,
// поэтому либо удаляются все, либо ни одной
func (s *memStore) BatchDeleteNotes(ctx context.Context, noteIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range noteIDs {
		note, exists := s.notes[id]
		if !exists {
			return store.ErrNoteNotFound
		}
		if !s.canEdit(id, note.OwnerID) {
			return store.ErrPermissionDenied
		}
	}

	for _, id := range noteIDs {
		delete(s.notes, id)
	}

	return nil
}

// SetPermission записывает права доступа к ресурсу для пользователя
func (s *memStore) SetPermission(ctx context.Context, resourceID, userID string, perm model.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.perms[permKey(resourceID, userID)] = perm

	return nil
}
