package session

import (
	"context"
	"errors"
	"strings"

	"notes-sync/internal/model"
	"notes-sync/internal/store"

	"go.uber.org/zap"
)

// Сообщения о результатах операций с заметками
const (
	msgNoteAdded        = "Note added successfully"
	msgNoteAddFailed    = "Failed to add note"
	msgNoteUpdated      = "Note updated successfully"
	msgNoteUpdateFailed = "Failed to update note"
	msgNoteDeleted      = "Note deleted successfully"
	msgNoteDeleteFailed = "Failed to delete note"
	msgNotesCleared     = "All notes in the folder deleted successfully"
	msgNotesClearFailed = "Failed to delete notes in folder"
	msgFetchNotesFailed = "Failed to fetch notes"
)

// FetchNotesForFolder запрашивает заметки указанной папки и публикует их.
// Выборка захватывает текущее поколение: если пользователь успеет
// выбрать другую папку, результат будет отброшен как устаревший
func (s *Session) FetchNotesForFolder(folderID string) error {
	if s.currentUser() == "" {
		return ErrNoUser
	}
	s.fetchNotes(folderID, s.currentGen())
	return nil
}

// FetchAllNotes запрашивает все заметки пользователя независимо от папки
func (s *Session) FetchAllNotes() error {
	uid := s.currentUser()
	if uid == "" {
		return ErrNoUser
	}

	gen := s.currentGen()
	s.async("fetch all notes", func(ctx context.Context) {
		notes, err := s.store.QueryAllNotes(ctx, uid)
		if err != nil {
			s.logger.Warn("all notes fetch failed", zap.Error(err))
			s.setStatus(msgFetchNotesFailed)
			return
		}
		if !s.publishNotes(gen, notes) {
			s.logger.Debug("stale all-notes result dropped")
		}
	})

	return nil
}

// fetchNotes выполняет выборку заметок папки под поколением gen.
// При ошибке публикуется сообщение, опубликованный список не меняется.
// Устаревший успешный результат молча отбрасывается
func (s *Session) fetchNotes(folderID string, gen uint64) {
	uid := s.currentUser()
	if uid == "" {
		return
	}

	s.async("fetch notes", func(ctx context.Context) {
		notes, err := s.store.QueryNotes(ctx, uid, folderID)
		if err != nil {
			s.logger.Warn("notes fetch failed", zap.String("folderId", folderID), zap.Error(err))
			s.setStatus(msgFetchNotesFailed)
			return
		}
		if !s.publishNotes(gen, notes) {
			s.logger.Debug("stale notes result dropped", zap.String("folderId", folderID))
		}
	})
}

// SelectNote делает заметку выбранной
func (s *Session) SelectNote(note model.Note) {
	s.SelectedNote.Set(&note)
}

// AddOrUpdateNote создает заметку (при пустом ID) или обновляет
// её изменяемые поля. Папка и владелец неизменяемы после создания.
// Пустые после обрезки заголовок или содержание отклоняются
// без обращения к хранилищу
func (s *Session) AddOrUpdateNote(note model.Note) error {
	note.Title = strings.TrimSpace(note.Title)
	note.Content = strings.TrimSpace(note.Content)
	if err := note.Validate(); err != nil {
		s.setStatus(err.Error())
		return err
	}

	uid := s.currentUser()
	if uid == "" {
		return ErrNoUser
	}

	if note.ID == "" {
		note.OwnerID = uid
		if note.FolderID == "" {
			selected := s.SelectedFolder.Get()
			if selected == nil {
				return ErrNothingSelected
			}
			note.FolderID = selected.ID
		}

		s.async("add note", func(ctx context.Context) {
			if _, err := s.store.CreateNote(ctx, note); err != nil {
				s.logger.Warn("note create failed", zap.String("title", note.Title), zap.Error(err))
				s.setStatus(msgNoteAddFailed)
				return
			}

			if selected := s.SelectedFolder.Get(); selected != nil {
				s.fetchNotes(selected.ID, s.currentGen())
			}
			s.setStatus(msgNoteAdded)
		})

		return nil
	}

	s.async("update note", func(ctx context.Context) {
		err := s.store.UpdateNote(ctx, note.ID, store.NoteFields{
			Title:   note.Title,
			Content: note.Content,
		})
		if err != nil {
			s.logger.Warn("note update failed", zap.String("noteId", note.ID), zap.Error(err))
			s.setStatus(msgNoteUpdateFailed)
			return
		}

		// Если обновлена выбранная заметка, перечитываем её свежую версию
		if selected := s.SelectedNote.Get(); selected != nil && selected.ID == note.ID {
			if fresh, err := s.store.GetNoteByID(ctx, note.ID); err == nil {
				s.SelectedNote.Set(&fresh)
			}
		}

		if selected := s.SelectedFolder.Get(); selected != nil {
			s.fetchNotes(selected.ID, s.currentGen())
		}
		s.setStatus(msgNoteUpdated)
	})

	return nil
}

// DeleteNote удаляет заметку по ID.
// При успехе заметка оптимистично убирается из опубликованного списка
// без ожидания подтвержденной сервером выборки, выбор заметки сбрасывается.
// При ошибке список не меняется
func (s *Session) DeleteNote(noteID string) error {
	if noteID == "" {
		return errors.New("id cannot be empty")
	}
	if s.currentUser() == "" {
		return ErrNoUser
	}

	s.async("delete note", func(ctx context.Context) {
		if err := s.store.DeleteNote(ctx, noteID); err != nil {
			s.logger.Warn("note delete failed", zap.String("noteId", noteID), zap.Error(err))
			s.setStatus(msgNoteDeleteFailed)
			return
		}

		current := s.Notes.Get()
		remaining := make([]model.Note, 0, len(current))
		for _, note := range current {
			if note.ID != noteID {
				remaining = append(remaining, note)
			}
		}
		s.Notes.Set(remaining)
		s.SelectedNote.Set(nil)
		s.setStatus(msgNoteDeleted)
	})

	return nil
}

// DeleteSelectedNote удаляет текущую выбранную заметку
func (s *Session) DeleteSelectedNote() error {
	selected := s.SelectedNote.Get()
	if selected == nil {
		return ErrNothingSelected
	}
	return s.DeleteNote(selected.ID)
}

// DeleteAllNotes пакетно удаляет все заметки текущей выбранной папки.
// При успехе заметки папки перечитываются (ожидаемо пустой список)
func (s *Session) DeleteAllNotes() error {
	selected := s.SelectedFolder.Get()
	if selected == nil {
		return ErrNothingSelected
	}

	uid := s.currentUser()
	if uid == "" {
		return ErrNoUser
	}

	folderID := selected.ID
	s.async("delete all notes", func(ctx context.Context) {
		notes, err := s.store.QueryNotes(ctx, uid, folderID)
		if err != nil {
			s.logger.Warn("clear notes: query failed", zap.String("folderId", folderID), zap.Error(err))
			s.setStatus(msgNotesClearFailed)
			return
		}

		if len(notes) > 0 {
			ids := make([]string, 0, len(notes))
			for _, note := range notes {
				ids = append(ids, note.ID)
			}
			if err := s.store.BatchDeleteNotes(ctx, ids); err != nil {
				s.logger.Warn("clear notes: batch delete failed", zap.String("folderId", folderID), zap.Error(err))
				s.setStatus(msgNotesClearFailed)
				return
			}
		}

		s.fetchNotes(folderID, s.currentGen())
		s.setStatus(msgNotesCleared)
	})

	return nil
}
