package session

import (
	"context"
	"errors"
	"strings"

	"notes-sync/internal/model"

	"go.uber.org/zap"
)

// Сообщения о результатах операций с папками.
// Тексты видны пользователю и показываются ровно один раз (см. ConsumeStatus)
const (
	msgFolderAdded         = "Folder added successfully"
	msgFolderAddFailed     = "Failed to add folder"
	msgFolderRenamed       = "Folder renamed successfully"
	msgFolderRenameFailed  = "Failed to rename folder"
	msgFolderDeleted       = "Folder deleted successfully"
	msgFolderDeleteFailed  = "Failed to delete folder"
	msgCannotRenameDefault = "Cannot Rename Default Folder."
	msgCannotDeleteDefault = "Cannot delete the default folder."
	msgFolderNameEmpty     = "Folder name cannot be empty"
	msgEnsureDefaultFailed = "Failed to ensure default folder"
	msgFetchFoldersFailed  = "Failed to fetch folders"
)

// EnsureDefaultFolder гарантирует существование папки по умолчанию
// у текущего пользователя: запрос по имени с лимитом 1, создание при
// отсутствии. Принятый ID публикуется в DefaultFolderID; если ничего
// не выбрано, папка по умолчанию становится выбранной.
//
// Семантика exactly-once — best-effort: проверка и создание
// не транзакционны относительно хранилища, гонка двух одновременных
// вызовов может создать две папки по умолчанию
func (s *Session) EnsureDefaultFolder() error {
	uid := s.currentUser()
	if uid == "" {
		return ErrNoUser
	}

	s.async("ensure default folder", func(ctx context.Context) {
		found, err := s.store.QueryFoldersByName(ctx, uid, model.DefaultFolderName, 1)
		if err != nil {
			s.logger.Warn("default folder query failed", zap.Error(err))
			s.setStatus(msgEnsureDefaultFailed)
			return
		}

		var folder model.Folder
		if len(found) == 0 {
			folder, err = s.store.CreateFolder(ctx, model.Folder{
				Name:    model.DefaultFolderName,
				OwnerID: uid,
			})
			if err != nil {
				s.logger.Warn("default folder create failed", zap.Error(err))
				s.setStatus(msgEnsureDefaultFailed)
				return
			}
			s.logger.Info("default folder created", zap.String("folderId", folder.ID))
		} else {
			folder = found[0]
		}

		s.mu.Lock()
		s.defaultFolderID = folder.ID
		s.mu.Unlock()
		s.DefaultFolderID.Set(folder.ID)

		if s.SelectedFolder.Get() == nil {
			s.SelectFolder(folder)
		}
	})

	return nil
}

// SelectFolder делает папку выбранной и запускает выборку её заметок.
// Выбор всегда вытесняет незавершенную выборку для предыдущей папки:
// поколение инкрементируется, и её поздний результат будет отброшен
func (s *Session) SelectFolder(folder model.Folder) {
	s.SelectedFolder.Set(&folder)
	gen := s.bumpGen()
	s.fetchNotes(folder.ID, gen)
}

// FetchFolders запрашивает папки текущего пользователя и публикует их.
// Папка по умолчанию отфильтровывается из списка: слой представления
// показывает её отдельно
func (s *Session) FetchFolders() error {
	uid := s.currentUser()
	if uid == "" {
		return ErrNoUser
	}

	gen := s.currentFoldersGen()
	s.async("fetch folders", func(ctx context.Context) {
		folders, err := s.store.QueryFolders(ctx, uid)
		if err != nil {
			s.logger.Warn("folders fetch failed", zap.Error(err))
			s.setStatus(msgFetchFoldersFailed)
			return
		}

		defaultID := s.defaultFolder()
		filtered := make([]model.Folder, 0, len(folders))
		for _, folder := range folders {
			if folder.ID == defaultID || folder.Name == model.DefaultFolderName {
				continue
			}
			filtered = append(filtered, folder)
		}

		if !s.publishFolders(gen, filtered) {
			s.logger.Debug("stale folders result dropped")
		}
	})

	return nil
}

// AddFolder создает новую папку с указанным именем.
// При успехе список папок обновляется и новая папка становится выбранной.
// Одновременные повторные вызовы не дедуплицируются: каждый вызов
// порождает независимое создание
func (s *Session) AddFolder(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		s.setStatus(msgFolderNameEmpty)
		return errors.New("name cannot be empty")
	}

	uid := s.currentUser()
	if uid == "" {
		return ErrNoUser
	}

	s.async("add folder", func(ctx context.Context) {
		created, err := s.store.CreateFolder(ctx, model.Folder{
			Name:    name,
			OwnerID: uid,
		})
		if err != nil {
			s.logger.Warn("folder create failed", zap.String("name", name), zap.Error(err))
			s.setStatus(msgFolderAddFailed)
			return
		}

		s.FetchFolders()
		s.SelectFolder(created)
		s.setStatus(msgFolderAdded)
	})

	return nil
}

// RenameFolder переименовывает папку.
// Папка по умолчанию защищена: попытка отклоняется без обращения
// к хранилищу с фиксированным сообщением, состояние не меняется
func (s *Session) RenameFolder(folderID, newName string) error {
	if folderID != "" && folderID == s.defaultFolder() {
		s.setStatus(msgCannotRenameDefault)
		return ErrDefaultFolderProtected
	}

	newName = strings.TrimSpace(newName)
	if newName == "" {
		s.setStatus(msgFolderNameEmpty)
		return errors.New("name cannot be empty")
	}

	if s.currentUser() == "" {
		return ErrNoUser
	}

	s.async("rename folder", func(ctx context.Context) {
		if err := s.store.RenameFolder(ctx, folderID, newName); err != nil {
			s.logger.Warn("folder rename failed", zap.String("folderId", folderID), zap.Error(err))
			s.setStatus(msgFolderRenameFailed)
			return
		}

		// Если переименована выбранная папка, публикуем её с новым именем
		if selected := s.SelectedFolder.Get(); selected != nil && selected.ID == folderID {
			updated := *selected
			updated.Name = newName
			s.SelectedFolder.Set(&updated)
		}

		s.FetchFolders()
		s.setStatus(msgFolderRenamed)
	})

	return nil
}

// RenameSelectedFolder переименовывает текущую выбранную папку
func (s *Session) RenameSelectedFolder(newName string) error {
	selected := s.SelectedFolder.Get()
	if selected == nil {
		return ErrNothingSelected
	}
	return s.RenameFolder(selected.ID, newName)
}

// DeleteFolder удаляет папку вместе со всеми её заметками.
// Двухфазно: сначала пакетное удаление заметок, затем сама папка.
// Если удаление заметок не удалось, папка не удаляется.
// Если заметки удалены, а папка нет — остается висячая пустая папка,
// это публикуется как ошибка без компенсирующей транзакции.
// Папка по умолчанию защищена так же, как в RenameFolder
func (s *Session) DeleteFolder(folderID string) error {
	if folderID != "" && folderID == s.defaultFolder() {
		s.setStatus(msgCannotDeleteDefault)
		return ErrDefaultFolderProtected
	}

	uid := s.currentUser()
	if uid == "" {
		return ErrNoUser
	}

	s.async("delete folder", func(ctx context.Context) {
		notes, err := s.store.QueryNotes(ctx, uid, folderID)
		if err != nil {
			s.logger.Warn("folder delete: notes query failed", zap.String("folderId", folderID), zap.Error(err))
			s.setStatus(msgFolderDeleteFailed)
			return
		}

		if len(notes) > 0 {
			ids := make([]string, 0, len(notes))
			for _, note := range notes {
				ids = append(ids, note.ID)
			}
			if err := s.store.BatchDeleteNotes(ctx, ids); err != nil {
				s.logger.Warn("folder delete: notes batch delete failed", zap.String("folderId", folderID), zap.Error(err))
				s.setStatus(msgFolderDeleteFailed)
				return
			}
		}

		if err := s.store.DeleteFolder(ctx, folderID); err != nil {
			// Заметки уже удалены: в хранилище осталась висячая пустая папка
			s.logger.Warn("folder delete failed after notes were deleted",
				zap.String("folderId", folderID), zap.Error(err))
			s.setStatus(msgFolderDeleteFailed)
			return
		}

		// Локально убираем папку из опубликованного списка
		current := s.Folders.Get()
		remaining := make([]model.Folder, 0, len(current))
		for _, folder := range current {
			if folder.ID != folderID {
				remaining = append(remaining, folder)
			}
		}
		s.Folders.Set(remaining)

		// Возвращаемся в папку по умолчанию
		if defaultID := s.defaultFolder(); defaultID != "" {
			s.SelectFolder(model.Folder{
				ID:      defaultID,
				Name:    model.DefaultFolderName,
				OwnerID: uid,
			})
		}

		s.setStatus(msgFolderDeleted)
	})

	return nil
}
