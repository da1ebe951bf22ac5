package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notes-sync/internal/model"
	"notes-sync/internal/store"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// folderRow строка таблицы папок
type folderRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"index"`
	OwnerID   string `gorm:"index;column:owner_id"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (folderRow) TableName() string { return "folders" }

// noteRow строка таблицы заметок
type noteRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	FolderID  string `gorm:"index;column:folder_id"`
	Title     string
	Content   string
	OwnerID   string `gorm:"index;column:owner_id"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (noteRow) TableName() string { return "notes" }

// permissionRow строка таблицы прав, ключ (resource_id, user_id)
type permissionRow struct {
	ResourceID string `gorm:"primaryKey;size:36;column:resource_id"`
	UserID     string `gorm:"primaryKey;size:64;column:user_id"`
	CanEdit    bool
	CanView    bool
}

func (permissionRow) TableName() string { return "permissions" }

var _ store.Store = (*sqlStore)(nil)

type sqlStore struct {
	db *gorm.DB
}

// NewStore открывает базу SQLite по указанному пути и выполняет
// автомиграцию схемы. Драйвер чистый Go, cgo не требуется
func NewStore(path string) (store.Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}

	if err := db.AutoMigrate(&folderRow{}, &noteRow{}, &permissionRow{}); err != nil {
		return nil, fmt.Errorf("db.AutoMigrate: %w", err)
	}

	return &sqlStore{db: db}, nil
}

// canEdit проверяет наличие у пользователя права редактирования ресурса
func (s *sqlStore) canEdit(ctx context.Context, resourceID, userID string) error {
	var perm permissionRow
	err := s.db.WithContext(ctx).
		Where("resource_id = ? AND user_id = ?", resourceID, userID).
		First(&perm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrPermissionDenied
	}
	if err != nil {
		return fmt.Errorf("permission query: %w", err)
	}
	if !perm.CanEdit {
		return store.ErrPermissionDenied
	}
	return nil
}

// CreateFolder создает папку и запись прав создателя в одной транзакции
func (s *sqlStore) CreateFolder(ctx context.Context, folder model.Folder) (model.Folder, error) {
	if folder.ID == "" {
		folder.ID = uuid.New().String()
	}
	now := time.Now()
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = now
	}
	folder.UpdatedAt = now

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(folderToRow(folder)).Error; err != nil {
			return err
		}
		return tx.Create(&permissionRow{
			ResourceID: folder.ID,
			UserID:     folder.OwnerID,
			CanEdit:    true,
			CanView:    true,
		}).Error
	})
	if err != nil {
		return model.Folder{}, fmt.Errorf("create folder: %w", err)
	}

	return folder, nil
}

// QueryFolders возвращает все папки пользователя
func (s *sqlStore) QueryFolders(ctx context.Context, ownerID string) ([]model.Folder, error) {
	var rows []folderRow
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query folders: %w", err)
	}

	folders := make([]model.Folder, 0, len(rows))
	for _, row := range rows {
		folders = append(folders, rowToFolder(row))
	}
	return folders, nil
}

// QueryFoldersByName возвращает папки пользователя с указанным именем
func (s *sqlStore) QueryFoldersByName(ctx context.Context, ownerID, name string, limit int) ([]model.Folder, error) {
	q := s.db.WithContext(ctx).
		Where("owner_id = ? AND name = ?", ownerID, name).
		Order("created_at")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []folderRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query folders by name: %w", err)
	}

	folders := make([]model.Folder, 0, len(rows))
	for _, row := range rows {
		folders = append(folders, rowToFolder(row))
	}
	return folders, nil
}

// RenameFolder изменяет имя существующей папки
func (s *sqlStore) RenameFolder(ctx context.Context, folderID, newName string) error {
	var row folderRow
	err := s.db.WithContext(ctx).Where("id = ?", folderID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrFolderNotFound
	}
	if err != nil {
		return fmt.Errorf("rename folder: %w", err)
	}

	if err := s.canEdit(ctx, folderID, row.OwnerID); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Model(&folderRow{}).
		Where("id = ?", folderID).
		Updates(map[string]interface{}{
			"name":       newName,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("rename folder: %w", err)
	}
	return nil
}

// DeleteFolder удаляет папку по ID
func (s *sqlStore) DeleteFolder(ctx context.Context, folderID string) error {
	var row folderRow
	err := s.db.WithContext(ctx).Where("id = ?", folderID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrFolderNotFound
	}
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	if err := s.canEdit(ctx, folderID, row.OwnerID); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&folderRow{}, "id = ?", folderID).Error; err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	return nil
}

// CreateNote создает заметку и запись прав создателя в одной транзакции
func (s *sqlStore) CreateNote(ctx context.Context, note model.Note) (model.Note, error) {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	now := time.Now()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(noteToRow(note)).Error; err != nil {
			return err
		}
		return tx.Create(&permissionRow{
			ResourceID: note.ID,
			UserID:     note.OwnerID,
			CanEdit:    true,
			CanView:    true,
		}).Error
	})
	if err != nil {
		return model.Note{}, fmt.Errorf("create note: %w", err)
	}

	return note, nil
}

// QueryNotes возвращает заметки пользователя в указанной папке
func (s *sqlStore) QueryNotes(ctx context.Context, ownerID, folderID string) ([]model.Note, error) {
	var rows []noteRow
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND folder_id = ?", ownerID, folderID).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}

	notes := make([]model.Note, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, rowToNote(row))
	}
	return notes, nil
}

// QueryAllNotes возвращает все заметки пользователя
func (s *sqlStore) QueryAllNotes(ctx context.Context, ownerID string) ([]model.Note, error) {
	var rows []noteRow
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query all notes: %w", err)
	}

	notes := make([]model.Note, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, rowToNote(row))
	}
	return notes, nil
}

// GetNoteByID возвращает заметку по её ID
func (s *sqlStore) GetNoteByID(ctx context.Context, noteID string) (model.Note, error) {
	var row noteRow
	err := s.db.WithContext(ctx).Where("id = ?", noteID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Note{}, store.ErrNoteNotFound
	}
	if err != nil {
		return model.Note{}, fmt.Errorf("get note: %w", err)
	}
	return rowToNote(row), nil
}

// UpdateNote обновляет изменяемые поля существующей заметки
func (s *sqlStore) UpdateNote(ctx context.Context, noteID string, fields store.NoteFields) error {
	var row noteRow
	err := s.db.WithContext(ctx).Where("id = ?", noteID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNoteNotFound
	}
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}

	if err := s.canEdit(ctx, noteID, row.OwnerID); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Model(&noteRow{}).
		Where("id = ?", noteID).
		Updates(map[string]interface{}{
			"title":      fields.Title,
			"content":    fields.Content,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

// DeleteNote удаляет заметку по ID
func (s *sqlStore) DeleteNote(ctx context.Context, noteID string) error {
	var row noteRow
	err := s.db.WithContext(ctx).Where("id = ?", noteID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNoteNotFound
	}
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	if err := s.canEdit(ctx, noteID, row.OwnerID); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&noteRow{}, "id = ?", noteID).Error; err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// BatchDeleteNotes удаляет набор заметок в одной транзакции.
// Существование и права проверяются до удаления, поэтому
// либо удаляются все, либо ни одной
func (s *sqlStore) BatchDeleteNotes(ctx context.Context, noteIDs []string) error {
	if len(noteIDs) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []noteRow
		if err := tx.Where("id IN ?", noteIDs).Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) != len(noteIDs) {
			return store.ErrNoteNotFound
		}

		for _, row := range rows {
			var perm permissionRow
			err := tx.Where("resource_id = ? AND user_id = ?", row.ID, row.OwnerID).First(&perm).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrPermissionDenied
			}
			if err != nil {
				return err
			}
			if !perm.CanEdit {
				return store.ErrPermissionDenied
			}
		}

		return tx.Delete(&noteRow{}, "id IN ?", noteIDs).Error
	})
	if err != nil {
		if errors.Is(err, store.ErrNoteNotFound) || errors.Is(err, store.ErrPermissionDenied) {
			return err
		}
		return fmt.Errorf("batch delete notes: %w", err)
	}
	return nil
}

// SetPermission записывает права доступа к ресурсу для пользователя.
// Существующая запись перезаписывается
func (s *sqlStore) SetPermission(ctx context.Context, resourceID, userID string, perm model.Permission) error {
	row := permissionRow{
		ResourceID: resourceID,
		UserID:     userID,
		CanEdit:    perm.CanEdit,
		CanView:    perm.CanView,
	}
	err := s.db.WithContext(ctx).Save(&row).Error
	if err != nil {
		return fmt.Errorf("set permission: %w", err)
	}
	return nil
}

func folderToRow(folder model.Folder) *folderRow {
	return &folderRow{
		ID:        folder.ID,
		Name:      folder.Name,
		OwnerID:   folder.OwnerID,
		CreatedAt: folder.CreatedAt,
		UpdatedAt: folder.UpdatedAt,
	}
}

func rowToFolder(row folderRow) model.Folder {
	return model.Folder{
		ID:        row.ID,
		Name:      row.Name,
		OwnerID:   row.OwnerID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func noteToRow(note model.Note) *noteRow {
	return &noteRow{
		ID:        note.ID,
		FolderID:  note.FolderID,
		Title:     note.Title,
		Content:   note.Content,
		OwnerID:   note.OwnerID,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

func rowToNote(row noteRow) model.Note {
	return model.Note{
		ID:        row.ID,
		FolderID:  row.FolderID,
		Title:     row.Title,
		Content:   row.Content,
		OwnerID:   row.OwnerID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
