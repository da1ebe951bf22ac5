package memory

import (
	"context"
	"errors"
	"testing"

	"notes-sync/internal/model"
	"notes-sync/internal/store"
)

func TestCreateFolder_AssignsIDAndTimestamps(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	folder, err := s.CreateFolder(ctx, model.Folder{Name: "Work", OwnerID: "u1"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if folder.ID == "" {
		t.Error("Expected folder to have ID")
	}
	if folder.CreatedAt.IsZero() {
		t.Error("Expected folder to have CreatedAt")
	}
	if folder.UpdatedAt.IsZero() {
		t.Error("Expected folder to have UpdatedAt")
	}
}

func TestCreateFolder_GrantsCreatorPermission(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	folder, err := s.CreateFolder(ctx, model.Folder{Name: "Work", OwnerID: "u1"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Создатель может сразу переименовать папку
	if err := s.RenameFolder(ctx, folder.ID, "Projects"); err != nil {
		t.Fatalf("Expected rename to succeed for creator, got: %v", err)
	}
}

func TestQueryFolders_OwnerScoped(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if _, err := s.CreateFolder(ctx, model.Folder{Name: "Mine", OwnerID: "u1"}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, err := s.CreateFolder(ctx, model.Folder{Name: "Other", OwnerID: "u2"}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	folders, err := s.QueryFolders(ctx, "u1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(folders) != 1 {
		t.Fatalf("Expected 1 folder, got %d", len(folders))
	}
	if folders[0].Name != "Mine" {
		t.Errorf("Expected folder %q, got %q", "Mine", folders[0].Name)
	}
}

func TestQueryFoldersByName_Limit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	for i := 0; i < 3; i++ {
		if _, err := s.CreateFolder(ctx, model.Folder{Name: "Default", OwnerID: "u1"}); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
	}

	folders, err := s.QueryFoldersByName(ctx, "u1", "Default", 1)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(folders) != 1 {
		t.Errorf("Expected 1 folder with limit 1, got %d", len(folders))
	}
}

func TestRenameFolder_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.RenameFolder(ctx, "missing", "New Name")
	if !errors.Is(err, store.ErrFolderNotFound) {
		t.Errorf("Expected ErrFolderNotFound, got: %v", err)
	}
}

func TestRenameFolder_PermissionDenied(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	folder, err := s.CreateFolder(ctx, model.Folder{Name: "Work", OwnerID: "u1"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Отзываем право редактирования у владельца
	err = s.SetPermission(ctx, folder.ID, "u1", model.Permission{CanEdit: false, CanView: true})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	err = s.RenameFolder(ctx, folder.ID, "Projects")
	if !errors.Is(err, store.ErrPermissionDenied) {
		t.Errorf("Expected ErrPermissionDenied, got: %v", err)
	}
}

func TestNote_CreateGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	note, err := s.CreateNote(ctx, model.Note{
		FolderID: "f1",
		Title:    "Groceries",
		Content:  "milk, eggs",
		OwnerID:  "u1",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if note.ID == "" {
		t.Fatal("Expected note to have ID")
	}

	got, err := s.GetNoteByID(ctx, note.ID)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got.Title != "Groceries" {
		t.Errorf("Expected title %q, got %q", "Groceries", got.Title)
	}

	err = s.UpdateNote(ctx, note.ID, store.NoteFields{Title: "Shopping", Content: "bread"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	got, err = s.GetNoteByID(ctx, note.ID)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got.Title != "Shopping" || got.Content != "bread" {
		t.Errorf("Expected updated fields, got title=%q content=%q", got.Title, got.Content)
	}
	if !got.UpdatedAt.After(note.UpdatedAt) && !got.UpdatedAt.Equal(note.UpdatedAt) {
		t.Error("Expected UpdatedAt to move forward")
	}

	if err := s.DeleteNote(ctx, note.ID); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, err := s.GetNoteByID(ctx, note.ID); !errors.Is(err, store.ErrNoteNotFound) {
		t.Errorf("Expected ErrNoteNotFound after delete, got: %v", err)
	}
}

func TestQueryNotes_FolderScoped(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if _, err := s.CreateNote(ctx, model.Note{FolderID: "f1", Title: "A", Content: "a", OwnerID: "u1"}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, err := s.CreateNote(ctx, model.Note{FolderID: "f2", Title: "B", Content: "b", OwnerID: "u1"}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, err := s.CreateNote(ctx, model.Note{FolderID: "f1", Title: "C", Content: "c", OwnerID: "u2"}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	notes, err := s.QueryNotes(ctx, "u1", "f1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("Expected 1 note, got %d", len(notes))
	}
	if notes[0].Title != "A" {
		t.Errorf("Expected note %q, got %q", "A", notes[0].Title)
	}

	all, err := s.QueryAllNotes(ctx, "u1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 notes for user, got %d", len(all))
	}
}

func TestBatchDeleteNotes_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	first, err := s.CreateNote(ctx, model.Note{FolderID: "f1", Title: "A", Content: "a", OwnerID: "u1"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	second, err := s.CreateNote(ctx, model.Note{FolderID: "f1", Title: "B", Content: "b", OwnerID: "u1"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Пакет с несуществующим ID не должен удалить ничего
	err = s.BatchDeleteNotes(ctx, []string{first.ID, "missing"})
	if !errors.Is(err, store.ErrNoteNotFound) {
		t.Fatalf("Expected ErrNoteNotFound, got: %v", err)
	}
	if _, err := s.GetNoteByID(ctx, first.ID); err != nil {
		t.Errorf("Expected first note to survive failed batch, got: %v", err)
	}

	err = s.BatchDeleteNotes(ctx, []string{first.ID, second.ID})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	notes, err := s.QueryNotes(ctx, "u1", "f1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("Expected 0 notes after batch delete, got %d", len(notes))
	}
}

func TestBatchDeleteNotes_Empty(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if err := s.BatchDeleteNotes(ctx, nil); err != nil {
		t.Errorf("Expected no error for empty batch, got: %v", err)
	}
}

func TestDeleteNote_PermissionDenied(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	note, err := s.CreateNote(ctx, model.Note{FolderID: "f1", Title: "A", Content: "a", OwnerID: "u1"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	err = s.SetPermission(ctx, note.ID, "u1", model.Permission{CanEdit: false, CanView: true})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	err = s.DeleteNote(ctx, note.ID)
	if !errors.Is(err, store.ErrPermissionDenied) {
		t.Errorf("Expected ErrPermissionDenied, got: %v", err)
	}
}
