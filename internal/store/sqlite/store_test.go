package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"notes-sync/internal/model"
	"notes-sync/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("Expected store to open, got: %v", err)
	}
	return s
}

func TestSQLite_FolderRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created, err := s.CreateFolder(ctx, model.Folder{Name: "Work", OwnerID: "u1"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Expected folder to have ID")
	}

	folders, err := s.QueryFolders(ctx, "u1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(folders) != 1 || folders[0].Name != "Work" {
		t.Fatalf("Expected single folder %q, got %+v", "Work", folders)
	}

	if err := s.RenameFolder(ctx, created.ID, "Projects"); err != nil {
		t.Fatalf("Expected rename to succeed, got: %v", err)
	}

	byName, err := s.QueryFoldersByName(ctx, "u1", "Projects", 1)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(byName) != 1 {
		t.Fatalf("Expected renamed folder to be found, got %+v", byName)
	}

	if err := s.DeleteFolder(ctx, created.ID); err != nil {
		t.Fatalf("Expected delete to succeed, got: %v", err)
	}
	if err := s.RenameFolder(ctx, created.ID, "Gone"); !errors.Is(err, store.ErrFolderNotFound) {
		t.Errorf("Expected ErrFolderNotFound after delete, got: %v", err)
	}
}

func TestSQLite_NoteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	note, err := s.CreateNote(ctx, model.Note{
		FolderID: "f1",
		Title:    "Groceries",
		Content:  "milk, eggs",
		OwnerID:  "u1",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if err := s.UpdateNote(ctx, note.ID, store.NoteFields{Title: "Shopping", Content: "bread"}); err != nil {
		t.Fatalf("Expected update to succeed, got: %v", err)
	}

	got, err := s.GetNoteByID(ctx, note.ID)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got.Title != "Shopping" || got.Content != "bread" {
		t.Errorf("Expected updated fields, got title=%q content=%q", got.Title, got.Content)
	}
	if got.FolderID != "f1" || got.OwnerID != "u1" {
		t.Errorf("Expected folder and owner to be immutable, got %+v", got)
	}

	notes, err := s.QueryNotes(ctx, "u1", "f1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("Expected 1 note, got %d", len(notes))
	}
}

func TestSQLite_BatchDeleteAtomic(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := s.CreateNote(ctx, model.Note{FolderID: "f1", Title: "A", Content: "a", OwnerID: "u1"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	second, err := s.CreateNote(ctx, model.Note{FolderID: "f1", Title: "B", Content: "b", OwnerID: "u1"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	err = s.BatchDeleteNotes(ctx, []string{first.ID, "missing"})
	if !errors.Is(err, store.ErrNoteNotFound) {
		t.Fatalf("Expected ErrNoteNotFound, got: %v", err)
	}
	if _, err := s.GetNoteByID(ctx, first.ID); err != nil {
		t.Errorf("Expected first note to survive failed batch, got: %v", err)
	}

	if err := s.BatchDeleteNotes(ctx, []string{first.ID, second.ID}); err != nil {
		t.Fatalf("Expected batch delete to succeed, got: %v", err)
	}
	notes, err := s.QueryNotes(ctx, "u1", "f1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("Expected 0 notes after batch delete, got %d", len(notes))
	}
}

func TestSQLite_PermissionDenied(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	folder, err := s.CreateFolder(ctx, model.Folder{Name: "Work", OwnerID: "u1"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Отзываем право редактирования у владельца
	if err := s.SetPermission(ctx, folder.ID, "u1", model.Permission{CanEdit: false, CanView: true}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if err := s.RenameFolder(ctx, folder.ID, "Projects"); !errors.Is(err, store.ErrPermissionDenied) {
		t.Errorf("Expected ErrPermissionDenied, got: %v", err)
	}
	if err := s.DeleteFolder(ctx, folder.ID); !errors.Is(err, store.ErrPermissionDenied) {
		t.Errorf("Expected ErrPermissionDenied, got: %v", err)
	}
}
