package store

import (
	"context"

	"notes-sync/internal/model"

	"golang.org/x/time/rate"
)

var _ Store = (*rateLimited)(nil)

// rateLimited декоратор, ограничивающий частоту обращений
// к удаленному хранилищу (rate limiting)
type rateLimited struct {
	next    Store
	limiter *rate.Limiter
}

// WithRateLimit оборачивает хранилище ограничителем исходящих запросов.
// rps - запросов в секунду, burst - разрешает кратковременные всплески.
// Вызовы ждут свободный токен с учетом отмены контекста
func WithRateLimit(next Store, rps int, burst int) Store {
	// Значения по умолчанию если не указаны
	if rps <= 0 {
		rps = 100
	}
	if burst <= 0 {
		burst = 10
	}

	return &rateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *rateLimited) CreateFolder(ctx context.Context, folder model.Folder) (model.Folder, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return model.Folder{}, err
	}
	return r.next.CreateFolder(ctx, folder)
}

func (r *rateLimited) QueryFolders(ctx context.Context, ownerID string) ([]model.Folder, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.QueryFolders(ctx, ownerID)
}

func (r *rateLimited) QueryFoldersByName(ctx context.Context, ownerID, name string, limit int) ([]model.Folder, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.QueryFoldersByName(ctx, ownerID, name, limit)
}

func (r *rateLimited) RenameFolder(ctx context.Context, folderID, newName string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.next.RenameFolder(ctx, folderID, newName)
}

func (r *rateLimited) DeleteFolder(ctx context.Context, folderID string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.next.DeleteFolder(ctx, folderID)
}

func (r *rateLimited) CreateNote(ctx context.Context, note model.Note) (model.Note, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return model.Note{}, err
	}
	return r.next.CreateNote(ctx, note)
}

func (r *rateLimited) QueryNotes(ctx context.Context, ownerID, folderID string) ([]model.Note, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.QueryNotes(ctx, ownerID, folderID)
}

func (r *rateLimited) QueryAllNotes(ctx context.Context, ownerID string) ([]model.Note, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.QueryAllNotes(ctx, ownerID)
}

func (r *rateLimited) GetNoteByID(ctx context.Context, noteID string) (model.Note, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return model.Note{}, err
	}
	return r.next.GetNoteByID(ctx, noteID)
}

func (r *rateLimited) UpdateNote(ctx context.Context, noteID string, fields NoteFields) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.next.UpdateNote(ctx, noteID, fields)
}

func (r *rateLimited) DeleteNote(ctx context.Context, noteID string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.next.DeleteNote(ctx, noteID)
}

func (r *rateLimited) BatchDeleteNotes(ctx context.Context, noteIDs []string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.next.BatchDeleteNotes(ctx, noteIDs)
}

func (r *rateLimited) SetPermission(ctx context.Context, resourceID, userID string, perm model.Permission) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.next.SetPermission(ctx, resourceID, userID, perm)
}
