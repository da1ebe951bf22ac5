package session

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"notes-sync/internal/model"
)

// Свойство ограждения: при любой последовательности выборов папок
// и любом порядке завершения их выборок публикуются только заметки
// последней выбранной папки
func TestProperty_FencingPublishesOnlyLastSelection(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	type pendingFetch struct {
		folderID string
		release  chan struct{}
	}

	properties.Property("only the last selected folder's notes survive", prop.ForAll(
		func(selections int, seed int64) bool {
			started := make(chan pendingFetch, selections)
			st := &stubStore{
				queryNotesFunc: func(ctx context.Context, ownerID, folderID string) ([]model.Note, error) {
					release := make(chan struct{})
					started <- pendingFetch{folderID: folderID, release: release}
					<-release
					return []model.Note{{ID: "note-" + folderID, FolderID: folderID}}, nil
				},
			}
			sess := newStubSession(st)

			// Каждый выбор вытесняет предыдущий, все выборки зависают
			pending := make([]pendingFetch, 0, selections)
			for i := 0; i < selections; i++ {
				sess.SelectFolder(model.Folder{ID: fmt.Sprintf("f%d", i)})
				pending = append(pending, <-started)
			}
			lastID := fmt.Sprintf("f%d", selections-1)

			// Завершаем выборки в случайном порядке
			rng := rand.New(rand.NewSource(seed))
			for _, idx := range rng.Perm(len(pending)) {
				close(pending[idx].release)
			}
			sess.Wait()

			notes := sess.Notes.Get()
			if len(notes) != 1 {
				t.Logf("expected exactly one published note, got %d", len(notes))
				return false
			}
			if notes[0].FolderID != lastID {
				t.Logf("published notes of %s, want %s", notes[0].FolderID, lastID)
				return false
			}
			return true
		},
		gen.IntRange(2, 6),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
