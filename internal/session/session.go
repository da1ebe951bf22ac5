package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"notes-sync/internal/auth"
	"notes-sync/internal/model"
	"notes-sync/internal/observable"
	"notes-sync/internal/store"

	"go.uber.org/zap"
)

// ErrNoUser возвращается операциями, требующими аутентифицированного пользователя
var ErrNoUser = errors.New("no authenticated user")

// ErrDefaultFolderProtected возвращается при попытке переименовать
// или удалить папку по умолчанию
var ErrDefaultFolderProtected = errors.New("default folder is protected")

// ErrNothingSelected возвращается операциями над текущим выбором,
// когда папка или заметка не выбрана
var ErrNothingSelected = errors.New("nothing selected")

// Session ядро синхронизации: владеет опубликованным состоянием сессии
// пользователя и проводит все мутации через удаленное хранилище.
//
// Все операции неблокирующие: каждый удаленный вызов выполняется
// в собственной горутине, результат публикуется в наблюдаемые значения.
// Упорядочивание между независимыми операциями не гарантируется,
// кроме отбрасывания устаревших результатов выборки заметок
// по счетчику поколений (см. fetchNotes)
type Session struct {
	store  store.Store
	auth   auth.Provider
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu              sync.Mutex
	userID          string
	defaultFolderID string
	notesGen        uint64 // Счетчик поколений выборки заметок, растет при каждом выборе папки и смене пользователя
	foldersGen      uint64 // Счетчик поколений выборки папок, растет при смене пользователя
	inflight        int    // Количество незавершенных удаленных вызовов

	// Опубликованное состояние: единственный писатель — сессия,
	// читатели — подписчики слоя представления
	CurrentUserID   *observable.Value[string]
	SelectedFolder  *observable.Value[*model.Folder]
	SelectedNote    *observable.Value[*model.Note]
	Folders         *observable.Value[[]model.Folder]
	Notes           *observable.Value[[]model.Note]
	DefaultFolderID *observable.Value[string]
	Loading         *observable.Value[bool]
	Status          *observable.Value[string]
}

// New создает новую сессию с указанными коллабораторами.
// Сессия конструируется один раз; вход заполняет её состояние,
// выход сбрасывает (см. OnAuthChanged)
func New(st store.Store, provider auth.Provider, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		store:  st,
		auth:   provider,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,

		CurrentUserID:   observable.New(""),
		SelectedFolder:  observable.New[*model.Folder](nil),
		SelectedNote:    observable.New[*model.Note](nil),
		Folders:         observable.New([]model.Folder{}),
		Notes:           observable.New([]model.Note{}),
		DefaultFolderID: observable.New(""),
		Loading:         observable.New(false),
		Status:          observable.New(""),
	}
}

// Listen запускает горутину, транслирующую события провайдера
// аутентификации в OnAuthChanged. Останавливается при закрытии
// канала событий или завершении сессии
func (s *Session) Listen() {
	go func() {
		for {
			select {
			case <-s.ctx.Done():
				return
			case ev, ok := <-s.auth.Events():
				if !ok {
					return
				}
				s.OnAuthChanged(ev.User)
			}
		}
	}()
}

// OnAuthChanged обрабатывает смену пользователя.
// Новый пользователь: инициализация зависимых от пользователя данных.
// Выход (user == nil): сброс локального состояния и сигнал провайдеру
// о завершении выхода. Удаленные данные при выходе не трогаются
func (s *Session) OnAuthChanged(user *model.User) {
	if user != nil {
		s.mu.Lock()
		if s.userID == user.ID {
			s.mu.Unlock()
			return
		}
		s.userID = user.ID
		// Вытесняем незавершенные выборки предыдущего пользователя:
		// их поздние результаты не должны попасть в новую сессию
		s.notesGen++
		s.foldersGen++
		s.mu.Unlock()

		s.logger.Info("user logged in", zap.String("userId", user.ID))
		s.CurrentUserID.Set(user.ID)

		s.EnsureDefaultFolder()
		s.FetchFolders()
		if folder := s.SelectedFolder.Get(); folder != nil {
			s.fetchNotes(folder.ID, s.currentGen())
		}
		return
	}

	s.mu.Lock()
	if s.userID == "" {
		// Уже разлогинены, повторный сигнал игнорируем
		s.mu.Unlock()
		return
	}
	s.userID = ""
	s.defaultFolderID = ""
	// Вытесняем незавершенные выборки: их поздние результаты
	// не должны пережить сброс состояния при выходе
	s.notesGen++
	s.foldersGen++
	s.mu.Unlock()

	s.CurrentUserID.Set("")
	s.Folders.Set([]model.Folder{})
	s.Notes.Set([]model.Note{})
	s.SelectedFolder.Set(nil)
	s.SelectedNote.Set(nil)
	s.DefaultFolderID.Set("")

	s.auth.Logout()
	s.logger.Info("user logged out, cleared session state")
}

// Wait блокирует до завершения всех незавершенных удаленных вызовов
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close завершает сессию: отменяет контекст удаленных вызовов
// и дожидается их завершения
func (s *Session) Close() {
	s.cancel()
	s.wg.Wait()
}

// ConsumeStatus возвращает последнее сообщение о результате операции
// и сразу очищает его, чтобы оно не показывалось повторно
// при несвязанных обновлениях состояния
func (s *Session) ConsumeStatus() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.Status.Get()
	if msg != "" {
		s.Status.Set("")
	}
	return msg
}

// currentUser возвращает идентификатор текущего пользователя
func (s *Session) currentUser() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// defaultFolder возвращает идентификатор папки по умолчанию
func (s *Session) defaultFolder() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaultFolderID
}

// currentGen возвращает текущее поколение выборки заметок.
// Обновления для выбранной папки захватывают текущее поколение,
// чтобы более поздний выбор другой папки их вытеснял
func (s *Session) currentGen() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notesGen
}

// bumpGen инкрементирует поколение выборки заметок.
// Вызывается при каждом выборе папки
func (s *Session) bumpGen() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notesGen++
	return s.notesGen
}

// currentFoldersGen возвращает текущее поколение выборки папок.
// Выборки захватывают его при запуске, чтобы смена пользователя
// их вытесняла
func (s *Session) currentFoldersGen() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.foldersGen
}

// publishFolders публикует список папок, если поколение gen все еще
// актуально. Устаревший результат молча отбрасывается
func (s *Session) publishFolders(gen uint64, folders []model.Folder) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.foldersGen {
		return false
	}
	s.Folders.Set(folders)
	return true
}

// publishNotes публикует список заметок, если поколение gen все еще
// актуально. Устаревший результат молча отбрасывается: иначе поздно
// пришедшая выборка для уже не выбранной папки перезаписала бы
// более свежее состояние
func (s *Session) publishNotes(gen uint64, notes []model.Note) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.notesGen {
		return false
	}
	s.Notes.Set(notes)
	return true
}

// setStatus публикует сообщение о результате операции.
// Публикация под мьютексом, чтобы сообщение не потерялось между
// чтением и очисткой в ConsumeStatus
func (s *Session) setStatus(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status.Set(msg)
}

// async выполняет удаленную операцию в отдельной горутине,
// отслеживая её в счетчике незавершенных вызовов и во флаге Loading
func (s *Session) async(op string, fn func(ctx context.Context)) {
	s.beginOp()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.endOp()

		start := time.Now()
		fn(s.ctx)
		s.logger.Debug("operation finished",
			zap.String("op", op),
			zap.Duration("duration", time.Since(start)))
	}()
}

// beginOp отмечает начало удаленного вызова.
// Loading поднимается при первом незавершенном вызове
func (s *Session) beginOp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight++
	if s.inflight == 1 {
		// Публикация под мьютексом, чтобы порядок true/false соответствовал
		// порядку изменения счетчика
		s.Loading.Set(true)
	}
}

// endOp отмечает завершение удаленного вызова.
// Loading опускается, когда незавершенных вызовов не осталось
func (s *Session) endOp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if s.inflight == 0 {
		s.Loading.Set(false)
	}
}
