package auth

import (
	"sync"

	"notes-sync/internal/model"
)

// Event событие изменения состояния аутентификации.
// User == nil означает выход из системы
type Event struct {
	User *model.User
}

// Provider интерфейс внешнего провайдера аутентификации.
// Ядро синхронизации подписывается на события и сигнализирует
// о завершении выхода через Logout
type Provider interface {
	// Events возвращает канал событий входа/выхода
	Events() <-chan Event

	// Logout завершает сессию текущего пользователя
	Logout()
}

var _ Provider = (*StaticProvider)(nil)

// StaticProvider программно управляемый провайдер аутентификации.
// Используется в демо-оболочке и тестах вместо внешнего сервиса
type StaticProvider struct {
	mu     sync.Mutex
	events chan Event
	user   *model.User
}

// NewStaticProvider создает новый StaticProvider
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		events: make(chan Event, 10),
	}
}

// Events возвращает канал событий входа/выхода
func (p *StaticProvider) Events() <-chan Event {
	return p.events
}

// Login публикует событие входа указанного пользователя
func (p *StaticProvider) Login(user model.User) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.user = &user
	p.events <- Event{User: &user}
}

// Logout публикует событие выхода. Повторные вызовы игнорируются,
// чтобы сигнал ядра о завершении выхода не зацикливал события
func (p *StaticProvider) Logout() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.user == nil {
		return
	}
	p.user = nil
	p.events <- Event{User: nil}
}

// Close закрывает канал событий
func (p *StaticProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	close(p.events)
}
