package observable

import (
	"sync"
)

// Value хранит последнее опубликованное значение и управляет
// подписчиками на его изменения. Значение всегда заменяется целиком,
// поэтому читатели никогда не наблюдают частично измененное состояние
type Value[T any] struct {
	mu          sync.RWMutex
	current     T
	subscribers map[chan T]bool
}

// New создает новый Value с начальным значением
func New[T any](initial T) *Value[T] {
	return &Value[T]{
		current:     initial,
		subscribers: make(map[chan T]bool),
	}
}

// Get возвращает последнее опубликованное значение
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Set публикует новое значение и рассылает его всем подписчикам
// Если канал подписчика переполнен, событие пропускается (защита от backpressure)
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = val
	for ch := range v.subscribers {
		select {
		case ch <- val:
			// Событие успешно отправлено
		default:
			// Канал переполнен, пропускаем (защита от backpressure)
		}
	}
}

// Subscribe добавляет нового подписчика и возвращает канал для получения
// изменений. Текущее значение сразу помещается в канал, чтобы подписчик
// начинал с последнего известного снимка
func (v *Value[T]) Subscribe() chan T {
	ch := make(chan T, 10) // Буферизованный канал для защиты от backpressure
	v.mu.Lock()
	defer v.mu.Unlock()
	v.subscribers[ch] = true
	ch <- v.current
	return ch
}

// Unsubscribe удаляет подписчика и закрывает его канал
func (v *Value[T]) Unsubscribe(ch chan T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.subscribers[ch]; ok {
		close(ch)
		delete(v.subscribers, ch)
	}
}
