package observable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_GetReturnsInitial(t *testing.T) {
	v := New(42)
	assert.Equal(t, 42, v.Get())
}

func TestValue_SetReplacesSnapshot(t *testing.T) {
	v := New("old")
	v.Set("new")
	assert.Equal(t, "new", v.Get())
}

func TestValue_SubscribeReceivesCurrentThenUpdates(t *testing.T) {
	v := New(1)
	ch := v.Subscribe()
	defer v.Unsubscribe(ch)

	// Подписчик сразу получает последний известный снимок
	require.Equal(t, 1, <-ch)

	v.Set(2)
	v.Set(3)
	assert.Equal(t, 2, <-ch)
	assert.Equal(t, 3, <-ch)
}

func TestValue_MultipleSubscribers(t *testing.T) {
	v := New("init")
	first := v.Subscribe()
	second := v.Subscribe()
	defer v.Unsubscribe(first)
	defer v.Unsubscribe(second)

	<-first
	<-second

	v.Set("update")
	assert.Equal(t, "update", <-first)
	assert.Equal(t, "update", <-second)
}

func TestValue_UnsubscribeClosesChannel(t *testing.T) {
	v := New(0)
	ch := v.Subscribe()
	<-ch

	v.Unsubscribe(ch)
	_, open := <-ch
	assert.False(t, open, "Expected channel to be closed after Unsubscribe")

	// Повторный Unsubscribe не должен паниковать
	v.Unsubscribe(ch)
}

func TestValue_SlowSubscriberDoesNotBlockPublisher(t *testing.T) {
	v := New(0)
	ch := v.Subscribe()
	defer v.Unsubscribe(ch)

	// Переполняем буфер подписчика: публикации не должны блокироваться
	for i := 1; i <= 50; i++ {
		v.Set(i)
	}

	assert.Equal(t, 50, v.Get(), "Expected snapshot to hold the last published value")
}
