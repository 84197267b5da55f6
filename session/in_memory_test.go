package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/calagent/core"
)

func TestCreateAndDuplicate(t *testing.T) {
	store := NewInMemoryStore()

	sess, err := store.Create("s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", sess.ID)

	_, err = store.Create("s1")
	assert.Error(t, err)

	_, err = store.Create("")
	assert.Error(t, err)
}

func TestGet_LazilyCreates(t *testing.T) {
	store := NewInMemoryStore()

	sess, err := store.Get("fresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", sess.ID)
	assert.Empty(t, sess.GetTurns())

	again, err := store.Get("fresh")
	require.NoError(t, err)
	assert.Same(t, sess, again)
}

func TestAppendTurn(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.AppendTurn("s1", core.NewTurn(core.NewUserContent("hello"))))
	require.NoError(t, store.AppendTurn("s1", core.NewTurn(core.NewAssistantContent("hi"))))

	sess, err := store.Get("s1")
	require.NoError(t, err)

	turns := sess.GetTurns()
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Content.Role)
	assert.Equal(t, "assistant", turns[1].Content.Role)
	assert.Equal(t, "hello", turns[0].Content.Text())
}

func TestConcurrentAccess(t *testing.T) {
	store := NewInMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.AppendTurn("shared", core.NewTurn(core.NewUserContent("msg")))
		}()
	}
	wg.Wait()

	sess, err := store.Get("shared")
	require.NoError(t, err)
	assert.Len(t, sess.GetTurns(), 20)
}
