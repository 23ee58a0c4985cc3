package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(100, time.Hour)
	t.Cleanup(s.Stop)
	return s
}

func TestCreateAndGet(t *testing.T) {
	store := newTestStore(t)

	sess, err := store.Create(7, "Jane Doe", "jane@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	assert.NotEmpty(t, sess.CSRFToken)
	assert.True(t, sess.Authenticated())

	got, ok := store.Get(sess.ID)
	require.True(t, ok)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "Jane Doe", got.UserName)
	assert.Equal(t, "jane@x.com", got.UserEmail)
}

func TestAnonymousSession(t *testing.T) {
	store := newTestStore(t)

	sess, err := store.Create(0, "", "")
	require.NoError(t, err)
	assert.False(t, sess.Authenticated())
	assert.NotEmpty(t, sess.CSRFToken, "anonymous sessions still carry a CSRF token")
}

func TestDestroy(t *testing.T) {
	store := newTestStore(t)

	sess, err := store.Create(1, "A", "a@x.com")
	require.NoError(t, err)

	store.Destroy(sess.ID)
	_, ok := store.Get(sess.ID)
	assert.False(t, ok, "destroyed session must not resolve")
}

func TestRegenerateChangesIDAndToken(t *testing.T) {
	store := newTestStore(t)

	anon, err := store.Create(0, "", "")
	require.NoError(t, err)

	sess, err := store.Regenerate(anon.ID, 3, "Jane", "jane@x.com")
	require.NoError(t, err)

	assert.NotEqual(t, anon.ID, sess.ID, "login must issue a new session id")
	assert.NotEqual(t, anon.CSRFToken, sess.CSRFToken, "login must issue a new CSRF token")

	_, ok := store.Get(anon.ID)
	assert.False(t, ok, "old id must be invalidated")
	got, ok := store.Get(sess.ID)
	require.True(t, ok)
	assert.Equal(t, int64(3), got.UserID)
}

func TestExpiry(t *testing.T) {
	store := NewStore(100, 10*time.Millisecond)
	defer store.Stop()

	sess, err := store.Create(1, "A", "a@x.com")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	_, ok := store.Get(sess.ID)
	assert.False(t, ok, "expired session must not resolve")
	assert.Equal(t, 0, store.Size())
}

func TestLRUEviction(t *testing.T) {
	store := NewStore(2, time.Hour)
	defer store.Stop()

	first, err := store.Create(1, "A", "a@x.com")
	require.NoError(t, err)
	_, err = store.Create(2, "B", "b@x.com")
	require.NoError(t, err)
	_, err = store.Create(3, "C", "c@x.com")
	require.NoError(t, err)

	assert.Equal(t, 2, store.Size())
	_, ok := store.Get(first.ID)
	assert.False(t, ok, "oldest session should have been evicted")
}

func TestCleanExpired(t *testing.T) {
	store := NewStore(100, 5*time.Millisecond)
	defer store.Stop()

	for i := 0; i < 3; i++ {
		_, err := store.Create(int64(i+1), "U", "u@x.com")
		require.NoError(t, err)
	}
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 3, store.CleanExpired())
	assert.Equal(t, 0, store.Size())
}

func TestFlash(t *testing.T) {
	store := newTestStore(t)
	sess, err := store.Create(1, "A", "a@x.com")
	require.NoError(t, err)

	sess.PutFlash("success", "Expense added successfully!")
	assert.Equal(t, "Expense added successfully!", sess.PopString("success"))
	assert.Equal(t, "", sess.PopString("success"), "flash values are one-shot")

	sess.PutFlash("errors", map[string]string{"amount": "Amount must be a positive number"})
	m := sess.PopStringMap("errors")
	require.NotNil(t, m)
	assert.Equal(t, "Amount must be a positive number", m["amount"])
	assert.Nil(t, sess.PopStringMap("errors"))
}
