package server

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadStore_RepeatedGets(t *testing.T) {
	s := newStore(time.Minute, time.Now)
	src := bytes.NewReader([]byte("doc"))
	id := s.put(src)
	assert.Equal(t, 3, src.Len(), "put leaves the caller's reader untouched")

	for i := 0; i < 2; i++ {
		doc, ok := s.get(id)
		require.True(t, ok)
		data, err := io.ReadAll(doc)
		require.NoError(t, err)
		assert.Equal(t, "doc", string(data))
	}
	assert.Equal(t, 1, s.count())
}

func TestDownloadStore_Expiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := newStore(10*time.Minute, func() time.Time { return now })

	old := s.put(bytes.NewReader(nil))
	now = now.Add(11 * time.Minute)
	fresh := s.put(bytes.NewReader(nil))

	assert.Equal(t, 1, s.count(), "put prunes expired entries")
	_, ok := s.get(old)
	assert.False(t, ok)
	_, ok = s.get(fresh)
	assert.True(t, ok)

	now = now.Add(11 * time.Minute)
	_, ok = s.get(fresh)
	assert.False(t, ok)
}
