package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestRecordCodec(t *testing.T) {
	rec := Record{
		UserID:    "a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11",
		CreatedAt: time.Now().Truncate(time.Second),
	}

	payload, err := msgpack.Marshal(&rec)
	require.NoError(t, err)

	var decoded Record
	require.NoError(t, msgpack.Unmarshal(payload, &decoded))
	assert.Equal(t, rec.UserID, decoded.UserID)
	assert.True(t, rec.CreatedAt.Equal(decoded.CreatedAt))
}
