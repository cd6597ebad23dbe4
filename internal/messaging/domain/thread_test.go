package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadID(t *testing.T) {
	t.Run("symmetric for any pair", func(t *testing.T) {
		assert.Equal(t, ThreadID("alice", "bob"), ThreadID("bob", "alice"))
		assert.Equal(t, "alice_bob", ThreadID("bob", "alice"))
	})
}

func TestNewThread(t *testing.T) {
	t.Run("emails stay aligned with sorted uids", func(t *testing.T) {
		th := NewThread("bob", "bob@x.test", "alice", "alice@x.test")

		require.Equal(t, []string{"alice", "bob"}, th.Participants)
		assert.Equal(t, []string{"alice@x.test", "bob@x.test"}, th.ParticipantEmails)
		assert.Equal(t, "alice_bob", th.ID)
	})

	t.Run("other participant resolution", func(t *testing.T) {
		th := NewThread("alice", "alice@x.test", "bob", "bob@x.test")

		uid, email := th.Other("alice")
		assert.Equal(t, "bob", uid)
		assert.Equal(t, "bob@x.test", email)

		assert.True(t, th.HasParticipant("bob"))
		assert.False(t, th.HasParticipant("carol"))
	})
}
