package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursors_Merge(t *testing.T) {
	req := require.New(t)
	stored := Cursors{1: 4, 2: 9}
	live := Cursors{1: 7, 3: 2}

	merged := stored.Merge(live)

	req.Equal(Cursors{1: 7, 2: 9, 3: 2}, merged)
	req.Equal(Cursors{1: 4, 2: 9}, stored, "merge must not mutate the receiver")
}

func TestChat_Peer(t *testing.T) {
	req := require.New(t)
	chat := Chat{ID: 1, SenderID: 10, ReceiverID: 20}

	peer, ok := chat.Peer(10)
	req.True(ok)
	req.Equal(UserID(20), peer)

	peer, ok = chat.Peer(20)
	req.True(ok)
	req.Equal(UserID(10), peer)

	_, ok = chat.Peer(30)
	req.False(ok)
	req.False(chat.HasParticipant(30))
}
