package repositories

import (
	"testing"

	"github.com/konarjg/chat-server/domain"
	"github.com/stretchr/testify/require"
)

func TestCursorRepository_AdvanceIsMonotonic(t *testing.T) {
	req := require.New(t)
	repo := NewCursorRepository(openDB(t))

	empty, err := repo.LoadCursors(1)
	req.NoError(err)
	req.Empty(empty)

	req.NoError(repo.AdvanceCursor(1, 10, 3))
	req.NoError(repo.AdvanceCursor(1, 10, 2))
	req.NoError(repo.AdvanceCursor(1, 11, 7))
	req.NoError(repo.AdvanceCursor(2, 10, 1))

	cursors, err := repo.LoadCursors(1)
	req.NoError(err)
	req.Equal(domain.Cursors{10: 3, 11: 7}, cursors)

	other, err := repo.LoadCursors(2)
	req.NoError(err)
	req.Equal(domain.Cursors{10: 1}, other)
}
