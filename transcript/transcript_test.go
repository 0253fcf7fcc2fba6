package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChallengeDeterministic(t *testing.T) {
	build := func() []byte {
		tr := New("root")
		require.NoError(t, tr.TryLock())
		tr.Append("root", "c_w", []byte("hello"))
		tr.Append("root", "c_r", []byte("world"))
		c := tr.ChallengeBytes("root", "challenge", 16)
		tr.Unlock()
		return c
	}
	require.Equal(t, build(), build())
}

func TestChallengeDivergesOnReorder(t *testing.T) {
	a := New("root")
	require.NoError(t, a.TryLock())
	a.Append("root", "m1", []byte("x"))
	a.Append("root", "m2", []byte("y"))
	ca := a.ChallengeBytes("root", "c", 16)

	b := New("root")
	require.NoError(t, b.TryLock())
	b.Append("root", "m2", []byte("y"))
	b.Append("root", "m1", []byte("x"))
	cb := b.ChallengeBytes("root", "c", 16)

	require.NotEqual(t, ca, cb)
}

func TestChallengeLength(t *testing.T) {
	tr := New("modeq")
	require.NoError(t, tr.TryLock())
	c := tr.ChallengeBytes("modeq", "c", 37)
	require.Len(t, c, 37)
}

func TestBorrowDiscipline(t *testing.T) {
	tr := New("root")
	require.NoError(t, tr.TryLock())
	require.ErrorIs(t, tr.TryLock(), ErrChannelBorrow)
	tr.Unlock()
	require.NoError(t, tr.TryLock())
}
