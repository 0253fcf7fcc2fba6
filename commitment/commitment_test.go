package commitment

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/takakv/cpsnarks-set/accgroup"
	"github.com/takakv/cpsnarks-set/curve"
)

func TestIntegerCommitOpen(t *testing.T) {
	n, err := accgroup.GenerateRSAModulus(rand.Reader, 256)
	require.NoError(t, err)
	g := accgroup.NewRSAGroup(n)

	p, err := SetupIntegerParams(rand.Reader, g)
	require.NoError(t, err)

	v := big.NewInt(42)
	r := big.NewInt(-17)
	c, err := p.Commit(v, r)
	require.NoError(t, err)
	require.NoError(t, p.Open(c, v, r))
	require.ErrorIs(t, p.Open(c, big.NewInt(43), r), ErrWrongOpening)
}

func TestPedersenCommitOpen(t *testing.T) {
	p := SetupPedersenParams(curve.Ristretto255())

	v := big.NewInt(2)
	r := big.NewInt(5)
	c := p.Commit(v, r)
	require.NoError(t, p.Open(c, v, r))
	require.ErrorIs(t, p.Open(c, v, big.NewInt(6)), ErrWrongOpening)
}
