package accgroup

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func testGroup(t *testing.T) Group {
	t.Helper()
	n, err := GenerateRSAModulus(rand.Reader, 256)
	require.NoError(t, err)
	return NewRSAGroup(n)
}

func TestIdentityIsNeutral(t *testing.T) {
	g := testGroup(t)
	a, err := g.Random(rand.Reader)
	require.NoError(t, err)

	got := g.Element().Op(a, g.Identity())
	require.True(t, got.IsEqual(a))
}

func TestExpNegativeIsInverse(t *testing.T) {
	g := testGroup(t)
	a, err := g.Random(rand.Reader)
	require.NoError(t, err)

	inv, err := g.Element().Exp(a, big.NewInt(-1))
	require.NoError(t, err)

	direct := g.Element().Inv(a)
	require.True(t, inv.IsEqual(direct))

	prod := g.Element().Op(a, inv)
	require.True(t, prod.IsIdentity())
}

func TestExpAdditivity(t *testing.T) {
	g := testGroup(t)
	a, err := g.Random(rand.Reader)
	require.NoError(t, err)

	e1 := big.NewInt(7)
	e2 := big.NewInt(-3)
	sum := new(big.Int).Add(e1, e2)

	lhs, err := g.Element().Exp(a, sum)
	require.NoError(t, err)

	p1, err := g.Element().Exp(a, e1)
	require.NoError(t, err)
	p2, err := g.Element().Exp(a, e2)
	require.NoError(t, err)
	rhs := g.Element().Op(p1, p2)

	require.True(t, lhs.IsEqual(rhs))
}

func TestJSONRoundTrip(t *testing.T) {
	g := testGroup(t)
	a, err := g.Random(rand.Reader)
	require.NoError(t, err)

	data, err := a.MarshalJSON()
	require.NoError(t, err)

	b := g.Element()
	require.NoError(t, b.UnmarshalJSON(data))
	require.True(t, a.IsEqual(b))
}
