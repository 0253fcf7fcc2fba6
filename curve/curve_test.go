package curve

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

var allGroups = []Group{
	P256(),
	P384(),
	Ristretto255(),
	SecP256k1(),
}

func TestNegate(t *testing.T) {
	const testTimes = 1 << 5
	for _, g := range allGroups {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			Q := g.Element()
			for i := 0; i < testTimes; i++ {
				P := g.Random()
				Q.Set(P)
				Q.Subtract(Q, P)
				require.True(t, Q.IsIdentity())
			}
		})
	}
}

func TestScaleByMinusOne(t *testing.T) {
	const testTimes = 1 << 5
	minusOne := big.NewInt(-1)
	for _, g := range allGroups {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			I := g.Identity()
			Q := g.Element()
			for i := 0; i < testTimes; i++ {
				P := g.Random()
				Q.Scale(P, minusOne)
				Q.Add(Q, P)
				require.True(t, Q.IsEqual(I))
			}
		})
	}
}

func TestSet(t *testing.T) {
	for _, g := range allGroups {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			P := g.Random()
			Q := g.Element()
			Q.Set(P)
			require.True(t, Q.IsEqual(P))
		})
	}
}

func TestNewElements(t *testing.T) {
	for _, g := range allGroups {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			require.NotNil(t, g.Identity())
			require.NotNil(t, g.Generator())
			require.NotNil(t, g.Random())
			require.True(t, g.Identity().IsIdentity())
			require.False(t, g.Generator().IsIdentity())
		})
	}
}

func TestDoublingAndScaling(t *testing.T) {
	for _, g := range allGroups {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			a := g.Element().BaseScale(big.NewInt(2))
			b := g.Element().Add(g.Generator(), g.Generator())
			require.True(t, a.IsEqual(b))

			a = g.Element().Add(a, g.Generator())
			b = g.Element().BaseScale(big.NewInt(3))
			require.True(t, a.IsEqual(b))

			e := g.Identity()
			r1 := g.Random()
			r2 := g.Random()
			e.Add(r1, r2)
			e.Subtract(e, r2)
			require.True(t, e.IsEqual(r1))
		})
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	for _, g := range allGroups {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			P := g.Random()
			b, err := P.MarshalBinary()
			require.NoError(t, err)

			Q := g.Element()
			require.NoError(t, Q.UnmarshalBinary(b))
			require.True(t, P.IsEqual(Q))
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	for _, g := range allGroups {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			P := g.Random()
			data, err := P.MarshalJSON()
			require.NoError(t, err)

			Q := g.Element()
			require.NoError(t, Q.UnmarshalJSON(data))
			require.True(t, P.IsEqual(Q))
		})
	}
}
