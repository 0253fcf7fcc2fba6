package curve

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ing-bank/zkrp/crypto/p256"
)

// p256k1Group is the secp256k1 prime-order group, kept as an alternate
// Pedersen CRS curve alongside the circl-backed groups: it exercises
// zkrp's own affine-coordinate curve implementation instead of circl's.
type p256k1Group struct {
	fieldOrder *big.Int
	curveOrder *big.Int
	name       string
}

type p256k1Point struct {
	curve *p256k1Group
	val   *p256.P256
}

func (g *p256k1Group) Name() string {
	return g.name
}

func (g *p256k1Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(&GroupId{g.name})
}

func (g *p256k1Group) P() *big.Int {
	return g.fieldOrder
}

func (g *p256k1Group) N() *big.Int {
	return g.curveOrder
}

func (g *p256k1Group) Generator() Element {
	return &p256k1Point{
		curve: g,
		val:   new(p256.P256).ScalarBaseMult(big.NewInt(1)),
	}
}

func (g *p256k1Group) Identity() Element {
	return &p256k1Point{
		curve: g,
		val:   new(p256.P256).SetInfinity(),
	}
}

func (g *p256k1Group) Random() Element {
	r, _ := rand.Int(rand.Reader, g.curveOrder)
	e := g.Identity()
	e.BaseScale(r)
	return e
}

func (g *p256k1Group) Element() Element {
	return &p256k1Point{curve: g, val: new(p256.P256)}
}

func (e *p256k1Point) check(a Element) *p256k1Point {
	ey, ok := a.(*p256k1Point)
	if !ok {
		panic("curve: incompatible element type, expected secp256k1")
	}
	return ey
}

func (e *p256k1Point) Add(a Element, b Element) Element {
	ca, cb := e.check(a), e.check(b)
	e.val = new(p256.P256).Multiply(ca.val, cb.val)
	return e
}

func (e *p256k1Point) Subtract(a Element, b Element) Element {
	tmp := e.curve.Identity()
	tmp.Negate(b)
	e.Add(a, tmp)
	return e
}

func (e *p256k1Point) Negate(a Element) Element {
	ca := e.check(a)
	e.val = new(p256.P256).ScalarMult(ca.val, big.NewInt(-1))
	return e
}

func (e *p256k1Point) IsEqual(b Element) bool {
	cb := e.check(b)
	zero := big.NewInt(0)

	xIsEq := false
	yIsEq := false

	if e.val.X == nil || e.val.X.Cmp(zero) == 0 {
		xIsEq = cb.val.X == nil || cb.val.X.Cmp(zero) == 0
	} else if cb.val.X == nil || cb.val.X.Cmp(zero) == 0 {
		xIsEq = false
	} else {
		xIsEq = e.val.X.Cmp(cb.val.X) == 0
	}

	if e.val.Y == nil || e.val.Y.Cmp(zero) == 0 {
		yIsEq = cb.val.Y == nil || cb.val.Y.Cmp(zero) == 0
	} else if cb.val.Y == nil || cb.val.Y.Cmp(zero) == 0 {
		yIsEq = false
	} else {
		yIsEq = e.val.Y.Cmp(cb.val.Y) == 0
	}

	return xIsEq && yIsEq
}

func (e *p256k1Point) Set(a Element) Element {
	ca := e.check(a)
	e.val = new(p256.P256).Add(new(p256.P256).SetInfinity(), ca.val)
	return e
}

func (e *p256k1Point) SetBytes(b []byte) Element {
	if len(b) == 1 && b[0] == 0 {
		e.val = new(p256.P256).SetInfinity()
		return e
	}
	xBytes := b[1:33]
	yBytes := b[33:]
	e.val = new(p256.P256)
	e.val.X = new(big.Int).SetBytes(xBytes)
	e.val.Y = new(big.Int).SetBytes(yBytes)
	return e
}

func (e *p256k1Point) Scale(a Element, s *big.Int) Element {
	ca := e.check(a)
	e.val = new(p256.P256).ScalarMult(ca.val, s)
	return e
}

func (e *p256k1Point) BaseScale(s *big.Int) Element {
	e.val = new(p256.P256).ScalarBaseMult(s)
	return e
}

func (e *p256k1Point) GroupOrder() *big.Int {
	return e.curve.curveOrder
}

func (e *p256k1Point) FieldOrder() *big.Int {
	return e.curve.fieldOrder
}

func (e *p256k1Point) MapToGroup(s string) (Element, error) {
	tmp, err := p256.MapToGroup(s)
	if err != nil {
		return nil, err
	}
	e.val = tmp
	return e, nil
}

func (e *p256k1Point) String() string {
	return e.val.String()
}

func (e *p256k1Point) IsIdentity() bool {
	if e.val.X == nil && e.val.Y == nil {
		return true
	}
	return e.val.X.Cmp(big.NewInt(0)) == 0 && e.val.Y.Cmp(big.NewInt(0)) == 0
}

// MarshalBinary encodes the point in uncompressed affine form, matching
// the fixed-width big-endian layout the other curve backends use, with
// a single zero byte standing in for the point at infinity.
func (e *p256k1Point) MarshalBinary() ([]byte, error) {
	if e.IsIdentity() {
		return []byte{0}, nil
	}
	buf := make([]byte, 65)
	buf[0] = 4
	xb := e.val.X.Bytes()
	yb := e.val.Y.Bytes()
	if len(xb) > 32 || len(yb) > 32 {
		return nil, fmt.Errorf("curve: secp256k1 coordinate overflow")
	}
	copy(buf[1+32-len(xb):33], xb)
	copy(buf[33+32-len(yb):], yb)
	return buf, nil
}

func (e *p256k1Point) UnmarshalBinary(data []byte) error {
	if len(data) == 1 && data[0] == 0 {
		e.val = new(p256.P256).SetInfinity()
		return nil
	}
	if len(data) != 65 {
		return fmt.Errorf("curve: invalid secp256k1 encoding length %d", len(data))
	}
	e.val = new(p256.P256)
	e.val.X = new(big.Int).SetBytes(data[1:33])
	e.val.Y = new(big.Int).SetBytes(data[33:])
	return nil
}

func (e *p256k1Point) MarshalJSON() ([]byte, error) {
	b, err := e.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return json.Marshal(b)
}

func (e *p256k1Point) UnmarshalJSON(data []byte) error {
	var b []byte
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	return e.UnmarshalBinary(b)
}

// SecP256k1 returns the secp256k1 group.
func SecP256k1() Group {
	p, _ := new(big.Int).SetString("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", 16)
	n, _ := new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)

	G := new(p256k1Group)
	G.fieldOrder = p
	G.curveOrder = n
	G.name = "secp256k1"
	return G
}
