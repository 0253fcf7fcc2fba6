/*
 * Copyright (C) 2019 ING BANK N.V.
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Lesser General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package bulletproofs

import (
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/ing-bank/zkrp/util/bn"
	"github.com/ing-bank/zkrp/util/byteconversion"

	"github.com/takakv/cpsnarks-set/algebra"
)

// IsPowerOfTwo reports whether n is a power of two. Zero and negative values
// are not powers of two.
func IsPowerOfTwo(n int64) bool {
	return n > 0 && n&(n-1) == 0
}

// powerOf returns the vector (x^0, x^1, ..., x^(n-1)) reduced mod ORDER.
func powerOf(x *big.Int, n int64) []*big.Int {
	result := make([]*big.Int, n)
	cur := big.NewInt(1)
	for i := int64(0); i < n; i++ {
		result[i] = new(big.Int).Set(cur)
		cur = bn.Mod(bn.Multiply(cur, x), ORDER)
	}
	return result
}

// ScalarProduct computes the inner product <a, b> mod ORDER.
func ScalarProduct(a, b []*big.Int) (*big.Int, error) {
	if len(a) != len(b) {
		return nil, errors.New("size of first argument is different from size of second argument")
	}
	result := big.NewInt(0)
	for i := range a {
		result = bn.Add(result, bn.Multiply(a[i], b[i]))
	}
	return bn.Mod(result, ORDER), nil
}

// CommitG1SP computes a Pedersen commitment value*G + randomness*H in the
// group SP, where G is the group's fixed generator.
func CommitG1SP(value, randomness *big.Int, H algebra.Element, SP algebra.Group) (algebra.Element, error) {
	commit := SP.Element().BaseScale(value)
	commit = SP.Element().Add(commit, SP.Element().Scale(H, randomness))
	return commit, nil
}

// HashBPSP derives the Fiat-Shamir challenges y and z from two group elements,
// by hashing their encodings with SHA-256: y is that digest mod ORDER, and z
// is the SHA-256 of that digest, mod ORDER.
func HashBPSP(a, b algebra.Element) (*big.Int, *big.Int, error) {
	digest := sha256.New()
	digest.Write([]byte(a.String()))
	digest.Write([]byte(b.String()))
	sum := digest.Sum(nil)

	y, err := byteconversion.FromByteArray(sum)
	if err != nil {
		return nil, nil, err
	}
	y = bn.Mod(y, ORDER)

	digest2 := sha256.New()
	digest2.Write(sum)
	sum2 := digest2.Sum(nil)
	z, err := byteconversion.FromByteArray(sum2)
	if err != nil {
		return nil, nil, err
	}
	z = bn.Mod(z, ORDER)

	return y, z, nil
}

// VectorExpSP computes the multi-exponentiation product_i g[i]^exps[i] in the
// group SP.
func VectorExpSP(g []algebra.Element, exps []*big.Int, SP algebra.Group) (algebra.Element, error) {
	if len(g) != len(exps) {
		return nil, errors.New("size of first argument is different from size of second argument")
	}
	result := SP.Identity()
	for i := range g {
		result = SP.Element().Add(result, SP.Element().Scale(g[i], exps[i]))
	}
	return result, nil
}
