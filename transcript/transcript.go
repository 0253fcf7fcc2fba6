// Package transcript implements the append-only, domain-separated
// Fiat-Shamir transcript that turns the interactive sigma protocols into
// non-interactive proofs (spec.md §4.7). It plays the role merlin plays in
// the original Rust source: messages are appended under a label, and
// challenges are derived by hashing the accumulated state, the way the
// teacher derives its single Fiat-Shamir challenge in voteproof.go's
// getFSChallenge, generalized here into a running, multi-message state.
package transcript

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"hash"
	"sync"
)

// ErrChannelBorrow signals that the transcript is already mutably held,
// mirroring the Rust implementation's RefCell borrow-check failure
// (spec.md §5, §7, §9).
var ErrChannelBorrow = errors.New("transcript: already held by another caller")

// Transcript is a running SHA-256 state seeded with a domain separator.
// It is not safe for concurrent use; TryLock/Unlock implement the runtime
// borrow discipline the spec mandates in place of Rust's compile-time
// borrow checker.
type Transcript struct {
	mu     sync.Mutex
	locked bool
	state  hash.Hash
}

// New starts a transcript under the given top-level domain separator
// (e.g. "membership", "nonmembership", or a standalone sub-protocol name
// when a sub-protocol is exercised on its own).
func New(domain string) *Transcript {
	t := &Transcript{state: sha256.New()}
	t.writeFramed([]byte("cpsnarks-set/transcript/v1"))
	t.writeFramed([]byte(domain))
	return t
}

func (t *Transcript) writeFramed(b []byte) {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(b)))
	t.state.Write(lenBuf[:])
	t.state.Write(b)
}

// TryLock acquires exclusive access to the transcript, returning
// ErrChannelBorrow if it is already held.
func (t *Transcript) TryLock() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.locked {
		return ErrChannelBorrow
	}
	t.locked = true
	return nil
}

// Unlock releases exclusive access acquired by TryLock.
func (t *Transcript) Unlock() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.locked = false
}

// Append absorbs a labelled message under a domain separator. Caller must
// hold the transcript (TryLock succeeded).
func (t *Transcript) Append(domain, label string, data []byte) {
	t.writeFramed([]byte(domain))
	t.writeFramed([]byte(label))
	t.writeFramed(data)
}

// ChallengeBytes derives n bytes deterministically from the current
// transcript state and then absorbs them back in, so that later challenges
// (in this or a nested sub-protocol) depend on every challenge drawn so
// far, not only on the messages that preceded it.
func (t *Transcript) ChallengeBytes(domain, label string, n int) []byte {
	t.writeFramed([]byte(domain))
	t.writeFramed([]byte("challenge:" + label))

	out := make([]byte, 0, n)
	var counter uint32
	for len(out) < n {
		h := t.cloneState()
		var ctrBuf [4]byte
		binary.BigEndian.PutUint32(ctrBuf[:], counter)
		h.Write(ctrBuf[:])
		out = append(out, h.Sum(nil)...)
		counter++
	}
	out = out[:n]
	t.writeFramed(out)
	return out
}

// cloneState returns a hash.Hash with the exact same absorbed state as
// t.state, relying on the fact that crypto/sha256's Hash implements
// encoding.BinaryMarshaler/Unmarshaler so Sum's read-only guarantee can be
// combined with counter-mode expansion without perturbing t.state.
func (t *Transcript) cloneState() hash.Hash {
	type marshalable interface {
		MarshalBinary() ([]byte, error)
	}
	type unmarshalable interface {
		UnmarshalBinary(data []byte) error
	}
	src := t.state.(marshalable)
	raw, err := src.MarshalBinary()
	if err != nil {
		panic(err)
	}
	clone := sha256.New()
	if err := clone.(unmarshalable).UnmarshalBinary(raw); err != nil {
		panic(err)
	}
	return clone
}
