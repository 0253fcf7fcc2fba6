// Package channel wires the transcript primitive into the paired
// VerifierChannel/ProverChannel roles spec.md §4.7 describes: the prover
// holds a VerifierChannel (it sends to the verifier); the verifier holds a
// ProverChannel (it receives and replays). Mechanically both roles perform
// the same transcript operations - send a label/bytes pair, derive a
// challenge - so both are thin wrappers over one Channel type.
package channel

import (
	"errors"
	"math/big"

	"github.com/takakv/cpsnarks-set/transcript"
)

// ErrTranscriptIncomplete is returned when a proof is requested before
// every expected message has been sent (spec.md §7).
var ErrTranscriptIncomplete = errors.New("channel: proof requested before all messages were sent")

// ErrChannelBorrow re-exports the transcript package's borrow error under
// the name spec.md §7 uses for it.
var ErrChannelBorrow = transcript.ErrChannelBorrow

// Channel is a single sub-protocol's view into a shared transcript: a
// domain separator plus the transcript it is nested in. Composites
// construct one Channel per sub-protocol, all sharing the same
// *transcript.Transcript so that message order is globally strict.
type Channel struct {
	t      *transcript.Transcript
	domain string
}

// New returns a Channel scoped to domain within t.
func New(t *transcript.Transcript, domain string) *Channel {
	return &Channel{t: t, domain: domain}
}

// Send appends a labelled message, used by the prover-side VerifierChannel.
func (c *Channel) Send(label string, data []byte) error {
	if err := c.t.TryLock(); err != nil {
		return err
	}
	defer c.t.Unlock()
	c.t.Append(c.domain, label, data)
	return nil
}

// Receive replays a labelled message the verifier read off the proof
// object, used by the verifier-side ProverChannel. It performs the
// identical transcript mutation as Send: the verifier must feed back
// exactly the bytes the prover sent for challenges to match.
func (c *Channel) Receive(label string, data []byte) error {
	return c.Send(label, data)
}

// Challenge draws a bits-bit Fiat-Shamir challenge in [0, 2^bits), used by
// both receive_challenge (prover side) and generate_and_send_challenge
// (verifier side) - they are the same operation since both sides must
// derive identical challenge bytes from identical transcript state.
func (c *Channel) Challenge(label string, bits uint) (*big.Int, error) {
	if err := c.t.TryLock(); err != nil {
		return nil, err
	}
	defer c.t.Unlock()
	nBytes := int((bits + 7) / 8)
	raw := c.t.ChallengeBytes(c.domain, label, nBytes)
	v := new(big.Int).SetBytes(raw)
	// Mask down to exactly `bits` bits so the challenge lies in [0, 2^bits).
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits), big.NewInt(1))
	return v.And(v, mask), nil
}

// VerifierChannel is the prover-facing role: the prover sends messages and
// receives challenges through it. It is a plain alias for Channel - see
// the package doc for why the two roles share one implementation.
type VerifierChannel = Channel

// ProverChannel is the verifier-facing role: the verifier receives replayed
// messages and (re)generates challenges through it.
type ProverChannel = Channel
