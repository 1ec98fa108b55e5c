// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gov

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"

	"github.com/holiman/uint256"
)

// ProposalId uniquely identifies a proposal. It is derived from the
// proposal's action arrays and description, so re-submitting identical
// content yields the same id.
type ProposalId [32]byte

func (p ProposalId) String() string {
	return hex.EncodeToString(p[:])
}

// ProposalIdFromHex parses a hex-encoded proposal id.
func ProposalIdFromHex(s string) (ProposalId, error) {
	var id ProposalId
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, err
	}
	if len(raw) != len(id) {
		return id, errors.New("proposal id must be 32 bytes")
	}
	copy(id[:], raw)
	return id, nil
}

// ActionSet holds a proposal's candidate actions as three parallel
// sequences: call targets, transfer values, and call payloads.
type ActionSet struct {
	Targets  [][]byte
	Values   []*uint256.Int
	Payloads [][]byte
}

// Len returns the number of actions.
func (a ActionSet) Len() int {
	return len(a.Targets)
}

// Validate checks that the three sequences are parallel.
func (a ActionSet) Validate() error {
	if len(a.Targets) != len(a.Values) ||
		len(a.Targets) != len(a.Payloads) {
		return errors.New(
			"action targets, values, and payloads must have equal length",
		)
	}
	return nil
}

// ExecutionBundle is the subset of a proposal's actions selected for
// execution, in ascending option-boundary order.
type ExecutionBundle struct {
	Targets  [][]byte
	Values   []*uint256.Int
	Payloads [][]byte
}

// Len returns the number of actions in the bundle.
func (b ExecutionBundle) Len() int {
	return len(b.Targets)
}

// ComputeProposalId derives the proposal id from the action arrays and
// the description by hashing a length-prefixed encoding of each field.
func ComputeProposalId(actions ActionSet, description string) ProposalId {
	h := sha256.New()
	writeField := func(field []byte) {
		var lenBuf [8]byte
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(field)))
		h.Write(lenBuf[:])
		h.Write(field)
	}
	for i := range actions.Targets {
		writeField(actions.Targets[i])
		value := actions.Values[i]
		if value == nil {
			value = uint256.NewInt(0)
		}
		valueBytes := value.Bytes32()
		writeField(valueBytes[:])
		writeField(actions.Payloads[i])
	}
	writeField([]byte(description))
	var id ProposalId
	copy(id[:], h.Sum(nil))
	return id
}
