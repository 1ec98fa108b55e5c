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
	"encoding/binary"
	"fmt"
	"slices"
)

// Metadata wire layout (big-endian), compact single-byte variant:
//
//	[0]    option count (0 for simple mode, 2..8 for multi-option)
//	[1]    winner count (must satisfy 0 < winnerCount < optionCount)
//	[2..]  optionCount x uint16 option boundaries, strictly increasing
//
// An empty payload is equivalent to [0, 0]: simple ternary mode. This
// layout is a wire contract; consumers decoding historical proposals
// must match it exactly.
const (
	MaxOptionCount = 8

	metaHeaderLen   = 2
	metaBoundaryLen = 2
)

// ProposalConfig is the counting configuration attached to a proposal at
// creation time. It is decoded once from the metadata payload and stored
// structurally; execution paths never re-parse raw bytes.
type ProposalConfig struct {
	OptionCount      uint8
	WinnerCount      uint8
	OptionBoundaries []uint16
}

// IsSimple returns true for the degenerate single ternary choice mode
// (for/against/abstain), signaled by an option count of zero.
func (c ProposalConfig) IsSimple() bool {
	return c.OptionCount == 0
}

// NumBuckets returns the number of tally accumulators for this config:
// three for simple mode, one per option otherwise.
func (c ProposalConfig) NumBuckets() int {
	if c.IsSimple() {
		return simpleChoiceCount
	}
	return int(c.OptionCount)
}

// DecodeProposalMeta decodes a metadata payload into a ProposalConfig.
// An empty payload selects simple mode.
func DecodeProposalMeta(payload []byte) (ProposalConfig, error) {
	var config ProposalConfig
	if len(payload) == 0 {
		return config, nil
	}
	if len(payload) < metaHeaderLen {
		return config, fmt.Errorf(
			"%w: payload is %d bytes, header needs %d",
			ErrMalformedMetadata,
			len(payload),
			metaHeaderLen,
		)
	}
	optionCount := payload[0]
	winnerCount := payload[1]
	if optionCount == 0 {
		if winnerCount != 0 || len(payload) != metaHeaderLen {
			return config, fmt.Errorf(
				"%w: trailing data after simple-mode header",
				ErrMalformedMetadata,
			)
		}
		return config, nil
	}
	if optionCount < 2 || optionCount > MaxOptionCount {
		return config, fmt.Errorf(
			"%w: option count %d outside valid range (0 or 2..%d)",
			ErrMalformedMetadata,
			optionCount,
			MaxOptionCount,
		)
	}
	if winnerCount == 0 || winnerCount >= optionCount {
		return config, fmt.Errorf(
			"%w: winner count %d must satisfy 0 < winnerCount < %d",
			ErrMalformedMetadata,
			winnerCount,
			optionCount,
		)
	}
	wantLen := metaHeaderLen + int(optionCount)*metaBoundaryLen
	if len(payload) != wantLen {
		return config, fmt.Errorf(
			"%w: payload is %d bytes, expected exactly %d for %d options",
			ErrMalformedMetadata,
			len(payload),
			wantLen,
			optionCount,
		)
	}
	boundaries := make([]uint16, optionCount)
	for i := range int(optionCount) {
		offset := metaHeaderLen + i*metaBoundaryLen
		boundaries[i] = binary.BigEndian.Uint16(
			payload[offset : offset+metaBoundaryLen],
		)
		if i > 0 && boundaries[i] <= boundaries[i-1] {
			return config, fmt.Errorf(
				"%w: boundary %d (%d) <= boundary %d (%d)",
				ErrNonMonotonicBoundaries,
				i,
				boundaries[i],
				i-1,
				boundaries[i-1],
			)
		}
	}
	config.OptionCount = optionCount
	config.WinnerCount = winnerCount
	config.OptionBoundaries = boundaries
	return config, nil
}

// EncodeProposalMeta encodes a ProposalConfig into its metadata payload.
// It is the exact inverse of DecodeProposalMeta for any valid config.
func EncodeProposalMeta(config ProposalConfig) ([]byte, error) {
	if config.IsSimple() {
		if len(config.OptionBoundaries) != 0 || config.WinnerCount != 0 {
			return nil, fmt.Errorf(
				"%w: simple mode config cannot carry boundaries or winners",
				ErrMalformedMetadata,
			)
		}
		return []byte{0, 0}, nil
	}
	if config.OptionCount < 2 || config.OptionCount > MaxOptionCount {
		return nil, fmt.Errorf(
			"%w: option count %d outside valid range (0 or 2..%d)",
			ErrMalformedMetadata,
			config.OptionCount,
			MaxOptionCount,
		)
	}
	if config.WinnerCount == 0 || config.WinnerCount >= config.OptionCount {
		return nil, fmt.Errorf(
			"%w: winner count %d must satisfy 0 < winnerCount < %d",
			ErrMalformedMetadata,
			config.WinnerCount,
			config.OptionCount,
		)
	}
	if len(config.OptionBoundaries) != int(config.OptionCount) {
		return nil, fmt.Errorf(
			"%w: %d boundaries for %d options",
			ErrMalformedMetadata,
			len(config.OptionBoundaries),
			config.OptionCount,
		)
	}
	if !slices.IsSortedFunc(
		config.OptionBoundaries,
		func(a, b uint16) int {
			// Treat equal boundaries as unsorted to enforce strict increase
			if a >= b {
				return 1
			}
			return -1
		},
	) {
		return nil, fmt.Errorf(
			"%w: boundaries must be strictly increasing",
			ErrNonMonotonicBoundaries,
		)
	}
	payload := make(
		[]byte,
		metaHeaderLen+len(config.OptionBoundaries)*metaBoundaryLen,
	)
	payload[0] = config.OptionCount
	payload[1] = config.WinnerCount
	for i, boundary := range config.OptionBoundaries {
		binary.BigEndian.PutUint16(
			payload[metaHeaderLen+i*metaBoundaryLen:],
			boundary,
		)
	}
	return payload, nil
}
