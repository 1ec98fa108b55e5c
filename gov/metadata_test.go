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

package gov_test

import (
	"testing"

	"github.com/blinklabs-io/caucus/gov"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProposalMeta(t *testing.T) {
	testDefs := []struct {
		name        string
		payload     []byte
		expected    gov.ProposalConfig
		expectedErr error
	}{
		{
			name:     "empty payload selects simple mode",
			payload:  nil,
			expected: gov.ProposalConfig{},
		},
		{
			name:     "explicit simple mode header",
			payload:  []byte{0, 0},
			expected: gov.ProposalConfig{},
		},
		{
			name: "three options two winners",
			payload: []byte{
				3, 2,
				0x00, 0x00,
				0x00, 0x02,
				0x00, 0x05,
			},
			expected: gov.ProposalConfig{
				OptionCount:      3,
				WinnerCount:      2,
				OptionBoundaries: []uint16{0, 2, 5},
			},
		},
		{
			name: "boundaries above one byte",
			payload: []byte{
				2, 1,
				0x01, 0x00,
				0x02, 0x30,
			},
			expected: gov.ProposalConfig{
				OptionCount:      2,
				WinnerCount:      1,
				OptionBoundaries: []uint16{256, 560},
			},
		},
		{
			name:        "truncated header",
			payload:     []byte{3},
			expectedErr: gov.ErrMalformedMetadata,
		},
		{
			name:        "trailing data after simple header",
			payload:     []byte{0, 0, 0xff},
			expectedErr: gov.ErrMalformedMetadata,
		},
		{
			name:        "single option",
			payload:     []byte{1, 1, 0x00, 0x00},
			expectedErr: gov.ErrMalformedMetadata,
		},
		{
			name: "too many options",
			payload: append(
				[]byte{9, 1},
				make([]byte, 18)...,
			),
			expectedErr: gov.ErrMalformedMetadata,
		},
		{
			name: "zero winners",
			payload: []byte{
				2, 0,
				0x00, 0x00,
				0x00, 0x02,
			},
			expectedErr: gov.ErrMalformedMetadata,
		},
		{
			name: "winner count equals option count",
			payload: []byte{
				2, 2,
				0x00, 0x00,
				0x00, 0x02,
			},
			expectedErr: gov.ErrMalformedMetadata,
		},
		{
			name: "truncated boundaries",
			payload: []byte{
				3, 1,
				0x00, 0x00,
				0x00, 0x02,
			},
			expectedErr: gov.ErrMalformedMetadata,
		},
		{
			name: "trailing data after boundaries",
			payload: []byte{
				2, 1,
				0x00, 0x00,
				0x00, 0x02,
				0xff,
			},
			expectedErr: gov.ErrMalformedMetadata,
		},
		{
			name: "decreasing boundaries",
			payload: []byte{
				3, 1,
				0x00, 0x00,
				0x00, 0x05,
				0x00, 0x03,
			},
			expectedErr: gov.ErrNonMonotonicBoundaries,
		},
		{
			name: "equal boundaries",
			payload: []byte{
				2, 1,
				0x00, 0x02,
				0x00, 0x02,
			},
			expectedErr: gov.ErrNonMonotonicBoundaries,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			config, err := gov.DecodeProposalMeta(testDef.payload)
			if testDef.expectedErr != nil {
				require.ErrorIs(t, err, testDef.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testDef.expected, config)
		})
	}
}

func TestEncodeProposalMetaRoundTrip(t *testing.T) {
	testDefs := []gov.ProposalConfig{
		{},
		{
			OptionCount:      2,
			WinnerCount:      1,
			OptionBoundaries: []uint16{0, 3},
		},
		{
			OptionCount:      8,
			WinnerCount:      7,
			OptionBoundaries: []uint16{0, 1, 2, 3, 4, 5, 6, 7},
		},
		{
			OptionCount:      4,
			WinnerCount:      2,
			OptionBoundaries: []uint16{10, 300, 5000, 65000},
		},
	}
	for _, testDef := range testDefs {
		payload, err := gov.EncodeProposalMeta(testDef)
		require.NoError(t, err)
		decoded, err := gov.DecodeProposalMeta(payload)
		require.NoError(t, err)
		// Simple mode decodes with nil boundaries
		if testDef.IsSimple() {
			assert.Equal(t, gov.ProposalConfig{}, decoded)
			continue
		}
		assert.Equal(t, testDef, decoded)
	}
}

func TestEncodeProposalMetaInvalid(t *testing.T) {
	testDefs := []struct {
		name        string
		config      gov.ProposalConfig
		expectedErr error
	}{
		{
			name: "simple mode with boundaries",
			config: gov.ProposalConfig{
				OptionBoundaries: []uint16{0},
			},
			expectedErr: gov.ErrMalformedMetadata,
		},
		{
			name: "boundary count mismatch",
			config: gov.ProposalConfig{
				OptionCount:      3,
				WinnerCount:      1,
				OptionBoundaries: []uint16{0, 2},
			},
			expectedErr: gov.ErrMalformedMetadata,
		},
		{
			name: "unsorted boundaries",
			config: gov.ProposalConfig{
				OptionCount:      3,
				WinnerCount:      1,
				OptionBoundaries: []uint16{0, 5, 3},
			},
			expectedErr: gov.ErrNonMonotonicBoundaries,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := gov.EncodeProposalMeta(testDef.config)
			require.ErrorIs(t, err, testDef.expectedErr)
		})
	}
}

func TestProposalConfigNumBuckets(t *testing.T) {
	simple := gov.ProposalConfig{}
	assert.True(t, simple.IsSimple())
	assert.Equal(t, 3, simple.NumBuckets())
	multi := gov.ProposalConfig{
		OptionCount:      5,
		WinnerCount:      2,
		OptionBoundaries: []uint16{0, 1, 2, 3, 4},
	}
	assert.False(t, multi.IsSimple())
	assert.Equal(t, 5, multi.NumBuckets())
}
