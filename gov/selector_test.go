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
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testActionSet builds n actions whose target is the single-byte action
// index, making bundle contents easy to assert on.
func testActionSet(t *testing.T, n int) gov.ActionSet {
	t.Helper()
	actions := gov.ActionSet{
		Targets:  make([][]byte, n),
		Values:   make([]*uint256.Int, n),
		Payloads: make([][]byte, n),
	}
	for i := range n {
		actions.Targets[i] = []byte{byte(i)}
		actions.Values[i] = uint256.NewInt(uint64(i))
		actions.Payloads[i] = []byte{0xa0, byte(i)}
	}
	return actions
}

func testWeights(t *testing.T, values ...uint64) []*uint256.Int {
	t.Helper()
	weights := make([]*uint256.Int, len(values))
	for i, value := range values {
		weights[i] = uint256.NewInt(value)
	}
	return weights
}

func bundleTargets(bundle gov.ExecutionBundle) []byte {
	targets := make([]byte, 0, len(bundle.Targets))
	for _, target := range bundle.Targets {
		targets = append(targets, target...)
	}
	return targets
}

func TestSelectWinners(t *testing.T) {
	config := gov.ProposalConfig{
		OptionCount:      4,
		WinnerCount:      2,
		OptionBoundaries: []uint16{0, 2, 3, 5},
	}
	actions := testActionSet(t, 6)
	testDefs := []struct {
		name            string
		weights         []*uint256.Int
		expectedTargets []byte
	}{
		{
			name: "distinct weights",
			// Options 1 and 3 win; bundle covers actions [2,3) and [5,6)
			weights:         testWeights(t, 1, 50, 2, 10),
			expectedTargets: []byte{2, 5},
		},
		{
			name: "tie selects lowest index",
			// Options 0 and 1 tie at 10; both beat 5 and 1
			weights:         testWeights(t, 10, 10, 5, 1),
			expectedTargets: []byte{0, 1, 2},
		},
		{
			name: "all zero selects lowest indexes",
			weights:         testWeights(t, 0, 0, 0, 0),
			expectedTargets: []byte{0, 1, 2},
		},
		{
			name: "bundle order independent of win rank",
			// Option 3 outranks option 0, but the bundle still lists
			// option 0's actions first
			weights:         testWeights(t, 5, 1, 2, 50),
			expectedTargets: []byte{0, 1, 5},
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			bundle, err := gov.SelectWinners(config, testDef.weights, actions)
			require.NoError(t, err)
			assert.Equal(t, testDef.expectedTargets, bundleTargets(bundle))
			assert.Len(t, bundle.Values, bundle.Len())
			assert.Len(t, bundle.Payloads, bundle.Len())
		})
	}
}

func TestSelectWinnersRepeatable(t *testing.T) {
	config := gov.ProposalConfig{
		OptionCount:      3,
		WinnerCount:      1,
		OptionBoundaries: []uint16{0, 1, 2},
	}
	actions := testActionSet(t, 3)
	weights := testWeights(t, 1, 7, 3)
	first, err := gov.SelectWinners(config, weights, actions)
	require.NoError(t, err)
	// Selection must not mutate the weights snapshot
	assert.Equal(t, uint256.NewInt(7).Dec(), weights[1].Dec())
	second, err := gov.SelectWinners(config, weights, actions)
	require.NoError(t, err)
	assert.Equal(t, bundleTargets(first), bundleTargets(second))
}

func TestSelectWinnersSimpleMode(t *testing.T) {
	_, err := gov.SelectWinners(
		gov.ProposalConfig{},
		testWeights(t, 1, 2, 3),
		testActionSet(t, 1),
	)
	require.Error(t, err)
}

func TestSelectWinnersWeightCountMismatch(t *testing.T) {
	config := gov.ProposalConfig{
		OptionCount:      3,
		WinnerCount:      1,
		OptionBoundaries: []uint16{0, 1, 2},
	}
	_, err := gov.SelectWinners(
		config,
		testWeights(t, 1, 2),
		testActionSet(t, 3),
	)
	require.Error(t, err)
}

func TestSelectWinnersBoundaryOutOfRange(t *testing.T) {
	config := gov.ProposalConfig{
		OptionCount:      2,
		WinnerCount:      1,
		OptionBoundaries: []uint16{0, 5},
	}
	// Option 1 wins but its boundary starts past the action arrays
	_, err := gov.SelectWinners(
		config,
		testWeights(t, 1, 2),
		testActionSet(t, 3),
	)
	var boundaryErr gov.BoundaryOutOfRangeError
	require.ErrorAs(t, err, &boundaryErr)
	assert.Equal(t, 5, boundaryErr.Boundary())
	assert.Equal(t, 3, boundaryErr.ActionCount())
}

func TestSelectWinnersNilWeightTreatedAsZero(t *testing.T) {
	config := gov.ProposalConfig{
		OptionCount:      2,
		WinnerCount:      1,
		OptionBoundaries: []uint16{0, 1},
	}
	weights := []*uint256.Int{nil, uint256.NewInt(5)}
	bundle, err := gov.SelectWinners(config, weights, testActionSet(t, 2))
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, bundleTargets(bundle))
}
