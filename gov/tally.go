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
	"sync"

	"github.com/holiman/uint256"
)

// Tally is the mutable per-proposal voting state: the counting
// configuration, one accumulated weight per option, and the set of
// voters that have already voted. A Tally is exclusively owned by its
// proposal and is never shared across proposals. All weight accumulators
// are only ever incremented.
//
// The embedded mutex serializes the read-check-write sequence of
// CountVote, so the double-vote check and the weight accumulation are
// observed atomically together. Votes on different proposals take
// different locks and run fully in parallel.
type Tally struct {
	mutex        sync.Mutex
	config       ProposalConfig
	optionWeight []*uint256.Int
	hasVoted     map[string]bool
}

// NewTally creates an empty tally for the given counting configuration.
func NewTally(config ProposalConfig) *Tally {
	optionWeight := make([]*uint256.Int, config.NumBuckets())
	for i := range optionWeight {
		optionWeight[i] = uint256.NewInt(0)
	}
	return &Tally{
		config:       config,
		optionWeight: optionWeight,
		hasVoted:     make(map[string]bool),
	}
}

// Config returns the tally's counting configuration. The config is
// immutable once set.
func (t *Tally) Config() ProposalConfig {
	return t.config
}

// HasVoted returns true if the given voter has already cast a vote.
func (t *Tally) HasVoted(voter string) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.hasVoted[voter]
}

// VoterCount returns the number of voters that have cast a vote.
func (t *Tally) VoterCount() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return len(t.hasVoted)
}

// Weights returns a snapshot of the per-option accumulated weights. The
// returned values are clones; mutating them does not affect the tally.
func (t *Tally) Weights() []*uint256.Int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.snapshotWeights()
}

// snapshotWeights clones the weight accumulators. Callers must hold the
// tally mutex.
func (t *Tally) snapshotWeights() []*uint256.Int {
	weights := make([]*uint256.Int, len(t.optionWeight))
	for i, weight := range t.optionWeight {
		weights[i] = weight.Clone()
	}
	return weights
}
