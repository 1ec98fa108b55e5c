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

// StaticWeightSource is a map-backed WeightSource for development and
// testing. Production deployments wire a snapshot-aware ledger source
// instead. Voters without an entry have zero weight.
type StaticWeightSource struct {
	mutex   sync.RWMutex
	weights map[string]*uint256.Int
}

func NewStaticWeightSource() *StaticWeightSource {
	return &StaticWeightSource{
		weights: make(map[string]*uint256.Int),
	}
}

// SetWeight assigns a voter's weight for all proposals.
func (s *StaticWeightSource) SetWeight(voter string, weight *uint256.Int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.weights[voter] = weight.Clone()
}

// VoterWeight implements WeightSource.
func (s *StaticWeightSource) VoterWeight(
	_ ProposalId,
	voter string,
) (*uint256.Int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if weight, ok := s.weights[voter]; ok {
		return weight.Clone(), nil
	}
	return uint256.NewInt(0), nil
}
