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
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// SelectWinners picks the top-N options by accumulated weight and
// reduces the proposal's action arrays to only the winning options'
// contiguous slices. It is a pure function of (config, weights,
// actions) and may be safely recomputed, e.g. once for a queue preview
// and again for execution, as long as the tally is not mutated in
// between.
//
// Ties select the lowest option index; this tie-break is deterministic
// and part of the observable contract. The output bundle is assembled
// in ascending option-boundary order, not win-rank order, so action
// ordering is independent of the vote tallies.
func SelectWinners(
	config ProposalConfig,
	weights []*uint256.Int,
	actions ActionSet,
) (ExecutionBundle, error) {
	var bundle ExecutionBundle
	if config.IsSimple() {
		return bundle, errors.New(
			"winner selection requires a multi-option proposal",
		)
	}
	if err := actions.Validate(); err != nil {
		return bundle, err
	}
	optionCount := int(config.OptionCount)
	if len(weights) != optionCount {
		return bundle, fmt.Errorf(
			"%d weights for %d options",
			len(weights),
			optionCount,
		)
	}
	// Working copy so repeated selection never mutates the snapshot
	working := make([]*uint256.Int, optionCount)
	for i, weight := range weights {
		if weight == nil {
			weight = uint256.NewInt(0)
		}
		working[i] = weight.Clone()
	}
	// Bounded top-K scan: find the max, zero it out, repeat. On equal
	// weight the ascending scan keeps the lowest option index.
	isWinner := make([]bool, optionCount)
	for range int(config.WinnerCount) {
		maxIdx := -1
		for i := range optionCount {
			if isWinner[i] {
				continue
			}
			if maxIdx < 0 || working[i].Gt(working[maxIdx]) {
				maxIdx = i
			}
		}
		isWinner[maxIdx] = true
		working[maxIdx].Clear()
	}
	// Walk options in ascending index (and therefore ascending
	// boundary) order, copying each winning option's action slice
	actionCount := actions.Len()
	for i := range optionCount {
		if !isWinner[i] {
			continue
		}
		start := int(config.OptionBoundaries[i])
		if start >= actionCount {
			return ExecutionBundle{}, NewBoundaryOutOfRangeError(
				start,
				actionCount,
			)
		}
		end := actionCount
		if i+1 < optionCount {
			end = int(config.OptionBoundaries[i+1])
			if end > actionCount {
				return ExecutionBundle{}, NewBoundaryOutOfRangeError(
					end,
					actionCount,
				)
			}
		}
		bundle.Targets = append(bundle.Targets, actions.Targets[start:end]...)
		bundle.Values = append(bundle.Values, actions.Values[start:end]...)
		bundle.Payloads = append(
			bundle.Payloads,
			actions.Payloads[start:end]...,
		)
	}
	return bundle, nil
}
