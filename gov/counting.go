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
	"fmt"

	"github.com/holiman/uint256"
)

// Simple-mode vote choices. The choice doubles as the tally bucket
// index, so the ordering here is part of the persisted state layout.
const (
	ChoiceAgainst uint8 = 0
	ChoiceFor     uint8 = 1
	ChoiceAbstain uint8 = 2

	simpleChoiceCount = 3

	// CoefficientLen is the fixed width of a single weighted-vote
	// coefficient in the params buffer.
	CoefficientLen = 32
)

// votePolicy is the counting policy variant resolved once per vote from
// the proposal's option count and the presence/length of the
// coefficient buffer.
type votePolicy int

const (
	policySimple votePolicy = iota
	policyApproval
	policyWeighted
)

// resolvePolicy maps (config, params) to a counting policy. Simple-mode
// proposals ignore any supplied coefficient buffer. Multi-option
// proposals treat an empty buffer as approval voting and a non-empty
// buffer as weighted voting, which must then be exactly one
// fixed-width coefficient per option.
func resolvePolicy(
	config ProposalConfig,
	params []byte,
) (votePolicy, error) {
	if config.IsSimple() {
		return policySimple, nil
	}
	if len(params) == 0 {
		return policyApproval, nil
	}
	wantLen := int(config.OptionCount) * CoefficientLen
	if len(params) != wantLen {
		return 0, NewInvalidCoefficientLengthError(len(params), wantLen)
	}
	return policyWeighted, nil
}

// CountVote applies a single vote to the tally and returns the total
// weight actually credited across options. The voter is marked as
// having voted even when the vote credits nothing (a zero-weight voter
// or a decorative abstain). A vote that fails validation leaves the
// tally completely untouched, including the hasVoted set.
//
// support is the choice selector: one of ChoiceAgainst/ChoiceFor/
// ChoiceAbstain in simple mode, or an option bitmap in multi-option
// mode (bit i set approves option i). params is the optional weighted
// coefficient buffer.
func (t *Tally) CountVote(
	voter string,
	support uint8,
	params []byte,
	weight *uint256.Int,
) (*uint256.Int, error) {
	if weight == nil {
		weight = uint256.NewInt(0)
	}
	policy, err := resolvePolicy(t.config, params)
	if err != nil {
		return nil, err
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.hasVoted[voter] {
		return nil, ErrAlreadyVoted
	}
	var applied *uint256.Int
	switch policy {
	case policySimple:
		applied, err = t.countSimple(support, weight)
	case policyApproval:
		applied, err = t.countApproval(support, weight)
	case policyWeighted:
		applied, err = t.countWeighted(support, params, weight)
	default:
		err = fmt.Errorf("unknown counting policy: %d", policy)
	}
	if err != nil {
		return nil, err
	}
	// Floor division guarantees this mathematically; a violation means
	// the accumulation above corrupted the tally
	if applied.Gt(weight) {
		panic(fmt.Sprintf(
			"vote weight conservation violated: applied %s > weight %s",
			applied.Dec(),
			weight.Dec(),
		))
	}
	t.hasVoted[voter] = true
	return applied, nil
}

// countSimple credits the full weight to exactly one of the three
// ternary buckets.
func (t *Tally) countSimple(
	support uint8,
	weight *uint256.Int,
) (*uint256.Int, error) {
	if support >= simpleChoiceCount {
		return nil, fmt.Errorf(
			"%w: simple-mode choice %d not in {against, for, abstain}",
			ErrInvalidChoice,
			support,
		)
	}
	t.optionWeight[support].Add(t.optionWeight[support], weight)
	return weight.Clone(), nil
}

// countApproval credits the voter's full weight to every option whose
// bit is set in the selector. This is approval voting, not splitting: a
// vote for three options adds the full weight to each of the three.
func (t *Tally) countApproval(
	support uint8,
	weight *uint256.Int,
) (*uint256.Int, error) {
	if int(support) >= 1<<t.config.OptionCount {
		return nil, fmt.Errorf(
			"%w: selector %#x sets bits beyond option %d",
			ErrInvalidChoice,
			support,
			t.config.OptionCount-1,
		)
	}
	applied := uint256.NewInt(0)
	for i := range int(t.config.OptionCount) {
		if support&(1<<i) == 0 {
			continue
		}
		t.optionWeight[i].Add(t.optionWeight[i], weight)
		applied.Add(applied, weight)
	}
	// Approval credits full weight per option, which may legitimately
	// exceed the voter's weight in aggregate. Conservation applies per
	// option, so report at most the voter's weight upward.
	if applied.Gt(weight) {
		applied.Set(weight)
	}
	return applied, nil
}

// countWeighted distributes the voter's weight proportionally across
// the selected options using the fixed-width coefficients in params.
// Multiplication happens before division (512-bit intermediate) so no
// precision is lost to pre-dividing.
func (t *Tally) countWeighted(
	support uint8,
	params []byte,
	weight *uint256.Int,
) (*uint256.Int, error) {
	if int(support) >= 1<<t.config.OptionCount {
		return nil, fmt.Errorf(
			"%w: selector %#x sets bits beyond option %d",
			ErrInvalidChoice,
			support,
			t.config.OptionCount-1,
		)
	}
	optionCount := int(t.config.OptionCount)
	coefficients := make([]*uint256.Int, optionCount)
	denominator := uint256.NewInt(0)
	for i := range optionCount {
		if support&(1<<i) == 0 {
			continue
		}
		coefficient := new(uint256.Int).SetBytes(
			params[i*CoefficientLen : (i+1)*CoefficientLen],
		)
		coefficients[i] = coefficient
		var overflow bool
		_, overflow = denominator.AddOverflow(denominator, coefficient)
		if overflow {
			return nil, ErrCoefficientOverflow
		}
	}
	if denominator.IsZero() {
		return nil, ErrZeroWeightVote
	}
	applied := uint256.NewInt(0)
	for i := range optionCount {
		if coefficients[i] == nil {
			continue
		}
		share, overflow := new(uint256.Int).MulDivOverflow(
			weight,
			coefficients[i],
			denominator,
		)
		if overflow {
			// coefficient <= denominator implies share <= weight
			panic(fmt.Sprintf(
				"weighted vote share overflow: weight %s coeff %s denom %s",
				weight.Dec(),
				coefficients[i].Dec(),
				denominator.Dec(),
			))
		}
		t.optionWeight[i].Add(t.optionWeight[i], share)
		applied.Add(applied, share)
	}
	return applied, nil
}
