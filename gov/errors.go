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
)

var (
	ErrMalformedMetadata = errors.New(
		"malformed proposal metadata",
	)
	ErrNonMonotonicBoundaries = errors.New(
		"option boundaries are not strictly increasing",
	)
	ErrInvalidChoice = errors.New(
		"vote choice does not conform to the proposal counting policy",
	)
	ErrZeroWeightVote = errors.New(
		"weighted vote has a zero coefficient sum",
	)
	ErrCoefficientOverflow = errors.New(
		"weighted vote coefficient sum overflows 256 bits",
	)
	ErrAlreadyVoted = errors.New(
		"voter has already cast a vote on this proposal",
	)
	ErrProposalNotFound = errors.New(
		"proposal not found",
	)
	ErrProposalExists = errors.New(
		"proposal already exists",
	)
	ErrNotReadyToExecute = errors.New(
		"proposal is not ready for execution",
	)
)

// InvalidCoefficientLengthError is returned when a weighted vote's
// coefficient buffer does not match the exact size implied by the
// proposal's option count.
type InvalidCoefficientLengthError struct {
	gotLen  int
	wantLen int
}

func NewInvalidCoefficientLengthError(
	gotLen int,
	wantLen int,
) InvalidCoefficientLengthError {
	return InvalidCoefficientLengthError{
		gotLen:  gotLen,
		wantLen: wantLen,
	}
}

func (e InvalidCoefficientLengthError) GotLen() int {
	return e.gotLen
}

func (e InvalidCoefficientLengthError) WantLen() int {
	return e.wantLen
}

func (e InvalidCoefficientLengthError) Error() string {
	return fmt.Sprintf(
		"coefficient buffer is %d bytes, expected exactly %d",
		e.gotLen,
		e.wantLen,
	)
}

// BoundaryOutOfRangeError is returned when an option boundary references
// an offset at or beyond the end of the proposal's action arrays.
type BoundaryOutOfRangeError struct {
	boundary    int
	actionCount int
}

func NewBoundaryOutOfRangeError(
	boundary int,
	actionCount int,
) BoundaryOutOfRangeError {
	return BoundaryOutOfRangeError{
		boundary:    boundary,
		actionCount: actionCount,
	}
}

func (e BoundaryOutOfRangeError) Boundary() int {
	return e.boundary
}

func (e BoundaryOutOfRangeError) ActionCount() int {
	return e.actionCount
}

func (e BoundaryOutOfRangeError) Error() string {
	return fmt.Sprintf(
		"option boundary %d out of range for %d actions",
		e.boundary,
		e.actionCount,
	)
}
