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

package models

import (
	"errors"
	"time"
)

var ErrProposalNotFound = errors.New("proposal not found")

// ProposalStatus constants track where a proposal is in its lifecycle.
const (
	ProposalStatusVoting   uint8 = 0
	ProposalStatusQueued   uint8 = 1
	ProposalStatusExecuted uint8 = 2
)

// Proposal represents a governance decision record: its counting
// configuration (stored both structurally and as the raw metadata
// payload, which is a wire contract), the candidate action arrays, and
// the lifecycle status.
type Proposal struct {
	ID          uint   `gorm:"primarykey"`
	ProposalId  []byte `gorm:"uniqueIndex;size:32;not null"`
	OptionCount uint8  `gorm:"not null"`
	WinnerCount uint8  `gorm:"not null"`
	Metadata    []byte // raw metadata payload as submitted
	Actions     []byte `gorm:"not null"` // JSON-encoded action arrays
	Description string `gorm:"size:1024"`
	Status      uint8  `gorm:"index;not null"` // ProposalStatus enum
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name
func (Proposal) TableName() string {
	return "proposal"
}
