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

import "time"

// Vote is the audit record of a single cast vote: the raw support
// selector and coefficient buffer as submitted, plus the voter's weight
// and the weight actually credited (both decimal strings, since weights
// are 256-bit). The in-memory tally is rebuilt by replaying these rows
// in order on restart.
type Vote struct {
	ID         uint   `gorm:"primarykey"`
	ProposalID uint   `gorm:"index:idx_vote_proposal;uniqueIndex:idx_vote_unique,priority:1;not null"`
	Voter      string `gorm:"uniqueIndex:idx_vote_unique,priority:2;size:128;not null"`
	Support    uint8  `gorm:"not null"`
	Params     []byte
	Weight     string `gorm:"size:80;not null"` // decimal, fits 2^256-1
	Applied    string `gorm:"size:80;not null"`
	CreatedAt  time.Time
}

// TableName returns the table name
func (Vote) TableName() string {
	return "vote"
}
