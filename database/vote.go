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

package database

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/caucus/database/models"
	"gorm.io/gorm"
)

// SetVote records a vote on a proposal. Votes are append-only; the
// unique index on (proposal, voter) backs up the engine's in-memory
// double-vote check.
func (d *Database) SetVote(vote *models.Vote) error {
	if vote == nil {
		return errors.New("vote cannot be nil")
	}
	if result := d.db.Create(vote); result.Error != nil {
		return fmt.Errorf("failed to set vote: %w", result.Error)
	}
	return nil
}

// GetVotes returns all votes for a proposal row in cast order.
func (d *Database) GetVotes(proposalID uint) ([]*models.Vote, error) {
	var votes []*models.Vote
	if result := d.db.Where(
		"proposal_id = ?",
		proposalID,
	).Order("id").Find(&votes); result.Error != nil {
		return nil, fmt.Errorf(
			"failed to get votes: %w",
			result.Error,
		)
	}
	return votes, nil
}

// GetVote returns a single voter's vote on a proposal, or nil if the
// voter has not voted.
func (d *Database) GetVote(
	proposalID uint,
	voter string,
) (*models.Vote, error) {
	var vote models.Vote
	if result := d.db.Where(
		"proposal_id = ? AND voter = ?",
		proposalID,
		voter,
	).First(&vote); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vote: %w", result.Error)
	}
	return &vote, nil
}
