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

// SetProposal creates a proposal record. The proposal's row ID is
// populated on return.
func (d *Database) SetProposal(proposal *models.Proposal) error {
	if proposal == nil {
		return errors.New("proposal cannot be nil")
	}
	if result := d.db.Create(proposal); result.Error != nil {
		return fmt.Errorf("failed to set proposal: %w", result.Error)
	}
	return nil
}

// GetProposal returns a proposal by its 32-byte proposal id.
func (d *Database) GetProposal(
	proposalId []byte,
) (*models.Proposal, error) {
	var proposal models.Proposal
	if result := d.db.Where(
		"proposal_id = ?",
		proposalId,
	).First(&proposal); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrProposalNotFound
		}
		return nil, fmt.Errorf(
			"failed to get proposal: %w",
			result.Error,
		)
	}
	return &proposal, nil
}

// GetProposals returns all proposals in creation order.
func (d *Database) GetProposals() ([]*models.Proposal, error) {
	var proposals []*models.Proposal
	if result := d.db.Order("id").Find(&proposals); result.Error != nil {
		return nil, fmt.Errorf(
			"failed to get proposals: %w",
			result.Error,
		)
	}
	return proposals, nil
}

// SetProposalStatus updates a proposal's lifecycle status.
func (d *Database) SetProposalStatus(
	proposalId []byte,
	status uint8,
) error {
	result := d.db.Model(&models.Proposal{}).
		Where("proposal_id = ?", proposalId).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf(
			"failed to set proposal status: %w",
			result.Error,
		)
	}
	if result.RowsAffected == 0 {
		return models.ErrProposalNotFound
	}
	return nil
}
