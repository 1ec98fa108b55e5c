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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/blinklabs-io/caucus/database"
	"github.com/blinklabs-io/caucus/database/models"
	"github.com/blinklabs-io/caucus/event"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	ProposalCreatedEventType   event.EventType = "gov.proposal_created"
	VoteCountedEventType       event.EventType = "gov.vote_counted"
	ProposalFinalizedEventType event.EventType = "gov.proposal_finalized"
)

type ProposalCreatedEvent struct {
	ProposalId  ProposalId
	OptionCount uint8
	WinnerCount uint8
	ActionCount int
}

type VoteCountedEvent struct {
	ProposalId ProposalId
	Voter      string
	Applied    string
}

type ProposalFinalizedEvent struct {
	ProposalId  ProposalId
	Executed    bool
	ActionCount int
}

// WeightSource supplies each voter's weight at the fixed historical
// snapshot tied to a proposal. It is owned by the surrounding lifecycle
// manager, not by this engine.
type WeightSource interface {
	VoterWeight(proposalId ProposalId, voter string) (*uint256.Int, error)
}

// LifecycleSource gates when queueing/execution may run. The
// voting-period state machine itself lives outside this engine.
type LifecycleSource interface {
	ReadyToExecute(proposalId ProposalId) (bool, error)
}

// Executor receives the winning action bundle for execution.
type Executor interface {
	ExecuteActions(proposalId ProposalId, bundle ExecutionBundle) error
}

type GovernorConfig struct {
	Logger       *slog.Logger
	EventBus     *event.EventBus
	PromRegistry prometheus.Registerer
	Database     *database.Database
	Weights      WeightSource
	Lifecycle    LifecycleSource
	Executor     Executor
}

// proposalState is the arena entry for a single proposal: its tally,
// the original action arrays, and bookkeeping for persistence.
type proposalState struct {
	tally       *Tally
	actions     ActionSet
	metadata    []byte
	description string
	status      uint8
	rowId       uint
}

// Governor is the vote-tallying and winner-selection engine. It owns an
// arena of per-proposal tallies keyed by proposal id; tallies for
// different proposals are fully independent.
type Governor struct {
	config    GovernorConfig
	logger    *slog.Logger
	eventBus  *event.EventBus
	db        *database.Database
	metrics   *governorMetrics
	mutex     sync.RWMutex
	proposals map[ProposalId]*proposalState
}

func NewGovernor(config GovernorConfig) *Governor {
	g := &Governor{
		config:    config,
		eventBus:  config.EventBus,
		db:        config.Database,
		proposals: make(map[ProposalId]*proposalState),
	}
	if config.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		g.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		g.logger = config.Logger
	}
	if config.PromRegistry != nil {
		g.metrics = initGovernorMetrics(config.PromRegistry)
	}
	return g
}

// Propose decodes and validates the counting metadata, registers a new
// tally for the proposal, and persists the proposal record. The
// metadata payload is decoded exactly once here; execution paths use
// the stored structural config.
func (g *Governor) Propose(
	actions ActionSet,
	metadata []byte,
	description string,
) (ProposalId, error) {
	var id ProposalId
	if err := actions.Validate(); err != nil {
		return id, err
	}
	config, err := DecodeProposalMeta(metadata)
	if err != nil {
		return id, err
	}
	if !config.IsSimple() {
		// Boundary range against the real action count is only
		// checkable here, where both are known
		lastBoundary := int(
			config.OptionBoundaries[config.OptionCount-1],
		)
		if lastBoundary >= actions.Len() {
			return id, NewBoundaryOutOfRangeError(
				lastBoundary,
				actions.Len(),
			)
		}
	}
	id = ComputeProposalId(actions, description)
	state := &proposalState{
		tally:       NewTally(config),
		actions:     actions,
		metadata:    metadata,
		description: description,
		status:      models.ProposalStatusVoting,
	}
	g.mutex.Lock()
	if _, ok := g.proposals[id]; ok {
		g.mutex.Unlock()
		return id, ErrProposalExists
	}
	g.proposals[id] = state
	g.mutex.Unlock()
	if g.db != nil {
		actionsJson, err := json.Marshal(actions)
		if err != nil {
			return id, fmt.Errorf("encode proposal actions: %w", err)
		}
		proposal := &models.Proposal{
			ProposalId:  id[:],
			OptionCount: config.OptionCount,
			WinnerCount: config.WinnerCount,
			Metadata:    metadata,
			Actions:     actionsJson,
			Description: description,
			Status:      models.ProposalStatusVoting,
		}
		if err := g.db.SetProposal(proposal); err != nil {
			return id, fmt.Errorf("persist proposal %s: %w", id, err)
		}
		state.rowId = proposal.ID
	}
	if g.metrics != nil {
		g.metrics.proposalsTotal.Inc()
		g.metrics.openProposals.Inc()
	}
	g.logger.Info(
		"proposal created",
		"component", "gov",
		"proposal_id", id.String(),
		"option_count", config.OptionCount,
		"winner_count", config.WinnerCount,
		"action_count", actions.Len(),
	)
	if g.eventBus != nil {
		g.eventBus.Publish(
			ProposalCreatedEventType,
			event.NewEvent(
				ProposalCreatedEventType,
				ProposalCreatedEvent{
					ProposalId:  id,
					OptionCount: config.OptionCount,
					WinnerCount: config.WinnerCount,
					ActionCount: actions.Len(),
				},
			),
		)
	}
	return id, nil
}

// CountVote applies a single voter's vote to the proposal's tally. The
// voter's weight is looked up from the configured WeightSource at the
// proposal's snapshot. Returns the total weight credited.
func (g *Governor) CountVote(
	proposalId ProposalId,
	voter string,
	support uint8,
	params []byte,
) (*uint256.Int, error) {
	state, err := g.proposalState(proposalId)
	if err != nil {
		return nil, err
	}
	if g.config.Weights == nil {
		return nil, errors.New("no voter weight source configured")
	}
	weight, err := g.config.Weights.VoterWeight(proposalId, voter)
	if err != nil {
		return nil, fmt.Errorf(
			"lookup weight for voter %s: %w",
			voter,
			err,
		)
	}
	applied, err := state.tally.CountVote(voter, support, params, weight)
	if err != nil {
		if g.metrics != nil {
			g.metrics.voteErrorsTotal.Inc()
		}
		return nil, err
	}
	if g.db != nil && state.rowId > 0 {
		vote := &models.Vote{
			ProposalID: state.rowId,
			Voter:      voter,
			Support:    support,
			Params:     params,
			Weight:     weight.Dec(),
			Applied:    applied.Dec(),
		}
		if err := g.db.SetVote(vote); err != nil {
			g.logger.Error(
				"failed to persist vote",
				"component", "gov",
				"proposal_id", proposalId.String(),
				"voter", voter,
				"error", err,
			)
		}
	}
	if g.metrics != nil {
		g.metrics.votesTotal.Inc()
	}
	g.logger.Debug(
		"vote counted",
		"component", "gov",
		"proposal_id", proposalId.String(),
		"voter", voter,
		"applied", applied.Dec(),
	)
	if g.eventBus != nil {
		g.eventBus.Publish(
			VoteCountedEventType,
			event.NewEvent(
				VoteCountedEventType,
				VoteCountedEvent{
					ProposalId: proposalId,
					Voter:      voter,
					Applied:    applied.Dec(),
				},
			),
		)
	}
	return applied, nil
}

// TallyResult is a read-only view of a proposal's tally for UI/audit.
type TallyResult struct {
	OptionCount uint8
	WinnerCount uint8
	Weights     []*uint256.Int
	VoterCount  int
}

// ProposalTally returns the per-option accumulated weights for a
// proposal. The returned weights are clones of the live accumulators.
func (g *Governor) ProposalTally(
	proposalId ProposalId,
) (TallyResult, error) {
	state, err := g.proposalState(proposalId)
	if err != nil {
		return TallyResult{}, err
	}
	config := state.tally.Config()
	return TallyResult{
		OptionCount: config.OptionCount,
		WinnerCount: config.WinnerCount,
		Weights:     state.tally.Weights(),
		VoterCount:  state.tally.VoterCount(),
	}, nil
}

// HasVoted returns true if the given voter has already voted on the
// proposal.
func (g *Governor) HasVoted(
	proposalId ProposalId,
	voter string,
) (bool, error) {
	state, err := g.proposalState(proposalId)
	if err != nil {
		return false, err
	}
	return state.tally.HasVoted(voter), nil
}

// ProposalInfo is a read-only description of a proposal.
type ProposalInfo struct {
	ProposalId  ProposalId
	Config      ProposalConfig
	Description string
	ActionCount int
	Status      uint8
}

// Proposal returns descriptive information about a proposal.
func (g *Governor) Proposal(
	proposalId ProposalId,
) (ProposalInfo, error) {
	state, err := g.proposalState(proposalId)
	if err != nil {
		return ProposalInfo{}, err
	}
	g.mutex.RLock()
	status := state.status
	g.mutex.RUnlock()
	return ProposalInfo{
		ProposalId:  proposalId,
		Config:      state.tally.Config(),
		Description: state.description,
		ActionCount: state.actions.Len(),
		Status:      status,
	}, nil
}

// Queue computes the winning action bundle for the proposal without
// handing it to the executor. Simple-mode proposals have no options to
// select between; the bundle is the full original action set.
func (g *Governor) Queue(proposalId ProposalId) (ExecutionBundle, error) {
	return g.finalize(proposalId, false)
}

// Execute computes the winning action bundle and hands it to the
// configured executor. SelectWinners is a pure function of the tally
// snapshot, so a Queue followed by an Execute yields the same bundle
// provided no votes land in between.
func (g *Governor) Execute(
	proposalId ProposalId,
) (ExecutionBundle, error) {
	return g.finalize(proposalId, true)
}

func (g *Governor) finalize(
	proposalId ProposalId,
	execute bool,
) (ExecutionBundle, error) {
	var bundle ExecutionBundle
	state, err := g.proposalState(proposalId)
	if err != nil {
		return bundle, err
	}
	if g.config.Lifecycle != nil {
		ready, err := g.config.Lifecycle.ReadyToExecute(proposalId)
		if err != nil {
			return bundle, fmt.Errorf(
				"lifecycle check for proposal %s: %w",
				proposalId,
				err,
			)
		}
		if !ready {
			return bundle, ErrNotReadyToExecute
		}
	}
	config := state.tally.Config()
	if config.IsSimple() {
		bundle = ExecutionBundle{
			Targets:  state.actions.Targets,
			Values:   state.actions.Values,
			Payloads: state.actions.Payloads,
		}
	} else {
		bundle, err = SelectWinners(
			config,
			state.tally.Weights(),
			state.actions,
		)
		if err != nil {
			return ExecutionBundle{}, err
		}
	}
	if execute && g.config.Executor != nil {
		if err := g.config.Executor.ExecuteActions(
			proposalId,
			bundle,
		); err != nil {
			return ExecutionBundle{}, fmt.Errorf(
				"execute proposal %s: %w",
				proposalId,
				err,
			)
		}
	}
	newStatus := models.ProposalStatusQueued
	if execute {
		newStatus = models.ProposalStatusExecuted
	}
	g.mutex.Lock()
	wasOpen := state.status == models.ProposalStatusVoting
	state.status = newStatus
	g.mutex.Unlock()
	if g.db != nil {
		if err := g.db.SetProposalStatus(
			proposalId[:],
			newStatus,
		); err != nil {
			g.logger.Error(
				"failed to persist proposal status",
				"component", "gov",
				"proposal_id", proposalId.String(),
				"error", err,
			)
		}
	}
	if g.metrics != nil {
		g.metrics.finalizationsTotal.Inc()
		if wasOpen {
			g.metrics.openProposals.Dec()
		}
	}
	g.logger.Info(
		"proposal finalized",
		"component", "gov",
		"proposal_id", proposalId.String(),
		"executed", execute,
		"bundle_actions", bundle.Len(),
	)
	if g.eventBus != nil {
		g.eventBus.Publish(
			ProposalFinalizedEventType,
			event.NewEvent(
				ProposalFinalizedEventType,
				ProposalFinalizedEvent{
					ProposalId:  proposalId,
					Executed:    execute,
					ActionCount: bundle.Len(),
				},
			),
		)
	}
	return bundle, nil
}

// Restore rebuilds the in-memory tally arena from the database by
// replaying persisted votes through the counting engine. Replay is
// deterministic, so the rebuilt tallies match the pre-restart state
// exactly.
func (g *Governor) Restore() error {
	if g.db == nil {
		return nil
	}
	proposals, err := g.db.GetProposals()
	if err != nil {
		return fmt.Errorf("load proposals: %w", err)
	}
	for _, proposal := range proposals {
		config, err := DecodeProposalMeta(proposal.Metadata)
		if err != nil {
			return fmt.Errorf(
				"decode metadata for proposal %x: %w",
				proposal.ProposalId,
				err,
			)
		}
		var actions ActionSet
		if err := json.Unmarshal(proposal.Actions, &actions); err != nil {
			return fmt.Errorf(
				"decode actions for proposal %x: %w",
				proposal.ProposalId,
				err,
			)
		}
		var id ProposalId
		copy(id[:], proposal.ProposalId)
		state := &proposalState{
			tally:       NewTally(config),
			actions:     actions,
			metadata:    proposal.Metadata,
			description: proposal.Description,
			status:      proposal.Status,
			rowId:       proposal.ID,
		}
		votes, err := g.db.GetVotes(proposal.ID)
		if err != nil {
			return fmt.Errorf(
				"load votes for proposal %x: %w",
				proposal.ProposalId,
				err,
			)
		}
		for _, vote := range votes {
			weight, err := uint256.FromDecimal(vote.Weight)
			if err != nil {
				return fmt.Errorf(
					"decode weight for voter %s on proposal %x: %w",
					vote.Voter,
					proposal.ProposalId,
					err,
				)
			}
			if _, err := state.tally.CountVote(
				vote.Voter,
				vote.Support,
				vote.Params,
				weight,
			); err != nil {
				return fmt.Errorf(
					"replay vote by %s on proposal %x: %w",
					vote.Voter,
					proposal.ProposalId,
					err,
				)
			}
		}
		g.mutex.Lock()
		g.proposals[id] = state
		g.mutex.Unlock()
		if g.metrics != nil {
			g.metrics.proposalsTotal.Inc()
			if state.status == models.ProposalStatusVoting {
				g.metrics.openProposals.Inc()
			}
		}
	}
	g.logger.Info(
		"restored proposals from database",
		"component", "gov",
		"count", len(proposals),
	)
	return nil
}

// ProposalIds returns the ids of all known proposals.
func (g *Governor) ProposalIds() []ProposalId {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	ids := make([]ProposalId, 0, len(g.proposals))
	for id := range g.proposals {
		ids = append(ids, id)
	}
	return ids
}

func (g *Governor) proposalState(
	proposalId ProposalId,
) (*proposalState, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	state, ok := g.proposals[proposalId]
	if !ok {
		return nil, ErrProposalNotFound
	}
	return state, nil
}
