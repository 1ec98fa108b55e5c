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

package api

// ErrorResponse is the common error payload.
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	IsHealthy bool `json:"is_healthy"`
}

// ProposalResponse represents a proposal object.
type ProposalResponse struct {
	ProposalId  string   `json:"proposal_id"`
	OptionCount uint8    `json:"option_count"`
	WinnerCount uint8    `json:"winner_count"`
	Boundaries  []uint16 `json:"option_boundaries,omitempty"`
	Description string   `json:"description"`
	ActionCount int      `json:"action_count"`
	Status      string   `json:"status"`
}

// TallyResponse represents a proposal's tally. Weights are decimal
// strings since accumulated weights are 256-bit.
type TallyResponse struct {
	ProposalId  string   `json:"proposal_id"`
	OptionCount uint8    `json:"option_count"`
	WinnerCount uint8    `json:"winner_count"`
	Weights     []string `json:"weights"`
	VoterCount  int      `json:"voter_count"`
}

// VoterStatusResponse is returned by GET /proposals/{id}/votes/{voter}.
type VoterStatusResponse struct {
	ProposalId string `json:"proposal_id"`
	Voter      string `json:"voter"`
	HasVoted   bool   `json:"has_voted"`
}

// CreateProposalRequest is the POST /proposals body. Targets, payloads,
// and metadata are hex; values are decimal strings.
type CreateProposalRequest struct {
	Targets     []string `json:"targets"`
	Values      []string `json:"values"`
	Payloads    []string `json:"payloads"`
	Metadata    string   `json:"metadata"`
	Description string   `json:"description"`
}

// CreateProposalResponse is returned by POST /proposals.
type CreateProposalResponse struct {
	ProposalId string `json:"proposal_id"`
}

// CastVoteRequest is the POST /proposals/{id}/votes body. Params is the
// hex-encoded weighted coefficient buffer, empty for simple/approval
// votes.
type CastVoteRequest struct {
	Voter   string `json:"voter"`
	Support uint8  `json:"support"`
	Params  string `json:"params,omitempty"`
}

// CastVoteResponse is returned by POST /proposals/{id}/votes.
type CastVoteResponse struct {
	Applied string `json:"applied"`
}
