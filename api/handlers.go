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

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/blinklabs-io/caucus/database/models"
	"github.com/blinklabs-io/caucus/gov"
	"github.com/holiman/uint256"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(
	w http.ResponseWriter,
	status int,
	v any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(
	w http.ResponseWriter,
	status int,
	errStr string,
	message string,
) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      errStr,
		Message:    message,
	})
}

// writeGovError maps engine errors onto HTTP statuses.
func writeGovError(w http.ResponseWriter, err error) {
	var coeffLenErr gov.InvalidCoefficientLengthError
	var boundaryErr gov.BoundaryOutOfRangeError
	switch {
	case errors.Is(err, gov.ErrProposalNotFound):
		writeError(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, gov.ErrAlreadyVoted),
		errors.Is(err, gov.ErrProposalExists):
		writeError(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, gov.ErrInvalidChoice),
		errors.Is(err, gov.ErrZeroWeightVote),
		errors.Is(err, gov.ErrCoefficientOverflow),
		errors.Is(err, gov.ErrMalformedMetadata),
		errors.Is(err, gov.ErrNonMonotonicBoundaries),
		errors.As(err, &coeffLenErr),
		errors.As(err, &boundaryErr):
		writeError(w, http.StatusBadRequest, "Bad Request", err.Error())
	default:
		writeError(
			w,
			http.StatusInternalServerError,
			"Internal Server Error",
			err.Error(),
		)
	}
}

func proposalStatusString(status uint8) string {
	switch status {
	case models.ProposalStatusVoting:
		return "voting"
	case models.ProposalStatusQueued:
		return "queued"
	case models.ProposalStatusExecuted:
		return "executed"
	default:
		return "unknown"
	}
}

// handleHealth handles GET /health.
func (a *Api) handleHealth(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, HealthResponse{
		IsHealthy: true,
	})
}

// handleListProposals handles GET /proposals and returns the known
// proposal ids.
func (a *Api) handleListProposals(
	w http.ResponseWriter,
	_ *http.Request,
) {
	ids := a.governor.ProposalIds()
	resp := make([]string, 0, len(ids))
	for _, id := range ids {
		resp = append(resp, id.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleProposal handles GET /proposals/{id}.
func (a *Api) handleProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, err := gov.ProposalIdFromHex(r.PathValue("id"))
	if err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"malformed proposal id",
		)
		return
	}
	info, err := a.governor.Proposal(id)
	if err != nil {
		writeGovError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProposalResponse{
		ProposalId:  info.ProposalId.String(),
		OptionCount: info.Config.OptionCount,
		WinnerCount: info.Config.WinnerCount,
		Boundaries:  info.Config.OptionBoundaries,
		Description: info.Description,
		ActionCount: info.ActionCount,
		Status:      proposalStatusString(info.Status),
	})
}

// handleTally handles GET /proposals/{id}/tally.
func (a *Api) handleTally(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, err := gov.ProposalIdFromHex(r.PathValue("id"))
	if err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"malformed proposal id",
		)
		return
	}
	tally, err := a.governor.ProposalTally(id)
	if err != nil {
		writeGovError(w, err)
		return
	}
	weights := make([]string, 0, len(tally.Weights))
	for _, weight := range tally.Weights {
		weights = append(weights, weight.Dec())
	}
	writeJSON(w, http.StatusOK, TallyResponse{
		ProposalId:  id.String(),
		OptionCount: tally.OptionCount,
		WinnerCount: tally.WinnerCount,
		Weights:     weights,
		VoterCount:  tally.VoterCount,
	})
}

// handleVoterStatus handles GET /proposals/{id}/votes/{voter}.
func (a *Api) handleVoterStatus(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, err := gov.ProposalIdFromHex(r.PathValue("id"))
	if err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"malformed proposal id",
		)
		return
	}
	voter := r.PathValue("voter")
	hasVoted, err := a.governor.HasVoted(id, voter)
	if err != nil {
		writeGovError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VoterStatusResponse{
		ProposalId: id.String(),
		Voter:      voter,
		HasVoted:   hasVoted,
	})
}

// handleCreateProposal handles POST /proposals.
func (a *Api) handleCreateProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"malformed request body",
		)
		return
	}
	actions := gov.ActionSet{
		Targets:  make([][]byte, 0, len(req.Targets)),
		Values:   make([]*uint256.Int, 0, len(req.Values)),
		Payloads: make([][]byte, 0, len(req.Payloads)),
	}
	for _, target := range req.Targets {
		raw, err := hex.DecodeString(target)
		if err != nil {
			writeError(
				w,
				http.StatusBadRequest,
				"Bad Request",
				"malformed target",
			)
			return
		}
		actions.Targets = append(actions.Targets, raw)
	}
	for _, value := range req.Values {
		parsed, err := uint256.FromDecimal(value)
		if err != nil {
			writeError(
				w,
				http.StatusBadRequest,
				"Bad Request",
				"malformed value",
			)
			return
		}
		actions.Values = append(actions.Values, parsed)
	}
	for _, payload := range req.Payloads {
		raw, err := hex.DecodeString(payload)
		if err != nil {
			writeError(
				w,
				http.StatusBadRequest,
				"Bad Request",
				"malformed payload",
			)
			return
		}
		actions.Payloads = append(actions.Payloads, raw)
	}
	metadata, err := hex.DecodeString(req.Metadata)
	if err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"malformed metadata",
		)
		return
	}
	id, err := a.governor.Propose(actions, metadata, req.Description)
	if err != nil {
		writeGovError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateProposalResponse{
		ProposalId: id.String(),
	})
}

// handleCastVote handles POST /proposals/{id}/votes.
func (a *Api) handleCastVote(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, err := gov.ProposalIdFromHex(r.PathValue("id"))
	if err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"malformed proposal id",
		)
		return
	}
	var req CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"malformed request body",
		)
		return
	}
	if req.Voter == "" {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"voter is required",
		)
		return
	}
	params, err := hex.DecodeString(req.Params)
	if err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"malformed params",
		)
		return
	}
	applied, err := a.governor.CountVote(id, req.Voter, req.Support, params)
	if err != nil {
		writeGovError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CastVoteResponse{
		Applied: applied.Dec(),
	})
}
