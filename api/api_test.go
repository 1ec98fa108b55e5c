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

package api_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blinklabs-io/caucus/api"
	"github.com/blinklabs-io/caucus/gov"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) (*httptest.Server, *gov.Governor) {
	t.Helper()
	weights := gov.NewStaticWeightSource()
	weights.SetWeight("alice", uint256.NewInt(100))
	governor := gov.NewGovernor(gov.GovernorConfig{
		Weights: weights,
	})
	apiServer := api.New(api.ApiConfig{}, governor, nil)
	server := httptest.NewServer(apiServer.Handler())
	t.Cleanup(server.Close)
	return server, governor
}

func createTestProposal(
	t *testing.T,
	governor *gov.Governor,
	metadata []byte,
) gov.ProposalId {
	t.Helper()
	actions := gov.ActionSet{
		Targets: [][]byte{{0x01}, {0x02}},
		Values: []*uint256.Int{
			uint256.NewInt(0),
			uint256.NewInt(0),
		},
		Payloads: [][]byte{{0xaa}, {0xbb}},
	}
	id, err := governor.Propose(actions, metadata, "test proposal")
	require.NoError(t, err)
	return id
}

func doJSON(
	t *testing.T,
	method string,
	url string,
	body any,
	out any,
) int {
	t.Helper()
	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}
	req, err := http.NewRequest(method, url, &reqBody)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestApiHealth(t *testing.T) {
	server, _ := testServer(t)
	var resp api.HealthResponse
	status := doJSON(t, http.MethodGet, server.URL+"/health", nil, &resp)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, resp.IsHealthy)
}

func TestApiProposalLifecycle(t *testing.T) {
	server, governor := testServer(t)
	id := createTestProposal(t, governor, nil)

	var listResp []string
	status := doJSON(
		t,
		http.MethodGet,
		server.URL+"/proposals",
		nil,
		&listResp,
	)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, listResp, 1)
	assert.Equal(t, id.String(), listResp[0])

	var propResp api.ProposalResponse
	status = doJSON(
		t,
		http.MethodGet,
		server.URL+"/proposals/"+id.String(),
		nil,
		&propResp,
	)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, id.String(), propResp.ProposalId)
	assert.Equal(t, "test proposal", propResp.Description)
	assert.Equal(t, 2, propResp.ActionCount)
	assert.Equal(t, "voting", propResp.Status)
}

func TestApiCastVoteAndTally(t *testing.T) {
	server, governor := testServer(t)
	id := createTestProposal(t, governor, nil)

	var voteResp api.CastVoteResponse
	status := doJSON(
		t,
		http.MethodPost,
		server.URL+"/proposals/"+id.String()+"/votes",
		api.CastVoteRequest{
			Voter:   "alice",
			Support: 1,
		},
		&voteResp,
	)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "100", voteResp.Applied)

	// Double vote conflicts
	status = doJSON(
		t,
		http.MethodPost,
		server.URL+"/proposals/"+id.String()+"/votes",
		api.CastVoteRequest{
			Voter:   "alice",
			Support: 0,
		},
		nil,
	)
	assert.Equal(t, http.StatusConflict, status)

	var tallyResp api.TallyResponse
	status = doJSON(
		t,
		http.MethodGet,
		server.URL+"/proposals/"+id.String()+"/tally",
		nil,
		&tallyResp,
	)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"0", "100", "0"}, tallyResp.Weights)
	assert.Equal(t, 1, tallyResp.VoterCount)

	var voterResp api.VoterStatusResponse
	status = doJSON(
		t,
		http.MethodGet,
		server.URL+"/proposals/"+id.String()+"/votes/alice",
		nil,
		&voterResp,
	)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, voterResp.HasVoted)
}

func TestApiCreateProposal(t *testing.T) {
	server, _ := testServer(t)
	metadata, err := gov.EncodeProposalMeta(gov.ProposalConfig{
		OptionCount:      2,
		WinnerCount:      1,
		OptionBoundaries: []uint16{0, 1},
	})
	require.NoError(t, err)
	var resp api.CreateProposalResponse
	status := doJSON(
		t,
		http.MethodPost,
		server.URL+"/proposals",
		api.CreateProposalRequest{
			Targets:     []string{"01", "02"},
			Values:      []string{"0", "5"},
			Payloads:    []string{"aa", "bb"},
			Metadata:    hex.EncodeToString(metadata),
			Description: "created via api",
		},
		&resp,
	)
	assert.Equal(t, http.StatusCreated, status)
	assert.Len(t, resp.ProposalId, 64)
}

func TestApiErrors(t *testing.T) {
	server, governor := testServer(t)
	id := createTestProposal(t, governor, nil)

	// Unknown proposal
	unknownId := gov.ProposalId{0x01}
	status := doJSON(
		t,
		http.MethodGet,
		server.URL+"/proposals/"+unknownId.String()+"/tally",
		nil,
		nil,
	)
	assert.Equal(t, http.StatusNotFound, status)

	// Malformed proposal id
	status = doJSON(
		t,
		http.MethodGet,
		server.URL+"/proposals/nothex",
		nil,
		nil,
	)
	assert.Equal(t, http.StatusBadRequest, status)

	// Invalid simple-mode choice
	status = doJSON(
		t,
		http.MethodPost,
		server.URL+"/proposals/"+id.String()+"/votes",
		api.CastVoteRequest{
			Voter:   "alice",
			Support: 9,
		},
		nil,
	)
	assert.Equal(t, http.StatusBadRequest, status)

	// Missing voter
	status = doJSON(
		t,
		http.MethodPost,
		server.URL+"/proposals/"+id.String()+"/votes",
		api.CastVoteRequest{
			Support: 1,
		},
		nil,
	)
	assert.Equal(t, http.StatusBadRequest, status)

	// Malformed metadata on create
	status = doJSON(
		t,
		http.MethodPost,
		server.URL+"/proposals",
		api.CreateProposalRequest{
			Targets:  []string{"01"},
			Values:   []string{"0"},
			Payloads: []string{"aa"},
			Metadata: "01",
		},
		nil,
	)
	assert.Equal(t, http.StatusBadRequest, status)
}
