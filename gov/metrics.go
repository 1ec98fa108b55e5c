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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// governorMetrics holds Prometheus metrics for the vote-tallying
// engine.
type governorMetrics struct {
	proposalsTotal     prometheus.Counter
	votesTotal         prometheus.Counter
	voteErrorsTotal    prometheus.Counter
	finalizationsTotal prometheus.Counter
	openProposals      prometheus.Gauge
}

// initGovernorMetrics initializes all engine metrics using the provided
// Prometheus registerer.
func initGovernorMetrics(
	reg prometheus.Registerer,
) *governorMetrics {
	factory := promauto.With(reg)
	m := &governorMetrics{}

	m.proposalsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "caucus_gov_proposals_total",
			Help: "total proposals registered",
		},
	)
	m.votesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "caucus_gov_votes_counted_total",
			Help: "total votes successfully counted",
		},
	)
	m.voteErrorsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "caucus_gov_vote_errors_total",
			Help: "votes rejected by the counting policy",
		},
	)
	m.finalizationsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "caucus_gov_finalizations_total",
			Help: "winner selections performed (queue and execute)",
		},
	)
	m.openProposals = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "caucus_gov_open_proposals",
			Help: "proposals currently accepting votes",
		},
	)
	return m
}
