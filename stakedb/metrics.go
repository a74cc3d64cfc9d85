// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakedb

import (
	"strings"

	"github.com/vechain/stakeledger/metrics"
)

var (
	metricCriteriaLengthBucket = metrics.LazyLoadHistogramVec("stakedb_criteria_length_bucket", []string{"type"}, []int64{0, 2, 5, 10, 25, 100})
	metricEventQueryParameters = metrics.LazyLoadCounterVec("stakedb_query_parameters", []string{"parameters"})
	metricQueryOrderCounter    = metrics.LazyLoadCounterVec("stakedb_query_order", []string{"order"})
	metricLimitBucket          = metrics.LazyLoadHistogramVec("stakedb_query_limit_bucket", []string{"type"}, []int64{
		0, 5, 10, 25, 50, 100, 250, 500, 1000,
	})
	metricWriteCounter = metrics.LazyLoadCounterVec("stakedb_write_count", []string{"type"})
)

func metricsHandleEventsFilter(filter *EventFilter) {
	if !metrics.Enabled() {
		return
	}

	metricCriteriaLengthBucket().ObserveWithLabels(int64(len(filter.CriteriaSet)), map[string]string{"type": "event"})
	if filter.Order == DESC {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": "desc"})
	} else {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": "asc"})
	}
	if filter.Options != nil {
		limit := min(filter.Options.Limit, 1001)
		metricLimitBucket().ObserveWithLabels(int64(limit), map[string]string{"type": "event"})
	}

	for _, c := range filter.CriteriaSet {
		paramsUsed := make([]string, 0)
		if c.Address != nil {
			paramsUsed = append(paramsUsed, "address")
		}
		for i, topic := range c.Topics {
			if topic != nil {
				paramsUsed = append(paramsUsed, "topic"+string(rune('0'+i)))
			}
		}
		metricEventQueryParameters().AddWithLabel(1, map[string]string{"parameters": strings.Join(paramsUsed, ",")})
	}
}
