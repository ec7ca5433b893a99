// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// #nosec G404
package metrics

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	count1 := Counter("count1")
	countVect := CounterVec("countVec1", []string{"zeroOrOne"})
	gauge1 := Gauge("gauge1")
	gaugeVec := GaugeVec("gaugeVec1", []string{"zeroOrOne"})
	hist := HistogramVec("hist1", []string{"zeroOrOne"}, BucketHTTPReqs)

	count1.Add(1)
	randCount2 := rand.N(100) + 1
	for range randCount2 {
		Counter("count2").Add(1)
	}

	totalVec := 0
	for i := range rand.N(100) + 2 {
		labels := map[string]string{"zeroOrOne": strconv.Itoa(i % 2)}
		countVect.AddWithLabel(int64(i), labels)
		gaugeVec.AddWithLabel(int64(i), labels)
		hist.ObserveWithLabels(int64(i), labels)
		gauge1.Add(int64(i))
		totalVec += i
	}

	metricFamilies, err := prometheus.Gatherers{prometheus.DefaultGatherer}.Gather()
	require.NoError(t, err)

	metrics := make(map[string]*dto.MetricFamily)
	for _, mf := range metricFamilies {
		metrics[mf.GetName()] = mf
	}

	require.Equal(t, float64(1), metrics["dpos_count1"].Metric[0].GetCounter().GetValue())
	require.Equal(t, float64(randCount2), metrics["dpos_count2"].Metric[0].GetCounter().GetValue())
	require.Equal(t, float64(totalVec), metrics["dpos_gauge1"].Metric[0].GetGauge().GetValue())

	sumCountVec := metrics["dpos_countVec1"].Metric[0].GetCounter().GetValue() +
		metrics["dpos_countVec1"].Metric[1].GetCounter().GetValue()
	require.Equal(t, float64(totalVec), sumCountVec)

	sumGaugeVec := metrics["dpos_gaugeVec1"].Metric[0].GetGauge().GetValue() +
		metrics["dpos_gaugeVec1"].Metric[1].GetGauge().GetValue()
	require.Equal(t, float64(totalVec), sumGaugeVec)

	sumHist := metrics["dpos_hist1"].Metric[0].GetHistogram().GetSampleSum() +
		metrics["dpos_hist1"].Metric[1].GetHistogram().GetSampleSum()
	require.Equal(t, float64(totalVec), sumHist)

	// same name, different kind, does not collide
	require.IsType(t, &promGaugeMeter{}, Gauge("count1"))
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics() // make sure it starts in the default state of noopMeter

	for _, a := range []any{
		Gauge("noopGauge"),
		GaugeVec("noopGauge", nil),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		HistogramVec("noopHist", nil, nil),
	} {
		require.IsType(t, noopMeters{}, a)
	}

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyGaugeVec := LazyLoadGaugeVec("lazyGaugeVec", nil)
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogramVec := LazyLoadHistogramVec("lazyHistogramVec", nil, nil)

	// after initialization, newly created metrics become of the prometheus type
	InitializePrometheusMetrics()

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promGaugeVecMeter{}, lazyGaugeVec())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramVecMeter{}, lazyHistogramVec())
}
