// Package metrics 提供引擎操作的监控指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ============================================================================
//                              Prometheus 指标
// ============================================================================

var (
	// opsTotal 业务操作总次数
	opsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wes",
		Subsystem: "unitledger",
		Name:      "ops_total",
		Help:      "Total number of ledger operations",
	}, []string{"module", "op", "status"}) // module: ledger/unit/governance, status: success/failed

	// supplyGauge 当前同质代币总供应量
	supplyGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wes",
		Subsystem: "unitledger",
		Name:      "total_supply",
		Help:      "Current fungible total supply",
	})

	// resonanceGauge 当前全局共鸣值合计
	resonanceGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wes",
		Subsystem: "unitledger",
		Name:      "total_resonance",
		Help:      "Current global resonance sum",
	})

	// eventsDropped 持久化失败的事件条数
	eventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wes",
		Subsystem: "unitledger",
		Name:      "events_dropped_total",
		Help:      "Total number of events that failed to persist",
	})
)

func init() {
	// 注册所有指标
	prometheus.MustRegister(
		opsTotal,
		supplyGauge,
		resonanceGauge,
		eventsDropped,
	)
}

// ============================================================================
//                              指标更新函数
// ============================================================================

// RecordOp 记录一次业务操作
func RecordOp(module, op string, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	opsTotal.WithLabelValues(module, op, status).Inc()
}

// SetTotalSupply 更新总供应量指标
func SetTotalSupply(supply uint64) {
	supplyGauge.Set(float64(supply))
}

// SetTotalResonance 更新全局共鸣值指标
func SetTotalResonance(resonance uint64) {
	resonanceGauge.Set(float64(resonance))
}

// RecordEventDropped 记录一次事件持久化失败
func RecordEventDropped() {
	eventsDropped.Inc()
}
