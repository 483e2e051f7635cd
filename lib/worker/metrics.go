package worker

import (
	"github.com/rcrowley/go-metrics"
)

// Metric names of the worker registry
const (
	MetricLockPoll     = "lock.poll"
	MetricValueSetPoll = "valueset.poll"
	MetricBarrierPoll  = "barrier.poll"
	MetricRPCCall      = "rpc.call"
)

type workerMetrics struct {
	lockPolls     metrics.Counter
	valueSetPolls metrics.Counter
	barrierPolls  metrics.Counter
	calls         metrics.Timer
}

func newWorkerMetrics(r metrics.Registry) *workerMetrics {
	return &workerMetrics{
		lockPolls:     metrics.GetOrRegisterCounter(MetricLockPoll, r),
		valueSetPolls: metrics.GetOrRegisterCounter(MetricValueSetPoll, r),
		barrierPolls:  metrics.GetOrRegisterCounter(MetricBarrierPoll, r),
		calls:         metrics.GetOrRegisterTimer(MetricRPCCall, r),
	}
}
