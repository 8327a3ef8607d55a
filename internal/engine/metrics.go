package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chunksMerged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatloom_chunks_merged_total",
		Help: "Streaming chunks merged into the canonical message list.",
	})
	chunksDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatloom_chunks_discarded_total",
		Help: "Malformed or blank chunks dropped at the reconciler boundary.",
	})
	chunksDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatloom_chunks_dropped_total",
		Help: "Chunks evicted from a full ingest queue (drop-oldest policy).",
	})
	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chatloom_ingest_queue_depth",
		Help: "Current number of buffered, not-yet-merged chunks.",
	})
	tombstonesPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatloom_tombstones_purged_total",
		Help: "Tombstones removed by the periodic sweep after expiry.",
	})
)
