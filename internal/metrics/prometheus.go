package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QuestionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nexustrace_question_duration_seconds",
			Help:    "Question answering duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"status"},
	)

	RetrievedChunks = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nexustrace_retrieved_chunks",
			Help:    "Number of chunks retrieved per question",
			Buckets: []float64{0, 1, 2, 5, 10, 20},
		},
		[]string{"source"},
	)

	ConfidenceScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nexustrace_answer_confidence_score",
			Help:    "Answer confidence scores",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	EvidenceProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexustrace_evidence_processed_total",
			Help: "Total evidence files processed",
		},
		[]string{"file_type", "status"},
	)

	ChunksIngested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nexustrace_chunks_ingested_total",
			Help: "Total chunks ingested into the graph",
		},
	)

	FeedbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexustrace_feedback_total",
			Help: "Total feedback submissions",
		},
		[]string{"type"},
	)
)

func Init() {
	prometheus.MustRegister(QuestionDuration)
	prometheus.MustRegister(RetrievedChunks)
	prometheus.MustRegister(ConfidenceScore)
	prometheus.MustRegister(EvidenceProcessed)
	prometheus.MustRegister(ChunksIngested)
	prometheus.MustRegister(FeedbackTotal)
}

func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
