package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	NameLinksCreated = "student_book_links_created_total"
	NameLinksRemoved = "student_book_links_removed_total"
	LabelReason      = "reason"

	ReasonUnlink         = "unlink"
	ReasonBookCascade    = "book_cascade"
	ReasonStudentCascade = "student_cascade"
	ReasonOrphanSweep    = "orphan_sweep"
)

var LinksCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      NameLinksCreated,
		Help:      "Student/book association rows created",
		Namespace: Namespace,
	},
)

var LinksRemoved = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameLinksRemoved,
		Help:      "Student/book association rows removed, by reason",
		Namespace: Namespace,
	},
	[]string{LabelReason},
)
