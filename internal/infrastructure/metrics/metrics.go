// Package metrics defines and registers all custom Prometheus metrics for the
// recipe API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default Prometheus registry on package init, so
// they are exposed by the /metrics handler without further wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "recipe"

// ── Account metrics ───────────────────────────────────────────────────────────

// UsersCreatedTotal counts newly created accounts.
// Label:
//   - kind: "user" or "superuser"
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created, by kind.",
	},
	[]string{"kind"},
)

// TokensIssuedTotal counts token requests.
// Label:
//   - result: "issued", "rejected" or "throttled"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_requests_total",
		Help:      "Total number of token requests, labelled by outcome.",
	},
	[]string{"result"},
)

// ── Recipe book metrics ───────────────────────────────────────────────────────

// AttributesCreatedTotal counts created tags and ingredients.
// Label:
//   - kind: "tag" or "ingredient"
var AttributesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attributes_created_total",
		Help:      "Total number of tags and ingredients created.",
	},
	[]string{"kind"},
)

// RecipesCreatedTotal counts newly created recipes.
var RecipesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recipes_created_total",
		Help:      "Total number of recipes created.",
	},
)

// ImageUploadBytes observes the size of accepted recipe images.
var ImageUploadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "image_upload_bytes",
		Help:      "Size in bytes of accepted recipe image uploads.",
		Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 6), // 16KiB … 16MiB
	},
)
