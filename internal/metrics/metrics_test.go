package metrics_test

import (
	"testing"

	"foodgram/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMembershipChanges(t *testing.T) {
	counter := metrics.MembershipChanges.WithLabelValues("favorite", "add", "ok")
	before := testutil.ToFloat64(counter)

	counter.Inc()

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestShoppingListDownloads(t *testing.T) {
	before := testutil.ToFloat64(metrics.ShoppingListDownloads)
	metrics.ShoppingListDownloads.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ShoppingListDownloads))
}
