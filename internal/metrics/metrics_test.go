package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveOperation(t *testing.T) {
	before := testutil.ToFloat64(operations.WithLabelValues("split", "success"))
	ObserveOperation("split", "success", 120*time.Millisecond)
	after := testutil.ToFloat64(operations.WithLabelValues("split", "success"))
	assert.Equal(t, before+1, after)
}

func TestAddPages(t *testing.T) {
	before := testutil.ToFloat64(pagesProcessed.WithLabelValues("images"))
	AddPages("images", 7)
	AddPages("images", 0)
	AddPages("images", -3)
	after := testutil.ToFloat64(pagesProcessed.WithLabelValues("images"))
	assert.Equal(t, before+7, after, "only positive page counts accumulate")
}
