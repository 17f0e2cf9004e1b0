package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestJobRunsCounter(t *testing.T) {
	before := testutil.ToFloat64(JobRuns.WithLabelValues("test-job", "success"))
	JobRuns.WithLabelValues("test-job", "success").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(JobRuns.WithLabelValues("test-job", "success")))
}
