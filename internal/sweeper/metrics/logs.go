package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
	"github.com/weaveworks/promrus"
)

// logMessagesMetric is the counter maintained by the promrus hook in the default registry.
const logMessagesMetric = "log_messages"

// CountLogMessages counts the messages of the standard logger by level. The counts are written to the metrics
// textfile along with the sweep metrics.
func CountLogMessages() error {
	hook, err := promrus.NewPrometheusHook()
	if err != nil {
		return errors.WithStack(err)
	}
	log.AddHook(hook)
	return nil
}

// logMessages gathers the log message counts only; the rest of the default registry describes the sweepctl
// process itself.
var logMessages = prometheus.GathererFunc(func() ([]*dto.MetricFamily, error) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return nil, err
	}
	for _, family := range families {
		if family.GetName() == logMessagesMetric {
			return []*dto.MetricFamily{family}, nil
		}
	}
	return nil, nil
})
