package observability

import (
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	"legal-dashboard/application/ports"
)

// CloudWatchAPI is the subset of the CloudWatch client used for metrics
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

var _ CloudWatchAPI = (*cloudwatch.Client)(nil)

// Metrics handles application metrics in CloudWatch
type Metrics struct {
	namespace string
	client    CloudWatchAPI
	timeout   time.Duration
	logger    *zap.Logger
}

var _ ports.MetricsRecorder = (*Metrics)(nil)

// NewMetrics creates a CloudWatch recorder; a nil client disables publishing
func NewMetrics(namespace string, client CloudWatchAPI, logger *zap.Logger) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		timeout:   2 * time.Second,
		logger:    logger,
	}
}

// RecordLatency records latency for any operation
func (m *Metrics) RecordLatency(ctx context.Context, operation string, latency time.Duration) {
	m.put(ctx, types.MetricDatum{
		MetricName: aws.String("OperationLatency"),
		Dimensions: []types.Dimension{
			{Name: aws.String("Operation"), Value: aws.String(operation)},
		},
		Value:     aws.Float64(float64(latency.Milliseconds())),
		Unit:      types.StandardUnitMilliseconds,
		Timestamp: aws.Time(time.Now()),
	})
}

// RecordCount records a business metric such as DocumentsUploaded
func (m *Metrics) RecordCount(ctx context.Context, metricName string, value float64, dimensions map[string]string) {
	m.put(ctx, types.MetricDatum{
		MetricName: aws.String(metricName),
		Dimensions: toDimensions(dimensions),
		Value:      aws.Float64(value),
		Unit:       types.StandardUnitCount,
		Timestamp:  aws.Time(time.Now()),
	})
}

// put never fails the caller; metric loss is logged and tolerated
func (m *Metrics) put(ctx context.Context, datum types.MetricDatum) {
	if m.client == nil {
		return
	}

	// Metrics outlive request cancellation but not by much
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
	defer cancel()

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: []types.MetricDatum{datum},
	})
	if err != nil {
		m.logger.Warn("Failed to send metrics",
			zap.String("metric", aws.ToString(datum.MetricName)),
			zap.Error(err),
		)
	}
}

func toDimensions(dimensions map[string]string) []types.Dimension {
	if len(dimensions) == 0 {
		return nil
	}
	names := make([]string, 0, len(dimensions))
	for name := range dimensions {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]types.Dimension, 0, len(names))
	for _, name := range names {
		out = append(out, types.Dimension{
			Name:  aws.String(name),
			Value: aws.String(dimensions[name]),
		})
	}
	return out
}

// Recorders fans a measurement out to several recorders
type Recorders []ports.MetricsRecorder

func (r Recorders) RecordLatency(ctx context.Context, operation string, latency time.Duration) {
	for _, rec := range r {
		rec.RecordLatency(ctx, operation, latency)
	}
}

func (r Recorders) RecordCount(ctx context.Context, metricName string, value float64, dimensions map[string]string) {
	for _, rec := range r {
		rec.RecordCount(ctx, metricName, value, dimensions)
	}
}
