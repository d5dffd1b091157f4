package publisher

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/transfraud/internal/config"
	"github.com/Dan9191/transfraud/internal/metrics"
	"github.com/Dan9191/transfraud/internal/schema"
)

type captureWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error {
	w.closed = true
	return nil
}

func newTestPublisher(t *testing.T, m *metrics.Metrics) (*KafkaPublisher, *captureWriter) {
	t.Helper()
	codec, err := schema.NewCodec()
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	p := NewKafkaPublisher(config.KafkaConfig{Brokers: []string{"localhost:9092"}, TransactionsTopic: "card-transactions"}, codec, m, log)
	w := &captureWriter{}
	p.writer = w
	return p, w
}

func record() *schema.CardTransaction {
	return &schema.CardTransaction{
		TransactionID:        "tx-1",
		CardID:               "card-1",
		CustomerID:           "cust-1",
		TransactionTimestamp: 1700000000000,
		TransactionAmount:    42.5,
		Currency:             "USD",
		MerchantID:           "MERCH_1",
		MerchantName:         "Target 7",
		MerchantCategory:     "RETAIL",
		TransactionType:      schema.TransactionTypePOS,
		IsCardPresent:        true,
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	p, w := newTestPublisher(t, nil)

	require.NoError(t, p.Publish(context.Background(), record()))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "tx-1", string(msg.Key))
	assert.Equal(t, []kafka.Header{
		{Key: HeaderContentType, Value: []byte(schema.ContentType)},
		{Key: HeaderSchema, Value: []byte(p.codec.Name())},
	}, msg.Headers)

	decoded, err := p.codec.Decode(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, record(), decoded)
}

func TestKafkaPublisher_PublishErrors(t *testing.T) {
	p, w := newTestPublisher(t, nil)

	assert.Error(t, p.Publish(context.Background(), nil))

	w.err = io.ErrClosedPipe
	err := p.Publish(context.Background(), record())
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestKafkaPublisher_Completion(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	require.NoError(t, m.Register())
	p, _ := newTestPublisher(t, m)

	p.completion([]kafka.Message{{Key: []byte("a")}, {Key: []byte("b")}}, nil)
	p.completion([]kafka.Message{{Key: []byte("c")}}, errors.New("leader not available"))

	expected := `# HELP transfraud_publish_total Bus acknowledgements of published transactions by result
# TYPE transfraud_publish_total counter
transfraud_publish_total{result="failure"} 1
transfraud_publish_total{result="success"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "transfraud_publish_total"))
}

func TestKafkaPublisher_Close(t *testing.T) {
	p, w := newTestPublisher(t, nil)
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestTopicConfigs(t *testing.T) {
	topics := TopicConfigs(config.KafkaConfig{
		TransactionsTopic: "card-transactions",
		FraudAlertsTopic:  "fraud-alerts",
		Partitions:        3,
		Replicas:          1,
	})

	assert.Equal(t, []kafka.TopicConfig{
		{Topic: "card-transactions", NumPartitions: 3, ReplicationFactor: 1},
		{Topic: "fraud-alerts", NumPartitions: 3, ReplicationFactor: 1},
	}, topics)

	assert.Len(t, TopicConfigs(config.KafkaConfig{TransactionsTopic: "only"}), 1)
}
