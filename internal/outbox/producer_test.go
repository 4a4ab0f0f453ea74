package outbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/ecosangam/internal/events"
)

func TestKafkaProducerWriterPerTopic(t *testing.T) {
	completed, ok := events.Lookup(events.TypeGoalCompleted)
	require.True(t, ok)
	footprint, ok := events.Lookup(events.TypeFootprintUpdated)
	require.True(t, ok)

	p := NewKafkaProducer([]string{"kafka:9092"}, WithBatchTimeout(10*time.Millisecond))

	cases := []struct {
		name      string
		topic     string
		batchSize int
	}{
		{name: "goal completions are unbatched", topic: completed.Topic, batchSize: 1},
		{name: "footprint updates batch", topic: footprint.Topic, batchSize: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := p.writerFor(tc.topic)
			require.Equal(t, tc.topic, w.Topic)
			require.Equal(t, tc.batchSize, w.BatchSize)
			require.Equal(t, 10*time.Millisecond, w.BatchTimeout)
			require.NotNil(t, w.ErrorLogger)
			require.Same(t, w, p.writerFor(tc.topic))
		})
	}

	require.NoError(t, p.Close())
	require.Empty(t, p.writers)
}

func TestKafkaProducerIgnoresNonPositiveBatchTimeout(t *testing.T) {
	p := NewKafkaProducer(nil, WithBatchTimeout(0))
	require.Equal(t, defaultBatchTimeout, p.batchTimeout)
}
