package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

// jsonSerde stands in for the registry serde.
type jsonSerde struct{}

func (jsonSerde) Encode(v any) ([]byte, error) { return json.Marshal(v) }
func (jsonSerde) Decode(b []byte, v any) error { return json.Unmarshal(b, v) }

type MockProducerClient struct {
	mock.Mock
}

func (m *MockProducerClient) ProduceSync(
	ctx context.Context, rs ...*kgo.Record,
) kgo.ProduceResults {
	args := m.Called(ctx, rs)
	return args.Get(0).(kgo.ProduceResults)
}

func (m *MockProducerClient) Close() {
	m.Called()
}

func TestInCartsCodec(t *testing.T) {
	var c inCartsCodec

	b, err := c.Encode(inCarts(42))
	require.NoError(t, err)
	assert.Equal(t, "42", string(b))

	v, err := c.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, inCarts(42), v)

	_, err = c.Encode(int64(1))
	assert.ErrorIs(t, err, ErrInvalidValueType)

	_, err = c.Decode([]byte("x"))
	assert.Error(t, err)
}

func TestCartEventCodec(t *testing.T) {
	c := newCartEventCodec(jsonSerde{})
	evt := schema.CartEventV1{VisitorID: "v", ProductID: 3, Action: "added", Quantity: 1}

	b, err := c.Encode(evt)
	require.NoError(t, err)

	v, err := c.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, evt, v)

	_, err = c.Encode("text")
	assert.ErrorIs(t, err, ErrInvalidValueType)
}

func TestNextInCarts(t *testing.T) {
	added := schema.CartEventV1{Action: "added", Quantity: 1}
	removed := schema.CartEventV1{Action: "removed", Quantity: 3}

	assert.Equal(t, inCarts(1), nextInCarts(nil, added))
	assert.Equal(t, inCarts(5), nextInCarts(inCarts(4), added))
	assert.Equal(t, inCarts(2), nextInCarts(inCarts(5), removed))
	assert.Equal(t, inCarts(0), nextInCarts(inCarts(1), removed))
	assert.Equal(t, inCarts(7), nextInCarts(inCarts(7), schema.CartEventV1{Action: "viewed"}))
}

func TestCartEventsProducer(t *testing.T) {
	at := time.UnixMilli(1760000000000)
	evt := domain.CartEvent{
		VisitorID: "v-1", ProductID: 12,
		Action: domain.CartActionAdded, Quantity: 1, OccurredAt: at,
	}

	t.Run("Produce", func(t *testing.T) {
		cl := new(MockProducerClient)
		cl.On("ProduceSync", mock.Anything, mock.MatchedBy(func(rs []*kgo.Record) bool {
			if len(rs) != 1 || string(rs[0].Key) != "12" {
				return false
			}
			var s schema.CartEventV1
			if err := json.Unmarshal(rs[0].Value, &s); err != nil {
				return false
			}
			return s == schema.CartEventV1{
				VisitorID: "v-1", ProductID: 12, Action: "added",
				Quantity: 1, OccurredAt: 1760000000000,
			}
		})).Return(kgo.ProduceResults{{}})
		cl.On("Close").Return()

		p, err := NewCartEventsProducer(
			ProducerWithClientOpt(cl),
			ProducerEncoderOpt(jsonSerde{}),
		)
		require.NoError(t, err)

		require.NoError(t, p.ProduceCartEvent(t.Context(), evt))
		p.Close()
		cl.AssertExpectations(t)
	})

	t.Run("BrokerError", func(t *testing.T) {
		errBroker := errors.New("not enough replicas")
		cl := new(MockProducerClient)
		cl.On("ProduceSync", mock.Anything, mock.Anything).
			Return(kgo.ProduceResults{{Err: errBroker}})

		p, err := NewCartEventsProducer(
			ProducerWithClientOpt(cl),
			ProducerEncoderOpt(jsonSerde{}),
		)
		require.NoError(t, err)

		err = p.ProduceCartEvent(t.Context(), evt)
		assert.ErrorIs(t, err, errBroker)
	})

	t.Run("TooFewOpts", func(t *testing.T) {
		assert.Panics(t, func() {
			_, _ = NewCartEventsProducer(ProducerEncoderOpt(jsonSerde{}))
		})
	})
}
