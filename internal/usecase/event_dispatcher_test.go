package usecase

import (
	"testing"

	"notification-service/internal/entity"
	"notification-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_MalformedBodyReturnsError(t *testing.T) {
	f := newFixture()
	d := NewEventDispatcher(f.uc, logger.NewNop())

	err := d.Dispatch(entity.RouteOrderCreated, []byte("{not json"))
	require.Error(t, err)
	assert.Empty(t, f.repo.notifications)
}

func TestDispatch_UnknownRoutingKeyIsAcknowledged(t *testing.T) {
	f := newFixture()
	d := NewEventDispatcher(f.uc, logger.NewNop())

	err := d.Dispatch("order.refunded", []byte(`{"userId":"u1","orderId":"o1"}`))
	require.NoError(t, err)
	assert.Empty(t, f.repo.notifications)
}

func TestDispatch_RoutesToHandler(t *testing.T) {
	f := newFixture()
	d := NewEventDispatcher(f.uc, logger.NewNop())

	err := d.Dispatch(entity.RouteOrderCreated, []byte(`{"userId":"u1","orderId":"o1","totalAmount":100}`))
	require.NoError(t, err)

	require.Len(t, f.repo.notifications, 1)
	for _, n := range f.repo.notifications {
		assert.Equal(t, "Order Placed Successfully", n.Title)
	}
	require.Len(t, f.emails.sent, 1)
}

func TestDispatch_HandlerFailureStillAcknowledges(t *testing.T) {
	f := newFixture()
	f.repo.createErr = assert.AnError
	d := NewEventDispatcher(f.uc, logger.NewNop())

	err := d.Dispatch(entity.RoutePaymentFailed, []byte(`{"userId":"u1","orderId":"o1","amount":5}`))
	require.NoError(t, err)
}
