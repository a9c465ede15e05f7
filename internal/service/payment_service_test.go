package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPayments_NewestFirstAndByOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.seedProduct(t, "mug", 10)
	svc := NewPaymentService(f.store)

	var orderIDs []int64
	for _, method := range []string{"card", "cash"} {
		req := validOrderRequest(productItem(pid, 1))
		req.Payment = &PaymentRequest{Method: method}
		res, err := f.orders.CreateOrder(ctx, req)
		require.NoError(t, err)
		orderIDs = append(orderIDs, res.Order.ID)
	}

	all, err := svc.ListPayments(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "cash", all[0].Method)
	assert.Equal(t, "pending", all[0].Status)
	assert.True(t, all[0].Amount.Equal(*dec("30")))

	one, err := svc.ListPayments(ctx, &orderIDs[0])
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "card", one[0].Method)

	var missing int64 = 999
	none, err := svc.ListPayments(ctx, &missing)
	require.NoError(t, err)
	assert.Empty(t, none)
}
