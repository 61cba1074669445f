package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStubGatewayVerify(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	gateway := NewStubGateway(zap.NewNop())

	intent, err := gateway.CreateIntent(ctx, 450, "INR", map[string]string{"hold_token": "tok"})
	require.NoError(t, err)
	assert.Contains(t, intent.ID, "PAY-")
	assert.Equal(t, 450.0, intent.Amount)
	assert.Equal(t, "tok", intent.ClientParams["hold_token"])

	result, err := gateway.Verify(ctx, intent.ID, "proof")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 450.0, result.AmountPaid)

	declined, err := gateway.Verify(ctx, intent.ID, "declined")
	require.NoError(t, err)
	assert.False(t, declined.Success)

	_, err = gateway.Verify(ctx, "PAY-unknown", "proof")
	assert.Error(t, err)
}

func TestStubGatewayRejectsBadAmounts(t *testing.T) {
	t.Parallel()
	gateway := NewStubGateway(zap.NewNop())

	_, err := gateway.CreateIntent(context.Background(), 0, "INR", nil)
	assert.Error(t, err)

	_, err = gateway.CreateIntent(context.Background(), -10, "INR", nil)
	assert.Error(t, err)
}
