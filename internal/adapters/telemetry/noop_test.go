package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assemble/internal/adapters/telemetry"
	"go.trai.ch/assemble/internal/core/domain"
	"go.trai.ch/assemble/internal/core/ports"
)

var _ ports.Telemetry = (*telemetry.NoOp)(nil)

func TestNoOp_Record(t *testing.T) {
	tel := telemetry.NewNoOp()

	ctx, v := tel.Record(context.Background(), "src/a")
	require.NotNil(t, v)

	got, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, v, got)

	n, err := v.Stdout().Write([]byte("output"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	v.Log(domain.LogLevelInfo, "msg")
	v.Complete(nil)
	assert.NoError(t, tel.Close())
}
