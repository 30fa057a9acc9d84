package mediator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factoryplanner-go/internal/application/mediator"
)

type pingCommand struct{ Value int }

type pingHandler struct{}

func (h *pingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	return request.(*pingCommand).Value * 2, nil
}

func TestMediator_SendRunsMiddlewareOutermostFirst(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingCommand](m, &pingHandler{}))

	var order []string
	m.Use(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		order = append(order, "outer")
		return next(ctx, request)
	})
	m.Use(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		order = append(order, "inner")
		return next(ctx, request)
	})

	// Act
	response, err := m.Send(context.Background(), &pingCommand{Value: 21})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 42, response)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestMediator_RejectsDuplicateAndUnknown(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingCommand](m, &pingHandler{}))

	err := mediator.RegisterHandler[*pingCommand](m, &pingHandler{})
	assert.Error(t, err)

	_, err = m.Send(context.Background(), struct{}{})
	assert.Error(t, err)
}
