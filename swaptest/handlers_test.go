package swaptest

import (
	"context"
	"testing"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/swaptest/assert"
)

var swapResult = swap.DeliverResult{Log: "offer taken"}

func TestDecorateCountsCalls(t *testing.T) {
	outer, inner := &Decorator{}, &Decorator{}
	h := &Handler{DeliverResult: swapResult}
	stack := Decorate(h, outer, inner)
	ctx := context.Background()

	_, err := stack.Check(ctx, nil, nil)
	assert.Nil(t, err)
	res, err := stack.Deliver(ctx, nil, nil)
	assert.Nil(t, err)
	assert.Equal(t, swapResult.Log, res.Log)

	for _, c := range []*Calls{&outer.Calls, &inner.Calls, &h.Calls} {
		assert.Equal(t, 1, c.CheckCallCount())
		assert.Equal(t, 1, c.DeliverCallCount())
		assert.Equal(t, 2, c.CallCount())
	}
}

func TestFailingDecoratorStopsTheChain(t *testing.T) {
	outer := &Decorator{CheckErr: errors.ErrUnauthorized, DeliverErr: errors.ErrNotFound}
	inner := &Decorator{}
	h := &Handler{}
	stack := Decorate(h, outer, inner)

	_, err := stack.Check(context.Background(), nil, nil)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = stack.Deliver(context.Background(), nil, nil)
	assert.IsErr(t, errors.ErrNotFound, err)

	assert.Equal(t, 2, outer.CallCount())
	assert.Equal(t, 0, inner.CallCount())
	assert.Equal(t, 0, h.CallCount())
}

func TestHandlerErrors(t *testing.T) {
	h := &Handler{CheckErr: errors.ErrInvalidMsg, DeliverErr: errors.ErrInvalidState}

	res, err := h.Check(context.Background(), nil, nil)
	assert.IsErr(t, errors.ErrInvalidMsg, err)
	assert.Nil(t, res)
	_, err = h.Deliver(context.Background(), nil, nil)
	assert.IsErr(t, errors.ErrInvalidState, err)
	assert.Equal(t, 2, h.CallCount())
}

func TestAuthNoSigners(t *testing.T) {
	var a Auth

	if got := a.GetSigners(nil); got != nil {
		t.Fatalf("unexpected signers: %+v", got)
	}
	if a.HasAddress(nil, NewAddress()) {
		t.Fatal("random address must not be present")
	}
}
