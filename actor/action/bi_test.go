package action_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phuhao00/odin/actor/action"
)

func TestBiDataActionReceivesAuxAtExecuteTime(t *testing.T) {
	var gotPayload, gotAux string
	a := action.NewBiDataAction("bound", func(ctx context.Context, bound string, payload string, aux string) error {
		gotPayload, gotAux = payload, aux
		return nil
	})

	require.NoError(t, a.Execute(context.Background(), "payload", "aux"))
	assert.Equal(t, "payload", gotPayload)
	assert.Equal(t, "aux", gotAux)
}

func TestNullBiDataActionIsNoOp(t *testing.T) {
	a := action.NullBiDataAction[int, string]()
	assert.NoError(t, a.Execute(context.Background(), 1, "whatever"))
}

func TestBiDataRefActionMutatesBorrowedPayload(t *testing.T) {
	type box struct{ n int }
	a := action.NewBiDataRefAction(struct{}{}, func(ctx context.Context, bound struct{}, payload *box, aux int) error {
		payload.n += aux
		return nil
	})

	b := &box{n: 1}
	require.NoError(t, a.Execute(context.Background(), b, 9))
	assert.Equal(t, 10, b.n)
}

func TestBiDataActionSatisfiesDynBiDataAction(t *testing.T) {
	a := action.NewBiDataAction(struct{}{}, func(ctx context.Context, bound struct{}, payload int, aux bool) error { return nil })
	var dyn action.DynBiDataAction[int, bool] = a
	assert.NoError(t, dyn.Execute(context.Background(), 1, true))
}
