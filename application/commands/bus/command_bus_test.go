package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	pkgerrors "feeder-workbench/pkg/errors"
)

type echoCommand struct {
	Value string
}

func (c echoCommand) Validate() error {
	if c.Value == "" {
		return pkgerrors.NewValidationError("value is required")
	}
	return nil
}

type otherCommand struct{}

func (otherCommand) Validate() error { return nil }

func TestCommandBus_Dispatch(t *testing.T) {
	b := NewCommandBus(LoggingMiddleware(zap.NewNop()))
	require.NoError(t, b.Register(echoCommand{}, HandlerFor(func(_ context.Context, cmd echoCommand) (interface{}, error) {
		return "echo:" + cmd.Value, nil
	})))

	out, err := b.Send(context.Background(), echoCommand{Value: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "echo:hi", out)
}

func TestCommandBus_ValidatesBeforeDispatch(t *testing.T) {
	b := NewCommandBus()
	called := false
	require.NoError(t, b.Register(echoCommand{}, HandlerFor(func(_ context.Context, _ echoCommand) (interface{}, error) {
		called = true
		return nil, nil
	})))

	_, err := b.Send(context.Background(), echoCommand{})
	assert.True(t, pkgerrors.IsValidation(err))
	assert.False(t, called)
}

func TestCommandBus_Unregistered(t *testing.T) {
	b := NewCommandBus()
	_, err := b.Send(context.Background(), otherCommand{})
	require.Error(t, err)
	assert.Equal(t, "HANDLER_NOT_FOUND", pkgerrors.GetAppError(err).Code)
}

func TestCommandBus_DuplicateRegistration(t *testing.T) {
	b := NewCommandBus()
	h := HandlerFor(func(_ context.Context, _ otherCommand) (interface{}, error) { return nil, nil })
	require.NoError(t, b.Register(otherCommand{}, h))
	assert.Error(t, b.Register(otherCommand{}, h))
}

func TestPipeline_Order(t *testing.T) {
	var trace []string
	mark := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
				trace = append(trace, name)
				return next.Handle(ctx, cmd)
			})
		}
	}

	b := NewCommandBus(mark("outer"), mark("inner"))
	want := errors.New("boom")
	require.NoError(t, b.Register(otherCommand{}, HandlerFor(func(_ context.Context, _ otherCommand) (interface{}, error) {
		trace = append(trace, "handler")
		return nil, want
	})))

	_, err := b.Send(context.Background(), otherCommand{})
	assert.ErrorIs(t, err, want)
	assert.Equal(t, []string{"outer", "inner", "handler"}, trace)
}

type recordingTracer struct {
	spans []string
}

func (r *recordingTracer) TraceFunction(ctx context.Context, name string, fn func(context.Context) error) error {
	r.spans = append(r.spans, name)
	return fn(ctx)
}

func TestTracingMiddleware_NamesSpanAfterCommand(t *testing.T) {
	tracer := &recordingTracer{}
	b := NewCommandBus(TracingMiddleware(tracer))
	require.NoError(t, b.Register(echoCommand{}, HandlerFor(func(_ context.Context, cmd echoCommand) (interface{}, error) {
		return cmd.Value, errors.New("backend down")
	})))

	out, err := b.Send(context.Background(), echoCommand{Value: "x"})
	assert.EqualError(t, err, "backend down")
	assert.Equal(t, "x", out)
	assert.Equal(t, []string{"command.echoCommand"}, tracer.spans)
}
