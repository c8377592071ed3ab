package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	kiterrors "github.com/kbukum/clientkit/errors"
	"github.com/kbukum/clientkit/resilience"
)

var errRemote = errors.New("remote failure")

// breakerAdapter bridges resilience.BreakerFactory to the interface the
// dispatcher consumes, the same way the client factory wires it.
type breakerAdapter struct{ f *resilience.BreakerFactory }

func (a breakerAdapter) Create(name string) CircuitBreaker { return a.f.Create(name) }

func okHandler(result any) Handler {
	return HandlerFunc(func(ctx context.Context, args []any) (any, error) {
		return result, nil
	})
}

func failHandler(err error) Handler {
	return HandlerFunc(func(ctx context.Context, args []any) (any, error) {
		return nil, err
	})
}

func testTarget() Target {
	return Target{Iface: "OrderService", Name: "orders", URL: "http://orders"}
}

func TestDispatcher_InvokesHandler(t *testing.T) {
	get := Method{Name: "GetOrder", Params: []string{"string"}}
	d, err := NewDispatcher(Config{
		Target: testTarget(),
		Table:  NewTable(map[Method]Handler{get: okHandler("order-1")}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := d.Invoke(context.Background(), get, []any{"1"})
	if err != nil || got != "order-1" {
		t.Errorf("got %v %v", got, err)
	}
}

func TestDispatcher_UnknownMethod(t *testing.T) {
	d, _ := NewDispatcher(Config{Target: testTarget(), Table: NewTable(nil)})

	_, err := d.Invoke(context.Background(), Method{Name: "Missing"}, nil)
	if !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("expected ErrUnknownMethod, got %v", err)
	}
	if !kiterrors.IsInvocation(err) {
		t.Errorf("expected invocation failure code, got %v", kiterrors.CodeOf(err))
	}
}

func TestDispatcher_MethodOverloadsAreDistinct(t *testing.T) {
	byID := Method{Name: "Get", Params: []string{"string"}}
	byFilter := Method{Name: "Get", Params: []string{"string", "int"}}
	d, _ := NewDispatcher(Config{
		Target: testTarget(),
		Table: NewTable(map[Method]Handler{
			byID:     okHandler("by-id"),
			byFilter: okHandler("by-filter"),
		}),
	})

	got, _ := d.Invoke(context.Background(), byID, []any{"1"})
	if got != "by-id" {
		t.Errorf("got %v", got)
	}
	got, _ = d.Invoke(context.Background(), byFilter, []any{"1", 2})
	if got != "by-filter" {
		t.Errorf("got %v", got)
	}
}

func TestDispatcher_IdentityMethods(t *testing.T) {
	table := NewTable(map[Method]Handler{
		{Name: "Ping"}: okHandler("pong"),
	})
	d, _ := NewDispatcher(Config{Target: testTarget(), Table: table})
	other, _ := NewDispatcher(Config{Target: testTarget(), Table: table})
	different, _ := NewDispatcher(Config{
		Target: Target{Iface: "OrderService", Name: "orders", URL: "http://other"},
		Table:  table,
	})

	got, err := d.Invoke(context.Background(), Method{Name: MethodString}, nil)
	if err != nil || got != "OrderService(name=orders, url=http://orders)" {
		t.Errorf("String: got %v %v", got, err)
	}

	eq, _ := d.Invoke(context.Background(), Method{Name: MethodEqual, Params: []string{"any"}}, []any{other})
	if eq != true {
		t.Error("dispatchers with the same target should be equal")
	}
	eq, _ = d.Invoke(context.Background(), Method{Name: MethodEqual, Params: []string{"any"}}, []any{different})
	if eq != false {
		t.Error("dispatchers with different targets should not be equal")
	}

	h1, _ := d.Invoke(context.Background(), Method{Name: MethodHash}, nil)
	h2, _ := other.Invoke(context.Background(), Method{Name: MethodHash}, nil)
	if h1 != h2 {
		t.Error("equal targets should hash equal")
	}
}

func TestDispatcher_CircuitKeyIsolation(t *testing.T) {
	breakers := resilience.NewBreakerFactory(resilience.BreakerConfig{
		MaxFailures: 1,
		Timeout:     time.Minute,
	})
	get := Method{Name: "Get", Params: []string{"string"}}
	list := Method{Name: "List"}
	d, _ := NewDispatcher(Config{
		Target: testTarget(),
		Table: NewTable(map[Method]Handler{
			get:  failHandler(errRemote),
			list: okHandler("all"),
		}),
		Breakers: breakerAdapter{breakers},
	})

	d.Invoke(context.Background(), get, []any{"1"})

	if breakers.Create("orders:OrderService#Get(string)").State() != resilience.StateOpen {
		t.Error("expected the method circuit to open")
	}
	if got, err := d.Invoke(context.Background(), list, nil); err != nil || got != "all" {
		t.Errorf("sibling method should be unaffected: %v %v", got, err)
	}
}

func TestDispatcher_FallbackTable(t *testing.T) {
	breakers := resilience.NewBreakerFactory(resilience.BreakerConfig{
		MaxFailures: 10,
		Timeout:     time.Minute,
	})
	get := Method{Name: "Get", Params: []string{"string"}}
	d, err := NewDispatcher(Config{
		Target:   testTarget(),
		Table:    NewTable(map[Method]Handler{get: failHandler(errRemote)}),
		Breakers: breakerAdapter{breakers},
		Fallback: NewTable(map[Method]Handler{get: okHandler("cached")}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := d.Invoke(context.Background(), get, []any{"1"})
	if err != nil || got != "cached" {
		t.Errorf("got %v %v", got, err)
	}
}

func TestDispatcher_FallbackCoverageCheckedAtBuild(t *testing.T) {
	breakers := resilience.NewBreakerFactory(resilience.DefaultBreakerConfig())
	get := Method{Name: "Get", Params: []string{"string"}}

	_, err := NewDispatcher(Config{
		Target:   testTarget(),
		Table:    NewTable(map[Method]Handler{get: okHandler(nil)}),
		Breakers: breakerAdapter{breakers},
		Fallback: NewTable(nil),
	})
	if err == nil {
		t.Error("expected construction failure for uncovered fallback method")
	}
}

type causeFactory struct{ seen error }

func (f *causeFactory) Create(cause error) *Table {
	f.seen = cause
	return NewTable(map[Method]Handler{
		{Name: "Get", Params: []string{"string"}}: okHandler("from-factory"),
	})
}

func TestDispatcher_FallbackFactoryReceivesCause(t *testing.T) {
	breakers := resilience.NewBreakerFactory(resilience.BreakerConfig{
		MaxFailures: 10,
		Timeout:     time.Minute,
	})
	get := Method{Name: "Get", Params: []string{"string"}}
	factory := &causeFactory{}
	d, _ := NewDispatcher(Config{
		Target:          testTarget(),
		Table:           NewTable(map[Method]Handler{get: failHandler(errRemote)}),
		Breakers:        breakerAdapter{breakers},
		FallbackFactory: factory,
	})

	got, err := d.Invoke(context.Background(), get, []any{"1"})
	if err != nil || got != "from-factory" {
		t.Errorf("got %v %v", got, err)
	}
	if !errors.Is(factory.seen, errRemote) {
		t.Errorf("factory should receive the triggering error, got %v", factory.seen)
	}
}

func TestDispatcher_FallbackErrorIsWrapped(t *testing.T) {
	breakers := resilience.NewBreakerFactory(resilience.BreakerConfig{
		MaxFailures: 10,
		Timeout:     time.Minute,
	})
	get := Method{Name: "Get", Params: []string{"string"}}
	fbErr := errors.New("fallback broke too")
	d, _ := NewDispatcher(Config{
		Target:   testTarget(),
		Table:    NewTable(map[Method]Handler{get: failHandler(errRemote)}),
		Breakers: breakerAdapter{breakers},
		Fallback: NewTable(map[Method]Handler{get: failHandler(fbErr)}),
	})

	_, err := d.Invoke(context.Background(), get, []any{"1"})
	if !kiterrors.IsFallbackInvocation(err) {
		t.Errorf("expected fallback invocation code, got %v", err)
	}
	if !errors.Is(err, fbErr) {
		t.Errorf("expected wrapped fallback cause, got %v", err)
	}
}

func TestDispatcher_MutuallyExclusiveFallbacks(t *testing.T) {
	breakers := resilience.NewBreakerFactory(resilience.DefaultBreakerConfig())
	_, err := NewDispatcher(Config{
		Target:          testTarget(),
		Table:           NewTable(nil),
		Breakers:        breakerAdapter{breakers},
		Fallback:        NewTable(nil),
		FallbackFactory: &causeFactory{},
	})
	if err == nil {
		t.Error("expected error for both fallback modes set")
	}
}

func TestMethod_CircuitKey(t *testing.T) {
	m := Method{Name: "FindOrders", Params: []string{"string", "int"}}
	if got := m.CircuitKey("OrderService"); got != "OrderService#FindOrders(string,int)" {
		t.Errorf("got %q", got)
	}
	if got := (Method{Name: "Ping"}).CircuitKey("Health"); got != "Health#Ping()" {
		t.Errorf("got %q", got)
	}
}
