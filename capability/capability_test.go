package capability

import (
	"sync"
	"testing"

	"github.com/kbukum/clientkit/errors"
)

type greeter interface{ Greet() string }

type hello struct{ who string }

func (h hello) Greet() string { return "hello " + h.who }

func TestUnique_FindsLocalInstance(t *testing.T) {
	s := NewScope("orders", nil)
	s.Register("hello", hello{who: "orders"})

	g, err := Unique[greeter](s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Greet() != "hello orders" {
		t.Errorf("unexpected instance: %s", g.Greet())
	}
}

func TestUnique_FallsBackToAncestor(t *testing.T) {
	parent := NewScope("default", nil)
	parent.Register("hello", hello{who: "shared"})
	s := NewScope("orders", parent)

	g, err := Unique[greeter](s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Greet() != "hello shared" {
		t.Errorf("expected ancestor instance, got %s", g.Greet())
	}
}

func TestUnique_MissingFails(t *testing.T) {
	s := NewScope("orders", nil)

	_, err := Unique[greeter](s)
	if !errors.IsCapabilityNotFound(err) {
		t.Errorf("expected CapabilityNotFound, got %v", err)
	}
}

func TestUnique_AmbiguousFails(t *testing.T) {
	s := NewScope("orders", nil)
	s.Register("a", hello{who: "a"})
	s.Register("b", hello{who: "b"})

	_, err := Unique[greeter](s)
	if !errors.IsAmbiguousCapability(err) {
		t.Errorf("expected AmbiguousCapability, got %v", err)
	}
}

func TestUniqueLocal_IgnoresAncestors(t *testing.T) {
	parent := NewScope("default", nil)
	parent.Register("hello", hello{who: "shared"})
	s := NewScope("orders", parent)

	_, err := UniqueLocal[greeter](s)
	if !errors.IsCapabilityNotFound(err) {
		t.Errorf("expected CapabilityNotFound, got %v", err)
	}
}

func TestUnique_LocalShadowsAncestor(t *testing.T) {
	parent := NewScope("default", nil)
	parent.Register("hello", hello{who: "shared"})
	s := NewScope("orders", parent)
	s.Register("hello", hello{who: "orders"})

	g, err := Unique[greeter](s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Greet() != "hello orders" {
		t.Errorf("expected local instance to shadow ancestor, got %s", g.Greet())
	}
}

func TestLookup_AbsentReturnsFalse(t *testing.T) {
	s := NewScope("orders", nil)
	if _, ok := Lookup[greeter](s); ok {
		t.Error("expected absent lookup to return false")
	}
}

func TestLookupLocal_IgnoresAncestors(t *testing.T) {
	parent := NewScope("default", nil)
	parent.Register("hello", hello{who: "shared"})
	s := NewScope("orders", parent)

	if _, ok := LookupLocal[greeter](s); ok {
		t.Error("expected restricted lookup to miss ancestor instance")
	}
	if _, ok := Lookup[greeter](s); !ok {
		t.Error("expected inherited lookup to find ancestor instance")
	}
}

func TestNamed_FindsByIdentityName(t *testing.T) {
	parent := NewScope("default", nil)
	parent.Register("shared", hello{who: "shared"})
	s := NewScope("orders", parent)
	s.Register("local", hello{who: "local"})

	g, ok := Named[greeter](s, "shared")
	if !ok {
		t.Fatal("expected ancestor instance to be visible by name")
	}
	if g.Greet() != "hello shared" {
		t.Errorf("unexpected instance: %s", g.Greet())
	}
	if _, ok := Named[greeter](s, "missing"); ok {
		t.Error("expected unknown name to return false")
	}
}

func TestNamed_WrongTypeReturnsFalse(t *testing.T) {
	s := NewScope("orders", nil)
	s.Register("hello", "not a greeter")

	if _, ok := Named[greeter](s, "hello"); ok {
		t.Error("expected a differently-typed registration to return false")
	}
}

func TestNamedLocal_IgnoresAncestors(t *testing.T) {
	parent := NewScope("default", nil)
	parent.Register("shared", hello{who: "shared"})
	s := NewScope("orders", parent)

	if _, ok := NamedLocal[greeter](s, "shared"); ok {
		t.Error("expected restricted lookup to miss ancestor instance")
	}
}

func TestAll_ChildShadowsSameName(t *testing.T) {
	parent := NewScope("default", nil)
	parent.Register("hello", hello{who: "shared"})
	parent.Register("extra", hello{who: "extra"})
	s := NewScope("orders", parent)
	s.Register("hello", hello{who: "orders"})

	got := All[greeter](s)
	if len(got) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(got))
	}
	if got["hello"].Greet() != "hello orders" {
		t.Errorf("expected child to shadow parent, got %s", got["hello"].Greet())
	}
}

func TestAllOrdered_SortsByPriority(t *testing.T) {
	s := NewScope("orders", nil)
	s.Register("late", hello{who: "late"}, WithPriority(10))
	s.Register("early", hello{who: "early"}, WithPriority(-5))
	s.Register("mid", hello{who: "mid"})

	got := AllOrdered[greeter](s)
	if len(got) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(got))
	}
	if got[0].Greet() != "hello early" || got[2].Greet() != "hello late" {
		t.Errorf("unexpected order: %v, %v, %v", got[0].Greet(), got[1].Greet(), got[2].Greet())
	}
}

func TestRegister_ReplacesSameName(t *testing.T) {
	s := NewScope("orders", nil)
	s.Register("hello", hello{who: "one"})
	s.Register("hello", hello{who: "two"})

	g, err := Unique[greeter](s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Greet() != "hello two" {
		t.Errorf("expected replacement, got %s", g.Greet())
	}
}

func TestProvider_ScopeIsCached(t *testing.T) {
	p := NewProvider()
	a := p.Scope("orders")
	b := p.Scope("orders")
	if a != b {
		t.Error("expected the same scope instance per name")
	}
	if a.Parent() != p.Default() {
		t.Error("expected client scope to chain to the default scope")
	}
}

func TestProvider_ConcurrentFirstAccessSingleWinner(t *testing.T) {
	p := NewProvider()

	const n = 32
	scopes := make([]*Scope, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			scopes[i] = p.Scope("orders")
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if scopes[i] != scopes[0] {
			t.Fatal("concurrent first access produced distinct scopes")
		}
	}
}

func TestProvider_Names(t *testing.T) {
	p := NewProvider()
	p.Scope("orders")
	p.Scope("billing")

	names := p.Names()
	if len(names) != 2 || names[0] != "billing" || names[1] != "orders" {
		t.Errorf("unexpected names: %v", names)
	}
}
