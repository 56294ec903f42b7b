package presentation

import (
	"reflect"
	"testing"
)

func TestFunctionRegistryRegisterAndCall(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("Join", func(args ...any) (any, error) {
		return len(args), nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("join", func(...any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("names should be unique ignoring case")
	}
	if err := registry.Register("", func(...any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected empty name error")
	}
	if err := registry.Register("nil", nil); err == nil {
		t.Fatalf("expected nil function error")
	}

	result, err := registry.Call("JOIN", "a", "b")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if result != 2 {
		t.Fatalf("expected 2, got %v", result)
	}
	if _, err := registry.Call("missing"); err == nil {
		t.Fatalf("expected missing function error")
	}
}

func TestFunctionRegistryCloneIsIndependent(t *testing.T) {
	registry := NewFunctionRegistry()
	registry.Register("a", func(...any) (any, error) { return nil, nil })
	clone := registry.Clone()
	registry.Register("b", func(...any) (any, error) { return nil, nil })

	if !reflect.DeepEqual(clone.Names(), []string{"a"}) {
		t.Fatalf("clone should not see later registrations, got %v", clone.Names())
	}
	if !reflect.DeepEqual(registry.Names(), []string{"a", "b"}) {
		t.Fatalf("unexpected names %v", registry.Names())
	}

	var nilRegistry *FunctionRegistry
	if nilRegistry.Clone() != nil || nilRegistry.Names() != nil {
		t.Fatalf("nil registry helpers should return nil")
	}
	if _, err := nilRegistry.Call("a"); err == nil {
		t.Fatalf("expected error calling nil registry")
	}
}
