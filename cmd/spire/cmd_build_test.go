package main

import "testing"

func TestNewKernel(t *testing.T) {
	k, err := newKernel("sdfx", 0)
	if err != nil {
		t.Fatalf("sdfx: %v", err)
	}
	if k == nil {
		t.Fatal("sdfx kernel is nil")
	}

	if _, err := newKernel("opencascade", 0); err == nil {
		t.Fatal("unknown kernel name accepted")
	}
}
