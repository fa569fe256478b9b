package main

import "testing"

func TestCloseFooter(t *testing.T) {
	if _, ok := closeFooter(0); ok {
		t.Fatal("footer printed for sweep with no successful fetch")
	}
	if _, ok := closeFooter(-1); ok {
		t.Fatal("footer printed for negative price")
	}

	line, ok := closeFooter(123.4567)
	if !ok {
		t.Fatal("footer missing for successful sweep")
	}
	if line != "current close price: $123.4567" {
		t.Fatalf("footer = %q", line)
	}
}
