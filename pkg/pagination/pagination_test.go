package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-3); got != DefaultLimit {
		t.Fatalf("expected default limit for negative input, got %d", got)
	}
	if got := NormalizeLimit(500); got != MaxLimit {
		t.Fatalf("expected max limit cap, got %d", got)
	}
	if got := NormalizeLimit(30); got != 30 {
		t.Fatalf("expected passthrough, got %d", got)
	}
}

func TestOffset(t *testing.T) {
	p := Params{Page: 3, Limit: 10}
	if got := p.Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
	p = Params{Page: 0, Limit: 0}
	if got := p.Offset(); got != 0 {
		t.Fatalf("expected offset 0 for defaults, got %d", got)
	}
}

func TestLastPage(t *testing.T) {
	if got := LastPage(0, 15); got != 1 {
		t.Fatalf("empty result should report one page, got %d", got)
	}
	if got := LastPage(45, 15); got != 3 {
		t.Fatalf("expected 3 pages, got %d", got)
	}
	if got := LastPage(46, 15); got != 4 {
		t.Fatalf("expected 4 pages for partial tail, got %d", got)
	}
}
