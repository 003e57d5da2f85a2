package hike

import (
	"errors"
	"strings"
	"testing"
)

func TestRenderAnchorsReplacesAllOccurrences(t *testing.T) {
	calls := 0
	anchors := []Anchor{{Marker: "[X]", Func: func() (string, error) {
		calls++
		return "v", nil
	}}}
	out, err := renderAnchors([]byte("a [X] b [X] c"), anchors)
	if err != nil {
		t.Fatalf("renderAnchors: %v", err)
	}
	if string(out) != "a v b v c" {
		t.Fatalf("out = %q", out)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestRenderAnchorsSkipsAbsentMarker(t *testing.T) {
	calls := 0
	anchors := []Anchor{{Marker: "[gone]", Func: func() (string, error) {
		calls++
		return "never", nil
	}}}
	out, err := renderAnchors([]byte("static content"), anchors)
	if err != nil {
		t.Fatalf("renderAnchors: %v", err)
	}
	if string(out) != "static content" {
		t.Fatalf("out = %q", out)
	}
	if calls != 0 {
		t.Fatalf("calls = %d, want 0", calls)
	}
}

func TestRenderAnchorsAppliesInOrder(t *testing.T) {
	anchors := []Anchor{
		{Marker: "[A]", Func: func() (string, error) { return "first [B]", nil }},
		{Marker: "[B]", Func: func() (string, error) { return "second", nil }},
	}
	out, err := renderAnchors([]byte("x [A] y [B] z"), anchors)
	if err != nil {
		t.Fatalf("renderAnchors: %v", err)
	}
	// A later anchor also rewrites markers introduced by an earlier one.
	if string(out) != "x first second y second z" {
		t.Fatalf("out = %q", out)
	}
}

func TestRenderAnchorsSecondPassIsNoOp(t *testing.T) {
	calls := 0
	anchors := []Anchor{
		{Marker: "[A]", Func: func() (string, error) {
			calls++
			return "alpha", nil
		}},
		{Marker: "[B]", Func: func() (string, error) {
			calls++
			return "beta", nil
		}},
	}
	first, err := renderAnchors([]byte("[A] mid [B]"), anchors)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	second, err := renderAnchors(first, anchors)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if string(second) != string(first) {
		t.Fatalf("second pass changed output: %q vs %q", second, first)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestRenderAnchorsErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	secondCalled := false
	anchors := []Anchor{
		{Marker: "[A]", Func: func() (string, error) { return "", boom }},
		{Marker: "[B]", Func: func() (string, error) {
			secondCalled = true
			return "", nil
		}},
	}
	out, err := renderAnchors([]byte("[A] [B]"), anchors)
	if out != nil {
		t.Fatalf("out = %q, want nil", out)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	var ae *AnchorError
	if !errors.As(err, &ae) || ae.Marker != "[A]" {
		t.Fatalf("err = %#v, want AnchorError for [A]", err)
	}
	if secondCalled {
		t.Fatalf("second anchor ran after failure")
	}
}

func TestRenderAnchorsRecoversPanic(t *testing.T) {
	anchors := []Anchor{{Marker: "[A]", Func: func() (string, error) {
		panic("bad callback")
	}}}
	_, err := renderAnchors([]byte("[A]"), anchors)
	if err == nil || !strings.Contains(err.Error(), "panic: bad callback") {
		t.Fatalf("err = %v, want recovered panic", err)
	}
}

func TestRenderAnchorsNoEscaping(t *testing.T) {
	anchors := []Anchor{{Marker: "[A]", Func: func() (string, error) {
		return `<script>"&'`, nil
	}}}
	out, err := renderAnchors([]byte("before [A] after"), anchors)
	if err != nil {
		t.Fatalf("renderAnchors: %v", err)
	}
	if string(out) != `before <script>"&' after` {
		t.Fatalf("out = %q", out)
	}
}
