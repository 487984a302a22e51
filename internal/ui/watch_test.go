package ui

import (
	"errors"
	"testing"
)

func TestSuccessRatio(t *testing.T) {
	ev := PassEvent{Targets: []TargetStatus{
		{Path: "a.stl"},
		{Path: "b.svg", Err: errors.New("boom")},
	}}
	if got := successRatio(ev); got != 0.5 {
		t.Errorf("ratio = %v", got)
	}
	if got := successRatio(PassEvent{Err: errors.New("fail")}); got != 0 {
		t.Errorf("failed pass ratio = %v", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 20); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncate("a/very/long/target/path.stl", 10); got != "a/ve..." {
		t.Errorf("got %q", got)
	}
}
