package starport

import (
	"math"
	"testing"
	"time"
)

func TestParseEasing(t *testing.T) {
	tests := []struct {
		easing  string
		wantNil bool
		wantErr bool
	}{
		{"", true, false},
		{"linear", false, false},
		{"ease-in-out", false, false},
		{DefaultEasing, false, false},
		{"cubic-bezier(0.1,0.2,0.3,0.4)", false, false},
		{"bounce", true, true},
		{"cubic-bezier(0.1, 0.2, 0.3)", true, true},
		{"cubic-bezier(1.5, 0, 0.5, 1)", true, true},
		{"cubic-bezier(0, 0, 1, 1", true, true},
	}
	for _, tt := range tests {
		curve, err := ParseEasing(tt.easing)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEasing(%q) error = %v, wantErr %v", tt.easing, err, tt.wantErr)
		}
		if (curve == nil) != tt.wantNil {
			t.Errorf("ParseEasing(%q) nil curve = %v, want %v", tt.easing, curve == nil, tt.wantNil)
		}
	}
}

func TestDefaultEasingIsSymmetric(t *testing.T) {
	curve := DefaultOptions().Curve()
	if curve == nil {
		t.Fatal("default curve is nil")
	}
	if got := curve(0.5); math.Abs(got-0.5) > 1e-3 {
		t.Errorf("curve(0.5) = %v, want 0.5", got)
	}
	if curve(0) != 0 || curve(1) != 1 {
		t.Error("curve endpoints must be 0 and 1")
	}
}

func TestOptionsMerge(t *testing.T) {
	base := DefaultOptions()
	merged := base.Merge(Options{Duration: 200 * time.Millisecond, ZIndex: 4})
	if merged.Duration != 200*time.Millisecond || merged.ZIndex != 4 || merged.Easing != DefaultEasing {
		t.Errorf("Merge = %+v", merged)
	}
	if got := base.Merge(Options{}); got != base {
		t.Errorf("merging zero options changed %+v into %+v", base, got)
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Errorf("default options invalid: %v", err)
	}
	if err := (Options{}).Validate(); err != nil {
		t.Errorf("zero options invalid: %v", err)
	}
	if err := (Options{Easing: "wobble"}).Validate(); err == nil {
		t.Error("expected unknown easing to fail validation")
	}
	if err := (Options{Duration: -time.Second}).Validate(); err != nil {
		t.Errorf("negative duration should validate as a snap: %v", err)
	}
}

func TestNegativeDurationSnapsUnderAnimatedDefaults(t *testing.T) {
	merged := DefaultOptions().Merge(Options{Duration: -1})
	if merged.Duration >= 0 {
		t.Fatalf("Merge kept duration %v, want the negative override", merged.Duration)
	}
	if merged.Easing != DefaultEasing {
		t.Errorf("Easing = %q, want %q", merged.Easing, DefaultEasing)
	}
}

type withFunc struct {
	Label string
	OnTap func()
	Tags  []string
}

func TestPropsEqual(t *testing.T) {
	build := func(label string, n int) withFunc {
		return withFunc{Label: label, OnTap: func() { _ = n }, Tags: []string{"a"}}
	}
	if !propsEqual(build("x", 1), build("x", 2)) {
		t.Error("fresh callbacks alone should not count as a change")
	}
	if !propsEqual(withFunc{OnTap: func() {}}, withFunc{OnTap: t.Fail}) {
		t.Error("two non-nil funcs should compare equal")
	}
	if propsEqual(build("x", 1), build("y", 1)) {
		t.Error("different labels should differ")
	}
	if propsEqual(withFunc{OnTap: func() {}}, withFunc{}) {
		t.Error("nil and non-nil funcs should differ")
	}
	if propsEqual(build("x", 1), withFunc{Label: "x", OnTap: func() {}, Tags: []string{"b"}}) {
		t.Error("different tags should differ")
	}
	if !propsEqual(nil, nil) || propsEqual(nil, build("x", 1)) {
		t.Error("nil handling")
	}
}
