package statemetrics

import "testing"

func TestConditionPath(t *testing.T) {
	p := ConditionPath("Ready", "reason")

	want := []string{"status", "conditions", "[type=Ready]", "reason"}
	got := p.Strings()
	if len(got) != len(want) {
		t.Fatalf("got %d segments, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if p[2].IsPredicate() != true {
		t.Error("third segment should be the type predicate")
	}
	for _, i := range []int{0, 1, 3} {
		if p[i].IsPredicate() {
			t.Errorf("segment[%d] should be a plain field", i)
		}
	}
}

func TestSegmentString(t *testing.T) {
	tests := []struct {
		seg  Segment
		want string
	}{
		{Field("status"), "status"},
		{Field("conditions"), "conditions"},
		{TypeIs("Synced"), "[type=Synced]"},
	}

	for _, tt := range tests {
		if got := tt.seg.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
