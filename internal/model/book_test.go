package model

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   Status
		wantOK bool
	}{
		{"available", StatusAvailable, true},
		{"checked_out", StatusCheckedOut, true},
		{"Available", "", false},
		{" available", "", false},
		{"lost", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseStatus(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
