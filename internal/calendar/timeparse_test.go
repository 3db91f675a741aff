package calendar

import "testing"

func TestParseClock(t *testing.T) {
	tests := []struct {
		input string
		want  *Clock
	}{
		{"18", &Clock{18, 0}},
		{"18:30", &Clock{18, 30}},
		{"18.30", &Clock{18, 30}},
		{"6pm", &Clock{18, 0}},
		{"6 pm", &Clock{18, 0}},
		{"6:15pm", &Clock{18, 15}},
		{"12pm", &Clock{12, 0}},
		{"12am", &Clock{0, 0}},
		{"9", &Clock{9, 0}},
		{"09:05", &Clock{9, 5}},
		{"11.45am", &Clock{11, 45}},
		{"  8PM ", &Clock{20, 0}},
		{"", nil},
		{"evening", nil},
		{"25", nil},
		{"18:75", nil},
		{"pm", nil},
	}

	for _, tt := range tests {
		got := ParseClock(tt.input)
		if tt.want == nil {
			if got != nil {
				t.Errorf("ParseClock(%q) = %+v, want nil", tt.input, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("ParseClock(%q) = nil, want %+v", tt.input, tt.want)
			continue
		}
		if *got != *tt.want {
			t.Errorf("ParseClock(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		input     string
		wantStart *Clock
		wantEnd   *Clock
	}{
		{"18-22", &Clock{18, 0}, &Clock{22, 0}},
		{"18:00–22:30", &Clock{18, 0}, &Clock{22, 30}},
		{"18:00—22:30", &Clock{18, 0}, &Clock{22, 30}},
		{"6pm to 10pm", &Clock{18, 0}, &Clock{22, 0}},
		{"6PM TO 10PM", &Clock{18, 0}, &Clock{22, 0}},
		{"6pm", &Clock{18, 0}, nil},
		{"18 - 22", &Clock{18, 0}, &Clock{22, 0}},
		{"18-", &Clock{18, 0}, nil},
		{"18-late", &Clock{18, 0}, nil},
		{"whenever", nil, nil},
	}

	for _, tt := range tests {
		gotStart, gotEnd := ParseTimeRange(tt.input)
		if !clockEqual(gotStart, tt.wantStart) {
			t.Errorf("ParseTimeRange(%q) start = %+v, want %+v", tt.input, gotStart, tt.wantStart)
		}
		if !clockEqual(gotEnd, tt.wantEnd) {
			t.Errorf("ParseTimeRange(%q) end = %+v, want %+v", tt.input, gotEnd, tt.wantEnd)
		}
	}
}

func clockEqual(a, b *Clock) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
