package mediajob

import "testing"

func TestResolveMIME(t *testing.T) {
	cases := []struct {
		hint, name, want string
	}{
		{"video/webm", "x.bin", "video/webm"},
		{"", "meeting.mkv", "video/x-matroska"},
		{"", "Meeting.FLV", "video/x-flv"},
		{"text/plain", "clip.avi", "video/x-msvideo"},
		{"", "notes.txt", ""},
		{"", "noext", ""},
	}
	for _, tc := range cases {
		if got := ResolveMIME(tc.hint, tc.name); got != tc.want {
			t.Fatalf("ResolveMIME(%q, %q) = %q, want %q", tc.hint, tc.name, got, tc.want)
		}
	}
}

func TestStateTerminal(t *testing.T) {
	if StateQueued.Terminal() {
		t.Fatal("queued must not be terminal")
	}
	for _, s := range []State{StateSucceeded, StateFailed, StateCancelled} {
		if !s.Terminal() {
			t.Fatalf("%s must be terminal", s)
		}
	}
}
