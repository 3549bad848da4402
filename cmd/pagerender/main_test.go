package main

import "testing"

func TestParseOffset(t *testing.T) {
	cases := []struct {
		in      string
		x, y    int
		wantErr bool
	}{
		{"0,0", 0, 0, false},
		{"12, -4", 12, -4, false},
		{"12", 0, 0, true},
		{"a,1", 0, 0, true},
	}
	for _, tc := range cases {
		x, y, err := parseOffset(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("parseOffset(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if x != tc.x || y != tc.y {
			t.Errorf("parseOffset(%q) = %d,%d, want %d,%d", tc.in, x, y, tc.x, tc.y)
		}
	}
}

func TestReplaceExt(t *testing.T) {
	if got := replaceExt("dir/book.cbz", ".png"); got != "dir/book.png" {
		t.Errorf("replaceExt = %q", got)
	}
	if got := replaceExt("noext", ".png"); got != "noext.png" {
		t.Errorf("replaceExt = %q", got)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"dir/book.cbz", "dir/book.png"},
		{"scan.pdf", "scan.png"},
		{"page.png", "page.eink.png"},
		{"PAGE.PNG", "PAGE.eink.png"},
		{"render.js", "render.png"},
	}
	for _, tc := range cases {
		got := defaultOutputPath(tc.in)
		if got != tc.want {
			t.Errorf("defaultOutputPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
		if got == tc.in {
			t.Errorf("defaultOutputPath(%q) overwrites its input", tc.in)
		}
	}
}
