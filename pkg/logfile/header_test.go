package logfile

import "testing"

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  Header
	}{
		{
			name:  "rockbox header",
			lines: []string{"#AUDIOSCROBBLER/1.1", "#TZ/UNKNOWN", "#CLIENT/Rockbox ipodvideo $Revision$"},
			want:  Header{Version: "1.1", TZ: "UNKNOWN", Client: "Rockbox ipodvideo $Revision$"},
		},
		{
			name:  "utc zone",
			lines: []string{"#AUDIOSCROBBLER/1.1", "#TZ/UTC", "#CLIENT/Rockbox sansae200 r28000"},
			want:  Header{Version: "1.1", TZ: "UTC", Client: "Rockbox sansae200 r28000"},
		},
		{
			name:  "short header",
			lines: []string{"#AUDIOSCROBBLER/1.0"},
			want:  Header{Version: "1.0"},
		},
		{
			name:  "not a header",
			lines: []string{"a\tb\tc\t1\t2\tL\t3\t", "", "x"},
			want:  Header{},
		},
		{
			name:  "only first three lines count",
			lines: []string{"", "", "", "#CLIENT/late"},
			want:  Header{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseHeader(tt.lines)
			if got != tt.want {
				t.Errorf("ParseHeader() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewHeader(t *testing.T) {
	h := NewHeader("")
	want := "#AUDIOSCROBBLER/1.1\n#TZ/UNKNOWN\n#CLIENT/Rockbox ipodvideo $Revision$\n"
	if h.String() != want {
		t.Errorf("String() = %q, want %q", h.String(), want)
	}
	if !h.Supported() {
		t.Error("Supported() = false, want true")
	}

	h = NewHeader("Rockbox ipod6g r30000")
	if h.Client != "Rockbox ipod6g r30000" {
		t.Errorf("Client = %q", h.Client)
	}
	if (Header{Version: "1.0"}).Supported() {
		t.Error("Supported() = true for version 1.0")
	}
}
