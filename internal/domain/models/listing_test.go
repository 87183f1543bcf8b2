package models

import "testing"

func TestHumanSize(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want string
	}{
		{"bytes", 512, "512 B"},
		{"zero", 0, "0 B"},
		{"kilobytes", 2048, "2.0 KB"},
		{"megabytes", 5 * 1024 * 1024, "5.0 MB"},
		{"fractional", 1536, "1.5 KB"},
		{"gigabytes", 3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := FileSystemNode{Size: tt.size}
			if got := n.HumanSize(); got != tt.want {
				t.Errorf("HumanSize(%d) = %q, want %q", tt.size, got, tt.want)
			}
		})
	}
}
