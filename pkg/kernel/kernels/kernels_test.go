package kernels

import (
	"fmt"
	"testing"
)

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
		want    string
	}{
		{"", false, "*earcut.EarcutKernel"},
		{"earcut", false, "*earcut.EarcutKernel"},
		{" SDFX ", false, "*sdfx.SdfxKernel"},
		{"manifold", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := ByName(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ByName(%q): %v", tt.name, err)
			}
			if got := fmt.Sprintf("%T", k); got != tt.want {
				t.Errorf("ByName(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 2 || names[0] != "earcut" || names[1] != "sdfx" {
		t.Errorf("Names() = %v", names)
	}
}
