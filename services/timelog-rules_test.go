package services

import (
	"testing"

	"github.com/Tanish6738/project-management-sub001/models"
)

func TestTimeLogDelta(t *testing.T) {
	tests := []struct {
		name    string
		old     int
		new     int
		want    int
		wantErr bool
	}{
		{"increase", 30, 45, 15, false},
		{"decrease", 60, 20, -40, false},
		{"unchanged", 25, 25, 0, false},
		{"zero duration rejected", 30, 0, 0, true},
		{"negative duration rejected", 30, -10, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timeLogDelta(tt.old, tt.new)
			if tt.wantErr {
				if models.KindOf(err) != models.KindValidation {
					t.Errorf("timeLogDelta(%d, %d) kind = %v, want KindValidation", tt.old, tt.new, models.KindOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("timeLogDelta(%d, %d) error = %v, want nil", tt.old, tt.new, err)
			}
			if got != tt.want {
				t.Errorf("timeLogDelta(%d, %d) = %d, want %d", tt.old, tt.new, got, tt.want)
			}
		})
	}
}
