package geo

import "testing"

func TestValidateOpeningHours(t *testing.T) {
	tests := []struct {
		name    string
		hours   map[string]string
		wantErr bool
	}{
		{"nil map", nil, false},
		{"full week", map[string]string{
			"mon": "09:00-17:00", "tue": "09:00-17:00", "wed": "09:00-17:00",
			"thu": "09:00-17:00", "fri": "09:00-17:00", "sat": "10:00-14:00",
			"sun": "closed",
		}, false},
		{"closed is case-insensitive", map[string]string{"mon": "Closed"}, false},
		{"missing days allowed", map[string]string{"wed": "08:30-12:00"}, false},
		{"unknown weekday", map[string]string{"monday": "09:00-17:00"}, true},
		{"bad hour", map[string]string{"mon": "25:00-17:00"}, true},
		{"bad minutes", map[string]string{"mon": "09:60-17:00"}, true},
		{"missing range", map[string]string{"mon": "09:00"}, true},
		{"free text", map[string]string{"mon": "all day"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOpeningHours(tt.hours)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}
