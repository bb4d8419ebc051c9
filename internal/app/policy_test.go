package app

import "testing"

func TestPolicyByName(t *testing.T) {
	tests := []struct {
		name    string
		want    BackpressureAction
		wantErr bool
	}{
		{"", DropFrame, false},
		{"drop", DropFrame, false},
		{"kick", KickMember, false},
		{"bogus", NoAction, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := PolicyByName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PolicyByName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got := p.OnBackPressure("room", "conn"); got != tt.want {
				t.Errorf("OnBackPressure = %v, want %v", got, tt.want)
			}
		})
	}
}
