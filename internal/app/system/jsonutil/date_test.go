package jsonutil

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{`"2026-07-01"`, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), false},
		{`"2026-07-01T09:30"`, time.Date(2026, 7, 1, 9, 30, 0, 0, time.UTC), false},
		{`"2026-07-01T09:30:00+02:00"`, time.Date(2026, 7, 1, 7, 30, 0, 0, time.UTC), false},
		{`"2026-07-01T09:30:00.5Z"`, time.Date(2026, 7, 1, 9, 30, 0, 500000000, time.UTC), false},
		{`""`, time.Time{}, false},
		{`"next tuesday"`, time.Time{}, true},
	}
	for _, tt := range tests {
		var d Date
		err := json.Unmarshal([]byte(tt.in), &d)
		if (err != nil) != tt.wantErr {
			t.Errorf("Unmarshal(%s) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !d.Time.Equal(tt.want) {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, d.Time, tt.want)
		}
	}
}

func TestDate_NullPointerStaysNil(t *testing.T) {
	var in struct {
		End *Date `json:"end"`
	}
	if err := json.Unmarshal([]byte(`{"end":null}`), &in); err != nil {
		t.Fatal(err)
	}
	if in.End != nil {
		t.Errorf("End = %v, want nil", in.End)
	}
}
