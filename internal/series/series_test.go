package series

import "testing"

func TestParseKind(t *testing.T) {
	cases := []struct {
		in      string
		want    IndexKind
		wantErr bool
	}{
		{"ndvi", NDVI, false},
		{" NDMI ", NDMI, false},
		{"Savi", SAVI, false},
		{"evi", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseKind(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseKind(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKind(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBundleValuesSkipsInvalidMeans(t *testing.T) {
	bundle := Bundle{Records: []MonthlyRecord{
		{Year: 2024, Month: 1, NDVI: Sample{Mean: Float(0.5)}},
		{Year: 2024, Month: 2},
		{Year: 2024, Month: 3, NDVI: Sample{Mean: Float(1.5)}},
		{Year: 2024, Month: 4, NDVI: Sample{Mean: Float(0.7)}},
	}}

	values, records := bundle.Values(NDVI)
	if len(values) != 2 || len(records) != 2 {
		t.Fatalf("expected 2 valid samples, got %v", values)
	}
	if values[0] != 0.5 || values[1] != 0.7 {
		t.Fatalf("unexpected values %v", values)
	}
	if records[1].Month != 4 {
		t.Fatalf("expected record order preserved, got month %d", records[1].Month)
	}
	if !bundle.HasIndex(NDVI) {
		t.Fatal("expected NDVI present")
	}
	if bundle.HasIndex(SAVI) {
		t.Fatal("expected SAVI absent")
	}
}

func TestRangeLabel(t *testing.T) {
	bundle := Bundle{Records: []MonthlyRecord{
		{Year: 2024, Month: 3},
		{Year: 2024, Month: 8},
	}}
	if got := bundle.RangeLabel(); got != "March 2024 - August 2024" {
		t.Fatalf("unexpected range label %q", got)
	}

	single := Bundle{Records: []MonthlyRecord{{Year: 2024, Month: 3}}}
	if got := single.RangeLabel(); got != "March 2024" {
		t.Fatalf("unexpected single-month label %q", got)
	}

	var empty Bundle
	if got := empty.RangeLabel(); got != "" {
		t.Fatalf("expected empty label, got %q", got)
	}
}

func TestInRange(t *testing.T) {
	for _, v := range []float64{-1, -0.5, 0, 0.99, 1} {
		if !InRange(v) {
			t.Errorf("expected %v in range", v)
		}
	}
	for _, v := range []float64{-1.01, 1.01, 5} {
		if InRange(v) {
			t.Errorf("expected %v out of range", v)
		}
	}
}
