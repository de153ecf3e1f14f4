package provider

import "testing"

func TestFloatOrNil(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"8.7", fptr(8.7)},
		{" 7.0 ", fptr(7.0)},
		{"N/A", nil},
		{"", nil},
		{"NaN", nil},
		{"+Inf", nil},
		{"eight", nil},
	}
	for _, tt := range tests {
		got := FloatOrNil(tt.in)
		if !eqF(got, tt.want) {
			t.Errorf("FloatOrNil(%q) = %v, want %v", tt.in, deref(got), deref(tt.want))
		}
	}
}

func TestIntOrNil(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"1,234,567", iptr(1234567)},
		{"42", iptr(42)},
		{"N/A", nil},
		{"", nil},
		{"12.5", nil},
		{"many", nil},
	}
	for _, tt := range tests {
		got := IntOrNil(tt.in)
		if !eqI(got, tt.want) {
			t.Errorf("IntOrNil(%q) = %v, want %v", tt.in, deref(got), deref(tt.want))
		}
	}
}

func TestPercentOrNil(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"85%", iptr(85)},
		{"0%", iptr(0)},
		{"100%", iptr(100)},
		{"101%", nil},
		{"85", nil},
		{"%", nil},
		{"N/A", nil},
	}
	for _, tt := range tests {
		got := PercentOrNil(tt.in)
		if !eqI(got, tt.want) {
			t.Errorf("PercentOrNil(%q) = %v, want %v", tt.in, deref(got), deref(tt.want))
		}
	}
}

func TestFractionOrNil(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"74/100", iptr(74)},
		{"0/100", iptr(0)},
		{"100/100", iptr(100)},
		{"74", nil},
		{"/100", nil},
		{"abc/100", nil},
	}
	for _, tt := range tests {
		got := FractionOrNil(tt.in)
		if !eqI(got, tt.want) {
			t.Errorf("FractionOrNil(%q) = %v, want %v", tt.in, deref(got), deref(tt.want))
		}
	}
}

func TestYearOrNil(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"1999-10-15", iptr(1999)},
		{"2024", iptr(2024)},
		{"199", nil},
		{"", nil},
		{"abcd-01-01", nil},
	}
	for _, tt := range tests {
		got := YearOrNil(tt.in)
		if !eqI(got, tt.want) {
			t.Errorf("YearOrNil(%q) = %v, want %v", tt.in, deref(got), deref(tt.want))
		}
	}
}

func fptr(f float64) *float64 { return &f }
func iptr(n int) *int         { return &n }

func eqF(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqI(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(v interface{}) interface{} {
	switch p := v.(type) {
	case *float64:
		if p != nil {
			return *p
		}
	case *int:
		if p != nil {
			return *p
		}
	}
	return nil
}
