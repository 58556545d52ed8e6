package core

import "testing"

func TestParseAmountToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"100,00", 10000, true},
		{"100.00", 10000, true},
		{"0", 0, true},
		{"0,00", 0, true},
		{"1.234,56", 123456, true},
		{"1,234.56", 123456, true},
		{"1.234.567,89", 123456789, true},
		{"R$ 150,00", 15000, true},
		{"1.005", 101, true}, // half-up rounding on third decimal
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"12,34,56", 0, false},
		{"", 0, false},
		{"R$", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmountToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0,00"},
		{5, "0,05"},
		{10000, "100,00"},
		{123456, "1.234,56"},
		{123456789, "1.234.567,89"},
		{-123456, "-1.234,56"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).Format(); got != tc.want {
			t.Fatalf("Format(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0,0"},
		{33.333, "33,3"},
		{100, "100,0"},
		{-12.35, "-12,3"},
	}
	for _, tc := range cases {
		if got := FormatPercent(tc.in); got != tc.want {
			t.Fatalf("FormatPercent(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
