package core

import "testing"

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Médico", "medico"},
		{"Valor Unitário", "valor_unitario"},
		{"  Dia da  Semana  ", "dia_da_semana"},
		{"CONVÊNIO", "convenio"},
		{"paciente", "paciente"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeKey(tc.in); got != tc.want {
			t.Fatalf("NormalizeKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeKeyIdempotent(t *testing.T) {
	inputs := []string{"Médico", "Valor Unitário", "dia_da_semana", "São Paulo - Centro", "UNIMED"}
	for _, in := range inputs {
		once := NormalizeKey(in)
		if twice := NormalizeKey(once); twice != once {
			t.Fatalf("NormalizeKey not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSameCategory(t *testing.T) {
	if !SameCategory("PARTICULAR", "particular") {
		t.Fatal("case-insensitive match failed")
	}
	if !SameCategory("Particular ", "particular") {
		t.Fatal("whitespace-insensitive match failed")
	}
	if !SameCategory("Convênio", "convenio") {
		t.Fatal("accent-insensitive match failed")
	}
	if SameCategory("Unimed", "particular") {
		t.Fatal("distinct categories matched")
	}
}
