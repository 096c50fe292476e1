package slug

import "testing"

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Jean Dupont", "jean-dupont"},
		{"Électricité Générale", "electricite-generale"},
		{"Maçonnerie & Carrelage", "maconnerie-carrelage"},
		{"  Plombier  ", "plombier"},
		{"---", ""},
		{"🔧🔧🔧", ""},
		{"", ""},
		{"Déjà-Vu  12", "deja-vu-12"},
		{"ALL CAPS", "all-caps"},
		{"a..b..c", "a-b-c"},
	}

	for _, c := range cases {
		if got := Make(c.in); got != c.want {
			t.Errorf("Make(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMakeDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if Make("Côté Jardin") != "cote-jardin" {
			t.Fatal("Make should be deterministic")
		}
	}
}
