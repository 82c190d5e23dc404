package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "blank", input: "  \t\n ", want: ""},
		{name: "trims and lowercases", input: "  Uber ride downtown  ", want: "uber ride downtown"},
		{name: "collapses whitespace", input: "Netflix\t\tmonthly \n plan", want: "netflix monthly plan"},
		{name: "strips punctuation inside tokens", input: "McDonald's #42", want: "mcdonalds 42"},
		{name: "drops tokens that become empty", input: "Coffee - @ - Latte", want: "coffee latte"},
		{name: "keeps digits", input: "7-Eleven 2024", want: "7eleven 2024"},
		{name: "strips non-ascii letters", input: "Café Crème", want: "caf crme"},
		{name: "only symbols", input: "!!! ???", want: ""},
		{name: "preserves order", input: "b a c", want: "b a c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.input))
		})
	}
}

func TestKeyIsIdempotent(t *testing.T) {
	inputs := []string{
		"  Uber ride downtown  ",
		"AMAZON.COM*2K4 Mktp US",
		"Café Crème",
		"Ölçü ŞİŞLİ",
		"",
	}

	for _, input := range inputs {
		once := Key(input)
		assert.Equal(t, once, Key(once), "input %q", input)
	}
}

func FuzzKey(f *testing.F) {
	seeds := []string{
		"Uber ride downtown",
		"  spaced   out  ",
		"İstanbul Kebab",
		"a b",
		"\x00\xff",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		once := Key(input)
		if twice := Key(once); twice != once {
			t.Fatalf("Key not idempotent: %q -> %q -> %q", input, once, twice)
		}
		for _, r := range once {
			if r != ' ' && keepAlnum(r) == -1 {
				t.Fatalf("Key(%q) = %q contains %q", input, once, r)
			}
		}
	})
}
