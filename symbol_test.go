package pixhuff

import (
	"testing"
)

func TestSymbol(t *testing.T) {
	type testRow struct {
		r, g, b uint8
		sym     Symbol
		str     string
	}

	testData := [...]testRow{
		{r: 0, g: 0, b: 0, sym: 0x000000, str: "#000000"},
		{r: 10, g: 10, b: 10, sym: 0x0a0a0a, str: "#0a0a0a"},
		{r: 0xff, g: 0x80, b: 0x01, sym: 0xff8001, str: "#ff8001"},
		{r: 0xff, g: 0xff, b: 0xff, sym: MaxSymbol, str: "#ffffff"},
	}
	for _, row := range testData {
		t.Run(row.str, func(t *testing.T) {
			sym := MakeSymbol(row.r, row.g, row.b)
			if sym != row.sym {
				t.Errorf("expected symbol %#x, got %#x", uint32(row.sym), uint32(sym))
			}
			if str := sym.String(); str != row.str {
				t.Errorf("expected %q, got %q", row.str, str)
			}
			r, g, b := sym.RGB()
			if r != row.r || g != row.g || b != row.b {
				t.Errorf("expected (%d,%d,%d), got (%d,%d,%d)", row.r, row.g, row.b, r, g, b)
			}
		})
	}

	if str := InvalidSymbol.String(); str != "#invalid" {
		t.Errorf("expected \"#invalid\", got %q", str)
	}
}
