package payment

import (
	"math/big"
	"testing"
)

func TestHumanToRaw(t *testing.T) {
	t.Run("whole number", func(t *testing.T) {
		raw, err := HumanToRaw("1", 6)
		if err != nil {
			t.Fatalf("HumanToRaw() failed: %v", err)
		}
		if raw.String() != "1000000" {
			t.Errorf("HumanToRaw(\"1\", 6) = %s, want 1000000", raw)
		}
	})

	t.Run("exact fraction", func(t *testing.T) {
		raw, err := HumanToRaw("5.000001", 6)
		if err != nil {
			t.Fatalf("HumanToRaw() failed: %v", err)
		}
		if raw.String() != "5000001" {
			t.Errorf("HumanToRaw(\"5.000001\", 6) = %s, want 5000001", raw)
		}
	})

	t.Run("extra digits are truncated", func(t *testing.T) {
		raw, err := HumanToRaw("5.0000015", 6)
		if err != nil {
			t.Fatalf("HumanToRaw() failed: %v", err)
		}
		if raw.String() != "5000001" {
			t.Errorf("HumanToRaw(\"5.0000015\", 6) = %s, want 5000001 (truncated)", raw)
		}
	})

	t.Run("zero", func(t *testing.T) {
		raw, err := HumanToRaw("0", 6)
		if err != nil {
			t.Fatalf("HumanToRaw() failed: %v", err)
		}
		if raw.Sign() != 0 {
			t.Errorf("HumanToRaw(\"0\", 6) = %s, want 0", raw)
		}
	})

	t.Run("zero decimals", func(t *testing.T) {
		raw, err := HumanToRaw("42", 0)
		if err != nil {
			t.Fatalf("HumanToRaw() failed: %v", err)
		}
		if raw.String() != "42" {
			t.Errorf("HumanToRaw(\"42\", 0) = %s, want 42", raw)
		}
	})

	t.Run("bare fraction", func(t *testing.T) {
		raw, err := HumanToRaw("0.5", 6)
		if err != nil {
			t.Fatalf("HumanToRaw() failed: %v", err)
		}
		if raw.String() != "500000" {
			t.Errorf("HumanToRaw(\"0.5\", 6) = %s, want 500000", raw)
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, input := range []string{"5.5.5", "abc", "-5", "1e6", "1,000", " 1", "", "."} {
			if _, err := HumanToRaw(input, 6); err == nil {
				t.Errorf("HumanToRaw(%q, 6) should fail", input)
			}
		}
	})

	t.Run("rejects amounts over uint256", func(t *testing.T) {
		huge := new(big.Int).Lsh(big.NewInt(1), 256).String()
		if _, err := HumanToRaw(huge, 0); err == nil {
			t.Error("HumanToRaw() should reject amounts above the uint256 range")
		}
	})
}

func TestRawToHuman(t *testing.T) {
	cases := []struct {
		raw      string
		decimals uint8
		want     string
	}{
		{"5000001", 6, "5.000001"},
		{"1000000", 6, "1"},
		{"500000", 6, "0.5"},
		{"0", 6, "0"},
		{"42", 0, "42"},
		{"1", 6, "0.000001"},
	}
	for _, c := range cases {
		if got := RawToHuman(c.raw, c.decimals); got != c.want {
			t.Errorf("RawToHuman(%q, %d) = %q, want %q", c.raw, c.decimals, got, c.want)
		}
	}
}

func TestHumanToRawRoundTrip(t *testing.T) {
	for _, human := range []string{"1", "0.5", "5.000001", "123456.789", "0.000001"} {
		raw, err := HumanToRaw(human, 6)
		if err != nil {
			t.Fatalf("HumanToRaw(%q) failed: %v", human, err)
		}
		back := RawToHuman(raw.String(), 6)
		if back != human {
			t.Errorf("round trip of %q gave %q", human, back)
		}
	}
}

func TestGweiToWei(t *testing.T) {
	if got := GweiToWei(1); got.String() != "1000000000" {
		t.Errorf("GweiToWei(1) = %s, want 1000000000", got)
	}
	if got := GweiToWei(0.5); got.String() != "500000000" {
		t.Errorf("GweiToWei(0.5) = %s, want 500000000", got)
	}
	if got := GweiToWei(0); got.Sign() != 0 {
		t.Errorf("GweiToWei(0) = %s, want 0", got)
	}
}
