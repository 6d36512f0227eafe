package conformance_test

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"testing"

	cyberphone "github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"

	"github.com/lattice-substrate/lazynum/numfmt"
)

// sampleSeeds are bit patterns at the edges of the ECMAScript layout rules.
var sampleSeeds = [...]uint64{
	0x0000000000000000, 0x8000000000000000, 0x0000000000000001, 0x8000000000000001,
	0x7fefffffffffffff, 0xffefffffffffffff, 0x0010000000000000, 0x000fffffffffffff,
	0x3eb0c6f7a0b5ed8d, 0x3eb0c6f7a0b5ed8c, 0x3eb0c6f7a0b5ed8e,
	0x444b1ae4d6e2ef50, 0x444b1ae4d6e2ef4f, 0x444b1ae4d6e2ef51,
	0x3ff0000000000000, 0x3fb999999999999a, 0x4415af1d78b58c40, 0x44b52d02c7e14af6,
}

// sampler yields the seeds, a serial run above the smallest normal, then a
// SHA-256 chain of finite doubles. The stream is the same on every run.
type sampler struct {
	idx   int
	data  []byte
	block [sha256.Size]byte
}

func (g *sampler) next() float64 {
	const serialCount = 500
	var f float64
	switch {
	case g.idx < len(sampleSeeds):
		f = math.Float64frombits(sampleSeeds[g.idx])
	case g.idx < len(sampleSeeds)+serialCount:
		//nolint:gosec // index is bounded by the switch.
		f = math.Float64frombits(0x0010000000000000 + uint64(g.idx-len(sampleSeeds)))
	default:
		for f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			if len(g.data) == 0 {
				g.block = sha256.Sum256(g.block[:])
				g.data = g.block[:]
			}
			f = math.Float64frombits(binary.LittleEndian.Uint64(g.data[:8]))
			g.data = g.data[8:]
		}
	}
	g.idx++
	return f
}

func samples(n int) []float64 {
	g := &sampler{}
	out := make([]float64, n)
	for i := range out {
		out[i] = g.next()
	}
	return out
}

// cyberphoneNumbers canonicalizes xs as a JSON array and returns the number
// texts the reference canonicalizer chose.
func cyberphoneNumbers(t *testing.T, xs []float64) []string {
	t.Helper()
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	out, err := cyberphone.Transform([]byte("[" + strings.Join(parts, ",") + "]"))
	if err != nil {
		t.Fatalf("cyberphone transform: %v", err)
	}
	s := strings.TrimSuffix(strings.TrimPrefix(string(out), "["), "]")
	return strings.Split(s, ",")
}

func ecma(t *testing.T, x float64) string {
	t.Helper()
	s, err := numfmt.FormatFloat(x, numfmt.Options{Style: numfmt.ECMA})
	if err != nil {
		t.Fatalf("format %v: %v", x, err)
	}
	return s
}

func checkECMABoundaryConstants(t *testing.T, _ *harness) {
	cases := map[uint64]string{
		0x0000000000000000: "0",
		0x8000000000000000: "0",
		0x0000000000000001: "5e-324",
		0x7fefffffffffffff: "1.7976931348623157e+308",
		0x3eb0c6f7a0b5ed8d: "0.000001",
		0x3eb0c6f7a0b5ed8c: "9.999999999999997e-7",
		0x3eb0c6f7a0b5ed8e: "0.0000010000000000000002",
		0x444b1ae4d6e2ef50: "1e+21",
		0x444b1ae4d6e2ef4f: "999999999999999900000",
		0x444b1ae4d6e2ef51: "1.0000000000000001e+21",
	}
	for bits, want := range cases {
		if got := ecma(t, math.Float64frombits(bits)); got != want {
			t.Fatalf("bits=%016x got=%q want=%q", bits, got, want)
		}
	}
}

func checkCyberphoneDifferential(t *testing.T, _ *harness) {
	const batch = 250
	xs := samples(20000)
	for start := 0; start < len(xs); start += batch {
		chunk := xs[start:min(start+batch, len(xs))]
		want := cyberphoneNumbers(t, chunk)
		if len(want) != len(chunk) {
			t.Fatalf("cyberphone returned %d numbers for %d inputs", len(want), len(chunk))
		}
		for i, x := range chunk {
			if got := ecma(t, x); got != want[i] {
				t.Fatalf("bits=%016x got=%q cyberphone=%q", math.Float64bits(x), got, want[i])
			}
		}
	}
}

func checkCyberphoneCLIDifferential(t *testing.T, h *harness) {
	xs := samples(400)
	var in strings.Builder
	for _, x := range xs {
		in.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		in.WriteByte('\n')
	}
	res := runCLI(t, h, []string{"show", "--style", "ecma", "-"}, []byte(in.String()))
	if res.exitCode != 0 {
		t.Fatalf("cli failed: %+v", res)
	}
	got := strings.Split(strings.TrimSuffix(res.stdout, "\n"), "\n")
	want := cyberphoneNumbers(t, xs)
	if len(got) != len(want) {
		t.Fatalf("line count got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("value %d bits=%016x got=%q cyberphone=%q", i, math.Float64bits(xs[i]), got[i], want[i])
		}
	}
}

func checkShowRoundTrip(t *testing.T, _ *harness) {
	for _, x := range samples(20000) {
		for _, s := range []string{numfmt.Show(x), numfmt.ShowJS(x), ecma(t, x)} {
			got, err := strconv.ParseFloat(s, 64)
			if err != nil {
				t.Fatalf("bits=%016x: %q does not parse: %v", math.Float64bits(x), s, err)
			}
			if got != x {
				t.Fatalf("bits=%016x: %q reads back as %v", math.Float64bits(x), s, got)
			}
		}
	}
}
