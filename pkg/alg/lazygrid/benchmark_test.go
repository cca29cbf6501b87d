package lazygrid

import (
	"math/rand"
	"testing"

	"github.com/Sumatoshi-tech/gridrange/pkg/alg/hyperrect"
)

// Benchmark constants.
const (
	benchSide1D = 1 << 16
	benchSide2D = 256
	benchOps    = 1024
)

func benchTree1D(b *testing.B) *Tree {
	b.Helper()

	values := make([]int64, benchSide1D)
	for i := range values {
		values[i] = int64(i)
	}

	tree, err := New(values, []int{benchSide1D})
	if err != nil {
		b.Fatal(err)
	}

	return tree
}

func benchTree2D(b *testing.B) *Tree {
	b.Helper()

	values := make([]int64, benchSide2D*benchSide2D)
	for i := range values {
		values[i] = int64(i % 7)
	}

	tree, err := New(values, []int{benchSide2D, benchSide2D})
	if err != nil {
		b.Fatal(err)
	}

	return tree
}

// BenchmarkBuild1D benchmarks construction of a 65536-cell line.
func BenchmarkBuild1D(b *testing.B) {
	values := make([]int64, benchSide1D)

	b.ResetTimer()

	for range b.N {
		if _, err := New(values, []int{benchSide1D}); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkAddRange1D benchmarks random range adds on a line.
func BenchmarkAddRange1D(b *testing.B) {
	tree := benchTree1D(b)
	rng := rand.New(rand.NewSource(0))

	boxes := make([]hyperrect.Rect, benchOps)
	for i := range boxes {
		boxes[i] = randomRect(rng, []int{benchSide1D})
	}

	b.ResetTimer()

	for i := range b.N {
		if err := tree.AddRange(boxes[i%benchOps], 1); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkQueryRange2D benchmarks random range sums on a 256x256 grid
// interleaved with assigns so that pushes stay exercised.
func BenchmarkQueryRange2D(b *testing.B) {
	tree := benchTree2D(b)
	rng := rand.New(rand.NewSource(0))

	boxes := make([]hyperrect.Rect, benchOps)
	for i := range boxes {
		boxes[i] = randomRect(rng, []int{benchSide2D, benchSide2D})
	}

	b.ResetTimer()

	for i := range b.N {
		box := boxes[i%benchOps]

		if i%8 == 0 {
			if err := tree.AssignRange(box, int64(i)); err != nil {
				b.Fatal(err)
			}

			continue
		}

		if _, err := tree.QueryRange(box); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkGet2D benchmarks point reads on a 256x256 grid.
func BenchmarkGet2D(b *testing.B) {
	tree := benchTree2D(b)

	b.ResetTimer()

	for i := range b.N {
		coords := []int{i % benchSide2D, (i * 31) % benchSide2D}

		if _, err := tree.Get(coords); err != nil {
			b.Fatal(err)
		}
	}
}
