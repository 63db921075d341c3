package randengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/utils/randengine"
)

func TestDeterminism(t *testing.T) {
	a := randengine.New(42)
	b := randengine.New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestUniformRange(t *testing.T) {
	e := randengine.New(1)
	for i := 0; i < 1000; i++ {
		v := e.UniformRange(1.5, 3.0)
		assert.GreaterOrEqual(t, v, 1.5)
		assert.Less(t, v, 3.0)
	}
}

func TestDiscreteDistribution(t *testing.T) {
	e := randengine.New(7)
	weight := []float64{0.7, 0.2, 0.1}
	counts := make([]int, len(weight))
	const n = 10000
	for i := 0; i < n; i++ {
		idx := e.DiscreteDistribution(weight)
		assert.GreaterOrEqual(t, idx, int32(0))
		assert.Less(t, idx, int32(len(weight)))
		counts[idx]++
	}
	// 大样本下频率应接近权重
	assert.InDelta(t, 0.7, float64(counts[0])/n, 0.05)
	assert.InDelta(t, 0.2, float64(counts[1])/n, 0.05)
	assert.InDelta(t, 0.1, float64(counts[2])/n, 0.05)
}

func TestPTrue(t *testing.T) {
	e := randengine.New(3)
	assert.False(t, e.PTrue(0))
	hit := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if e.PTrue(0.3) {
			hit++
		}
	}
	assert.InDelta(t, 0.3, float64(hit)/n, 0.05)
}
