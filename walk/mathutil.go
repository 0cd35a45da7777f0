package walk

import "math"

const pi = math.Pi

func sinf(x float32) float32 { return float32(math.Sin(float64(x))) }
func cosf(x float32) float32 { return float32(math.Cos(float64(x))) }

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
