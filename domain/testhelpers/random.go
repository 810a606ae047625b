package testhelpers

// ScriptedRandom replays fixed values. Once a script runs out it repeats its
// last value, or zero when empty.
type ScriptedRandom struct {
	Floats []float64
	Ints   []int

	floatPos int
	intPos   int
}

// NewScriptedRandom creates a source returning the given floats in order
func NewScriptedRandom(floats ...float64) *ScriptedRandom {
	return &ScriptedRandom{Floats: floats}
}

// WithCode appends the IntN values that make GenerateCode return code
func (r *ScriptedRandom) WithCode(code string) *ScriptedRandom {
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c >= 'A' && c <= 'Z':
			r.Ints = append(r.Ints, int(c-'A'))
		case c >= '0' && c <= '9':
			r.Ints = append(r.Ints, int(c-'0'))
		}
	}
	return r
}

func (r *ScriptedRandom) Float64() float64 {
	if len(r.Floats) == 0 {
		return 0
	}
	if r.floatPos >= len(r.Floats) {
		return r.Floats[len(r.Floats)-1]
	}
	v := r.Floats[r.floatPos]
	r.floatPos++
	return v
}

func (r *ScriptedRandom) IntN(n int) int {
	if len(r.Ints) == 0 {
		return 0
	}
	var v int
	if r.intPos >= len(r.Ints) {
		v = r.Ints[len(r.Ints)-1]
	} else {
		v = r.Ints[r.intPos]
		r.intPos++
	}
	return v % n
}
