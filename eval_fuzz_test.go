package keycalc_test

import (
	"testing"

	"github.com/zephyrtronium/keycalc"
)

func FuzzEvaluate(f *testing.F) {
	f.Add("2+3*4")
	f.Add("2^3^2")
	f.Add("10/4")
	f.Add("-7%3")
	f.Add("__import__('os')")
	f.Add("(1, 2)")
	f.Add("2**0.5")
	f.Fuzz(func(t *testing.T, s string) {
		r, err := keycalc.Evaluate(s)
		if err != nil {
			if keycalc.KindOf(err) == keycalc.KindNone {
				t.Errorf("%q gave error with no kind: %#v", s, err)
			}
			if _, ok := err.(keycalc.InputError); !ok {
				t.Errorf("%q gave %#v, not an InputError", s, err)
			}
			return
		}
		if !r.Equal(r.Normalize()) {
			t.Errorf("%q gave unnormalized result %v", s, r)
		}
	})
}
