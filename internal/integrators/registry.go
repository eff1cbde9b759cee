package integrators

import "github.com/san-kum/trajsim/internal/dynamo"

// ForScheme returns a fresh integrator for the scheme.
func ForScheme(s dynamo.Scheme) (dynamo.Integrator, error) {
	switch s {
	case dynamo.SchemeEuler:
		return NewEuler(), nil
	case dynamo.SchemeVerlet:
		return NewVerlet(), nil
	}
	_, err := dynamo.ParseScheme(string(s))
	return nil, err
}
