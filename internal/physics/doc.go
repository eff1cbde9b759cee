// Package physics provides the force laws driven by the integrators.
//
// Each model implements [dynamo.ForceModel]:
//
//   - [Spring]: one-dimensional linear restoring force
//   - [Orbit]: inverse-square attraction toward a fixed planet
//
// Both also implement [dynamo.Hamiltonian] so runs can track energy drift:
//
//	var f dynamo.ForceModel = physics.NewSpring(1, 1)
//	if h, ok := f.(dynamo.Hamiltonian); ok {
//	    e := h.Energy(x, v)
//	}
package physics
