package integrators

import (
	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/physics"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func springEnergy(s dynamo.Sample) float64 {
	x, v := s.Position.Norm(), s.Velocity.Norm()
	return v*v + x*x
}

var _ = Describe("Euler", func() {
	var (
		euler  *Euler
		spring *physics.Spring
	)

	BeforeEach(func() {
		euler = NewEuler()
		spring = physics.NewSpring(1, 1)
	})

	It("records the state before updating it", func() {
		grid, err := dynamo.NewTimeGrid(0.1, 100)
		Expect(err).NotTo(HaveOccurred())

		traj, err := euler.Integrate(spring, dynamo.Vector{0}, dynamo.Vector{1}, grid)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Len()).To(Equal(1000))

		Expect(traj.Position(0)).To(Equal(dynamo.Vector{0}))
		Expect(traj.Velocity(0)).To(Equal(dynamo.Vector{1}))

		Expect(traj.Position(1)[0]).To(BeNumerically("~", 0.1, 1e-15))
		Expect(traj.Velocity(1)[0]).To(BeNumerically("~", 1.0, 1e-15))

		Expect(traj.Position(2)[0]).To(BeNumerically("~", 0.2, 1e-15))
		Expect(traj.Velocity(2)[0]).To(BeNumerically("~", 0.99, 1e-15))
	})

	It("advances the orbit by dt times the initial velocity on the first step", func() {
		x0 := dynamo.Vector{3426000, 250, 250}
		v0 := dynamo.Vector{-3426, 0, 0}
		grid, err := dynamo.NewTimeGrid(0.5, 400)
		Expect(err).NotTo(HaveOccurred())

		traj, err := euler.Integrate(physics.NewMarsOrbit(), x0, v0, grid)
		Expect(err).NotTo(HaveOccurred())

		first := traj.At(0)
		Expect(first.Position.Equal(x0)).To(BeTrue())
		Expect(first.Velocity.Equal(v0)).To(BeTrue())
		Expect(first.Time).To(Equal(0.0))

		step := traj.Position(1).Sub(traj.Position(0))
		Expect(step.Equal(v0.Scale(0.5))).To(BeTrue())
	})

	It("gains energy every step on the oscillator", func() {
		grid := dynamo.TimeGrid{Dt: 0.1, N: 1000}
		traj, err := euler.Integrate(spring, dynamo.Vector{0}, dynamo.Vector{1}, grid)
		Expect(err).NotTo(HaveOccurred())

		for i := 1; i < traj.Len(); i++ {
			Expect(springEnergy(traj.At(i))).To(BeNumerically(">", springEnergy(traj.At(i-1))))
		}
		Expect(springEnergy(traj.At(traj.Len() - 1))).To(BeNumerically(">", 1000))
	})

	It("leaves the caller's vectors untouched", func() {
		x0, v0 := dynamo.Vector{1}, dynamo.Vector{0}
		_, err := euler.Integrate(spring, x0, v0, dynamo.TimeGrid{Dt: 0.1, N: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(x0).To(Equal(dynamo.Vector{1}))
		Expect(v0).To(Equal(dynamo.Vector{0}))
	})
})

var _ = Describe("Verlet", func() {
	var (
		verlet *Verlet
		spring *physics.Spring
	)

	BeforeEach(func() {
		verlet = NewVerlet()
		spring = physics.NewSpring(1, 1)
	})

	It("fails before bootstrapping on a single-step grid", func() {
		grid, err := dynamo.NewTimeGrid(1, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(grid.N).To(Equal(1))

		traj, err := verlet.Integrate(spring, dynamo.Vector{0}, dynamo.Vector{1}, grid)
		Expect(err).To(MatchError(dynamo.ErrInsufficientSteps))
		Expect(traj).To(BeNil())
	})

	It("returns only the bootstrap on a two-step grid", func() {
		grid := dynamo.TimeGrid{Dt: 0.1, N: 2}
		traj, err := verlet.Integrate(spring, dynamo.Vector{0}, dynamo.Vector{1}, grid)
		Expect(err).NotTo(HaveOccurred())

		bootstrap, err := NewEuler().Integrate(spring, dynamo.Vector{0}, dynamo.Vector{1}, grid)
		Expect(err).NotTo(HaveOccurred())

		Expect(traj.Len()).To(Equal(2))
		for i := 0; i < 2; i++ {
			Expect(traj.At(i)).To(Equal(bootstrap.At(i)))
		}
	})

	It("uses the two previous positions and a backward-difference velocity", func() {
		dt := 0.1
		traj, err := verlet.Integrate(spring, dynamo.Vector{0}, dynamo.Vector{1}, dynamo.TimeGrid{Dt: dt, N: 3})
		Expect(err).NotTo(HaveOccurred())

		x0, x1 := traj.Position(0)[0], traj.Position(1)[0]
		a1 := -x1
		x2 := 2*x1 - x0 + dt*dt*a1

		Expect(traj.Position(2)[0]).To(BeNumerically("~", x2, 1e-15))
		Expect(traj.Velocity(2)[0]).To(BeNumerically("~", (x2-x1)/dt, 1e-12))
	})

	It("keeps oscillator energy bounded", func() {
		grid := dynamo.TimeGrid{Dt: 0.1, N: 1000}
		traj, err := verlet.Integrate(spring, dynamo.Vector{0}, dynamo.Vector{1}, grid)
		Expect(err).NotTo(HaveOccurred())

		traj.Each(func(i int, s dynamo.Sample) {
			Expect(springEnergy(s)).To(BeNumerically("~", 1.0, 0.1), "sample %d", i)
		})
	})

	It("stays close to a circular orbit", func() {
		orbit := physics.NewMarsOrbit()
		r := 4e6
		x0 := dynamo.Vector{r, 0, 0}
		v0 := dynamo.Vector{0, orbit.CircularSpeed(r), 0}

		traj, err := verlet.Integrate(orbit, x0, v0, dynamo.TimeGrid{Dt: 1, N: 2000})
		Expect(err).NotTo(HaveOccurred())

		traj.Each(func(i int, s dynamo.Sample) {
			Expect(s.Position.Norm()).To(BeNumerically("~", r, r*0.01), "sample %d", i)
		})
	})
})

var _ = Describe("both schemes", func() {
	schemes := []dynamo.Integrator{NewEuler(), NewVerlet()}

	DescribeTable("produce ceil(t_max/dt) samples",
		func(dt, tMax float64, n int) {
			grid, err := dynamo.NewTimeGrid(dt, tMax)
			Expect(err).NotTo(HaveOccurred())

			for _, integ := range schemes {
				traj, err := integ.Integrate(physics.NewSpring(1, 1), dynamo.Vector{0}, dynamo.Vector{1}, grid)
				Expect(err).NotTo(HaveOccurred())
				Expect(traj.Len()).To(Equal(n), integ.Name())
				Expect(traj.Complete()).To(BeTrue())
			}
		},
		Entry("spring defaults", 0.1, 100.0, 1000),
		Entry("uneven division", 0.3, 1.0, 4),
		Entry("two steps", 0.5, 1.0, 2),
	)

	DescribeTable("hold position constant without force or velocity",
		func(f dynamo.ForceModel, x0 dynamo.Vector) {
			v0 := make(dynamo.Vector, len(x0))
			for _, integ := range schemes {
				traj, err := integ.Integrate(f, x0, v0, dynamo.TimeGrid{Dt: 0.5, N: 50})
				Expect(err).NotTo(HaveOccurred())
				traj.Each(func(i int, s dynamo.Sample) {
					Expect(s.Position.Equal(x0)).To(BeTrue(), "%s sample %d", integ.Name(), i)
				})
			}
		},
		Entry("spring with K=0", physics.NewSpring(1, 0), dynamo.Vector{2.5}),
		Entry("orbit with G=0", physics.NewOrbit(physics.MarsMass, 0), dynamo.Vector{3426000, 250, 250}),
	)

	It("rejects vectors that do not match the model", func() {
		for _, integ := range schemes {
			_, err := integ.Integrate(physics.NewMarsOrbit(), dynamo.Vector{1}, dynamo.Vector{0}, dynamo.TimeGrid{Dt: 1, N: 5})
			Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))
		}
	})

	It("rejects a non-positive step", func() {
		for _, integ := range schemes {
			_, err := integ.Integrate(physics.NewSpring(1, 1), dynamo.Vector{0}, dynamo.Vector{1}, dynamo.TimeGrid{Dt: 0, N: 5})
			Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))
		}
	})

	It("resolves schemes by name", func() {
		integ, err := ForScheme(dynamo.SchemeVerlet)
		Expect(err).NotTo(HaveOccurred())
		Expect(integ.Name()).To(Equal("verlet"))

		_, err = ForScheme("rk4")
		Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))
	})
})
