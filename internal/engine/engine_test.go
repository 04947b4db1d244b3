package engine

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/vector"
)

func movable(m float64) *body.Body   { return body.New(body.Mass(m), true) }
func immovable(m float64) *body.Body { return body.New(body.Mass(m), false) }

var _ = Describe("Engine", func() {
	var e *Engine

	BeforeEach(func() {
		e = New()
	})

	Describe("configuration", func() {
		It("starts with defaults", func() {
			Expect(e.G()).To(Equal(DefaultG))
			Expect(e.TickLength()).To(Equal(DefaultTickLength))
			Expect(e.Tick()).To(BeZero())
			enabled, elastic := e.Collisions()
			Expect(enabled).To(BeFalse())
			Expect(elastic).To(BeFalse())
		})

		DescribeTable("clamps g",
			func(in, want float64) {
				Expect(e.SetG(in)).To(Equal(want))
				Expect(e.G()).To(Equal(want))
			},
			Entry("in range", 3.5, 3.5),
			Entry("below minimum", 0.0, MinG),
			Entry("negative", -10.0, MinG),
			Entry("above maximum", 1e9, MaxG),
		)

		It("clamps restitution", func() {
			Expect(e.SetRestitution(1.5)).To(Equal(1.0))
			Expect(e.SetRestitution(-1)).To(Equal(0.0))
			Expect(e.SetRestitution(0.3)).To(Equal(0.3))
		})

		It("applies options", func() {
			e = New(WithG(2), WithTickLength(time.Millisecond), WithCollisions(true, true), WithRestitution(0.5))
			Expect(e.G()).To(Equal(2.0))
			Expect(e.TickLength()).To(Equal(time.Millisecond))
			enabled, elastic := e.Collisions()
			Expect(enabled).To(BeTrue())
			Expect(elastic).To(BeTrue())
			Expect(e.Snapshot().Restitution).To(Equal(0.5))
		})
	})

	Describe("AddObject", func() {
		It("returns the entry count and assigns stable ids", func() {
			Expect(e.AddObject(movable(1), vector.New(0, 0), vector.Zero)).To(Equal(1))
			Expect(e.AddObject(movable(1), vector.New(10, 0), vector.Zero)).To(Equal(2))

			snap := e.Snapshot()
			Expect(snap.Objects[0].ID).NotTo(Equal(snap.Objects[1].ID))
		})

		It("forces immovable bodies to rest", func() {
			e.AddObject(immovable(100), vector.New(1, 1), vector.New(5, 5))
			Expect(e.Snapshot().Objects[0].Velocity).To(Equal(vector.Zero))
		})
	})

	Describe("AdvanceTick", func() {
		It("is a safe no-op on an empty engine", func() {
			e.AdvanceTick()
			Expect(e.Tick()).To(Equal(uint64(1)))
			Expect(e.Len()).To(BeZero())
		})

		It("keeps immovable bodies at rest", func() {
			e.AddObject(immovable(1000), vector.New(0, 0), vector.Zero)
			e.AddObject(movable(1e6), vector.New(30, 0), vector.Zero)

			for i := 0; i < 50; i++ {
				e.AdvanceTick()
				anchor := e.Snapshot().Objects[0]
				Expect(anchor.Position).To(Equal(vector.Zero))
				Expect(anchor.Velocity).To(Equal(vector.Zero))
				Expect(anchor.Acceleration).To(Equal(vector.Zero))
			}
		})

		It("produces equal and opposite pair forces", func() {
			e.AddObject(movable(3), vector.New(-2, 1), vector.Zero)
			e.AddObject(movable(70), vector.New(5, -3.5), vector.Zero)
			objs := e.Objects()

			fab := e.PairForce(&objs[0], &objs[1])
			fba := e.PairForce(&objs[1], &objs[0])
			Expect(fab.IsZero()).To(BeFalse())
			Expect(fba).To(Equal(fab.Neg()))

			forces := e.accumulateForces()
			Expect(forces[1]).To(Equal(forces[0].Neg()))
		})

		It("points the force from a towards b", func() {
			e.AddObject(movable(10), vector.New(0, 0), vector.Zero)
			e.AddObject(movable(10), vector.New(10, 0), vector.Zero)
			objs := e.Objects()

			f := e.PairForce(&objs[0], &objs[1])
			Expect(f.X).To(BeNumerically("~", 1.0, 1e-12))
			Expect(f.Y).To(BeZero())
		})

		DescribeTable("skips pairs below the gravity floor",
			func(separation float64) {
				e.AddObject(movable(1e6), vector.New(0, 0), vector.Zero)
				e.AddObject(movable(1e6), vector.New(separation, 0), vector.Zero)
				e.AdvanceTick()

				for _, o := range e.Snapshot().Objects {
					Expect(o.Acceleration).To(Equal(vector.Zero))
					Expect(o.Velocity).To(Equal(vector.Zero))
				}
			},
			Entry("coincident", 0.0),
			Entry("below the floor", DefaultGravityLowerBounds/2),
		)

		It("integrates velocity before position", func() {
			e = New(WithG(MinG))
			e.AddObject(movable(1), vector.New(0, 0), vector.New(2, 0))
			e.AdvanceTick()

			o := e.Snapshot().Objects[0]
			Expect(o.Position.X).To(BeNumerically("~", 2*DefaultTickLength.Seconds(), 1e-12))
		})

		It("keeps a circular orbit speed constant over one tick", func() {
			e = New(WithG(1e-4))
			mA := 1e10
			vCirc := math.Sqrt(e.G() * mA / 100)

			e.AddObject(immovable(mA), vector.New(0, 0), vector.Zero)
			e.AddObject(movable(1), vector.New(100, 0), vector.New(0, vCirc))
			e.AdvanceTick()

			snap := e.Snapshot()
			Expect(snap.Objects[0].Position).To(Equal(vector.Zero))
			Expect(snap.Objects[1].Velocity.Magnitude()).To(BeNumerically("~", vCirc, vCirc*1e-3))
		})
	})

	Describe("Reset", func() {
		It("is idempotent", func() {
			e.SetG(5)
			e.SetCollisions(true, false)
			e.AddObject(movable(1), vector.Zero, vector.Zero)
			e.AdvanceTick()

			e.Reset()
			first := e.Snapshot()
			e.Reset()
			second := e.Snapshot()

			Expect(first.Objects).To(BeEmpty())
			Expect(first.Tick).To(BeZero())
			Expect(second).To(Equal(first))
			Expect(second.G).To(Equal(5.0))
			Expect(second.CollisionDetection).To(BeTrue())
		})
	})

	Describe("merging", func() {
		DescribeTable("conserves momentum and mass",
			func(m1, m2 float64, v1, v2 vector.Vector2D) {
				e.AddObject(movable(m1), vector.New(0, 0), v1)
				e.AddObject(movable(m2), vector.New(0.1, 0), v2)
				e.merge(0, 1)

				var survivor ObjectState
				if m2 > m1 {
					survivor = e.objects[1]
				} else {
					survivor = e.objects[0]
				}
				want := v1.Scale(m1).Add(v2.Scale(m2)).Scale(1 / (m1 + m2))
				Expect(survivor.Body.Mass()).To(BeNumerically("~", m1+m2, 1e-9))
				Expect(survivor.Velocity.X).To(BeNumerically("~", want.X, 1e-9))
				Expect(survivor.Velocity.Y).To(BeNumerically("~", want.Y, 1e-9))
			},
			Entry("equal masses", 10.0, 10.0, vector.New(1, 0), vector.New(-1, 0)),
			Entry("heavier second", 2.0, 50.0, vector.New(3, 4), vector.New(0, -1)),
			Entry("heavier first", 1e4, 7.0, vector.New(0, 0), vector.New(100, 100)),
		)

		It("recomputes radius and color from the merged mass", func() {
			e.AddObject(body.New(body.FullProperties(10, 9, "#00ff00"), true), vector.Zero, vector.Zero)
			e.AddObject(movable(5), vector.New(0.5, 0), vector.Zero)
			e.merge(0, 1)

			b := e.objects[0].Body
			Expect(b.Radius()).To(Equal(body.RadiusForMass(15)))
			Expect(b.Color()).To(Equal(body.ColorForMass(15)))
		})

		It("absorbs two touching bodies into one", func() {
			e.SetCollisions(true, false)
			e.AddObject(movable(10), vector.New(0, 0), vector.New(0, 0))
			e.AddObject(movable(10), vector.New(0.5, 0), vector.New(-1, 0))
			e.AdvanceTick()

			snap := e.Snapshot()
			Expect(snap.Objects).To(HaveLen(1))
			Expect(snap.Merges).To(Equal(uint64(1)))
			Expect(snap.Objects[0].Mass).To(BeNumerically("~", 20, 1e-12))
			Expect(snap.Objects[0].Velocity.X).To(BeNumerically("~", -0.5, 1e-9))
			Expect(snap.Objects[0].Velocity.Y).To(BeNumerically("~", 0, 1e-12))
		})

		It("makes the survivor immovable if either body was", func() {
			e.SetCollisions(true, false)
			e.AddObject(movable(100), vector.New(0, 0), vector.New(3, 0))
			e.AddObject(immovable(5), vector.New(0.2, 0), vector.Zero)
			e.AdvanceTick()

			snap := e.Snapshot()
			Expect(snap.Objects).To(HaveLen(1))
			Expect(snap.Objects[0].Movable).To(BeFalse())
			Expect(snap.Objects[0].Velocity).To(Equal(vector.Zero))
			Expect(snap.Objects[0].Acceleration).To(Equal(vector.Zero))
		})

		It("resolves a chain of overlaps in one pass", func() {
			e = New(WithG(MinG), WithCollisions(true, false))
			e.AddObject(movable(5), vector.New(0, 0), vector.New(1, 0))
			e.AddObject(movable(10), vector.New(0.1, 0), vector.New(0, 1))
			e.AddObject(movable(20), vector.New(0.2, 0), vector.Zero)
			e.AddObject(movable(1), vector.New(500, 0), vector.Zero)
			e.AdvanceTick()

			snap := e.Snapshot()
			Expect(snap.Objects).To(HaveLen(2))
			Expect(snap.Merges).To(Equal(uint64(2)))
			merged := snap.Objects[0]
			Expect(merged.Mass).To(BeNumerically("~", 35, 1e-9))
			Expect(merged.Velocity.X).To(BeNumerically("~", 5.0/35, 1e-6))
			Expect(merged.Velocity.Y).To(BeNumerically("~", 10.0/35, 1e-6))
			Expect(snap.Objects[1].Mass).To(Equal(1.0))
		})

		It("leaves surface contact unresolved without elastic collisions", func() {
			e = New(WithG(MinG), WithCollisions(true, false))
			e.AddObject(movable(1), vector.New(0, 0), vector.Zero)
			e.AddObject(movable(1), vector.New(1.5, 0), vector.Zero)
			e.AdvanceTick()

			Expect(e.Len()).To(Equal(2))
			Expect(e.Snapshot().Bounces).To(BeZero())
		})
	})

	Describe("elastic collisions", func() {
		BeforeEach(func() {
			e = New(WithG(MinG), WithCollisions(true, true))
		})

		It("bounces a movable body off an immovable one", func() {
			e.AddObject(movable(1), vector.New(-3.5, 0), vector.New(5, 0))
			e.AddObject(immovable(100), vector.New(0, 0), vector.Zero)
			e.AdvanceTick()

			snap := e.Snapshot()
			Expect(snap.Bounces).To(Equal(uint64(1)))
			Expect(snap.Objects[0].Velocity.X).To(BeNumerically("~", -5, 1e-6))
			Expect(snap.Objects[0].Velocity.Y).To(BeNumerically("~", 0, 1e-12))
			Expect(snap.Objects[1].Velocity).To(Equal(vector.Zero))
		})

		It("bounces off an immovable body listed first", func() {
			e.AddObject(immovable(100), vector.New(0, 0), vector.Zero)
			e.AddObject(movable(1), vector.New(3.5, 0), vector.New(-5, 0))
			e.AdvanceTick()

			snap := e.Snapshot()
			Expect(snap.Objects[1].Velocity.X).To(BeNumerically("~", 5, 1e-6))
			Expect(snap.Objects[0].Velocity).To(Equal(vector.Zero))
		})

		It("exchanges velocities of equal masses head-on", func() {
			e.AddObject(movable(1), vector.New(0, 0), vector.New(1, 0))
			e.AddObject(movable(1), vector.New(1.9, 0), vector.New(-1, 0))
			e.AdvanceTick()

			snap := e.Snapshot()
			Expect(snap.Objects[0].Velocity.X).To(BeNumerically("~", -1, 1e-6))
			Expect(snap.Objects[1].Velocity.X).To(BeNumerically("~", 1, 1e-6))
		})

		It("ignores separating bodies", func() {
			e.AddObject(movable(1), vector.New(0, 0), vector.New(-1, 0))
			e.AddObject(movable(1), vector.New(1.9, 0), vector.New(1, 0))
			e.AdvanceTick()

			snap := e.Snapshot()
			Expect(snap.Bounces).To(BeZero())
			Expect(snap.Objects[0].Velocity.X).To(BeNumerically("~", -1, 1e-6))
		})

		It("scales the rebound by restitution", func() {
			e.SetRestitution(0.5)
			e.AddObject(movable(1), vector.New(-3.5, 0), vector.New(4, 0))
			e.AddObject(immovable(100), vector.New(0, 0), vector.Zero)
			e.AdvanceTick()

			Expect(e.Snapshot().Objects[0].Velocity.X).To(BeNumerically("~", -2, 1e-6))
		})

		It("does nothing for coincident centers", func() {
			a := ObjectState{Body: movable(1), Velocity: vector.New(1, 0)}
			b := ObjectState{Body: movable(1)}
			Expect(e.bounce(&a, &b)).To(BeFalse())
			Expect(a.Velocity).To(Equal(vector.New(1, 0)))
		})
	})

	Describe("Snapshot", func() {
		It("is a deep copy", func() {
			e.AddObject(movable(10), vector.New(1, 2), vector.New(3, 4))
			snap := e.Snapshot()
			snap.Objects[0].Position = vector.New(99, 99)

			Expect(e.Snapshot().Objects[0].Position).To(Equal(vector.New(1, 2)))
		})

		It("reports simulated time", func() {
			e.AdvanceTick()
			e.AdvanceTick()
			Expect(e.Snapshot().Time()).To(Equal(2 * DefaultTickLength))
		})
	})
})
