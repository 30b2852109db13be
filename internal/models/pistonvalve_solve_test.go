package models_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pipeflow/internal/dynamo"
	"github.com/san-kum/pipeflow/internal/integrators"
	"github.com/san-kum/pipeflow/internal/models"
)

var _ = Describe("PistonValve integration", func() {
	var (
		valve *models.PistonValve
		cfg   dynamo.Config
		tEval []float64
	)

	solve := func(integ dynamo.Integrator) *dynamo.Result {
		res, err := dynamo.New(valve, integ).Solve(context.Background(), valve.InitialState(), tEval, cfg, false)
		Expect(err).NotTo(HaveOccurred())
		return res
	}

	BeforeEach(func() {
		valve = models.NewPistonValve(models.StandardConstants())
		cfg = dynamo.DefaultConfig()
		tEval = dynamo.Linspace(0, 0.02, 200)
	})

	It("returns one sample per evaluation time", func() {
		res := solve(integrators.NewRK45())

		Expect(res.Times).To(HaveLen(200))
		Expect(res.States).To(HaveLen(200))
		Expect(res.Times).To(Equal(tEval))
		Expect(res.States[0]).To(Equal(valve.InitialState()))
	})

	It("is deterministic for fixed constants and initial state", func() {
		a := solve(integrators.NewRK45())
		b := solve(integrators.NewRK45())

		Expect(a.States).To(Equal(b.States))
		Expect(a.StepsTaken).To(Equal(b.StepsTaken))
	})

	It("matches a fine fixed-step reference at t=0.02", func() {
		final := solve(integrators.NewRK45()).States[199]

		Expect(final[models.IdxPosition]).To(BeNumerically("~", 0.011376, 1e-4))
		Expect(final[models.IdxVelocity]).To(BeNumerically("~", 0.66475, 1e-3))
		Expect(final[models.IdxP1]).To(BeNumerically("~", 7.0611e6, 1e4))
		Expect(final[models.IdxP2]).To(BeNumerically("~", 7.0389e6, 1e4))
	})

	It("keeps chamber pressures between ambient and supply", func() {
		c := valve.C
		for _, s := range solve(integrators.NewRK45()).States {
			Expect(s[models.IdxP1]).To(BeNumerically(">=", c.AmbientPressure-1))
			Expect(s[models.IdxP1]).To(BeNumerically("<=", c.SupplyPressure))
			Expect(s[models.IdxP2]).To(BeNumerically(">=", c.AmbientPressure-1))
			Expect(s[models.IdxP2]).To(BeNumerically("<=", c.SupplyPressure))
		}
	})

	It("approaches the balanced-flow state p1 + p2 = ps + pa", func() {
		final := solve(integrators.NewRK45()).States[199]
		sum := final[models.IdxP1] + final[models.IdxP2]

		Expect(sum).To(BeNumerically("~", valve.C.SupplyPressure+valve.C.AmbientPressure, 5e4))
	})

	It("agrees with fixed-step RK4", func() {
		adaptive := solve(integrators.NewRK45()).States[199]

		cfg.Adaptive = false
		cfg.Dt = 1e-6
		fixed := solve(integrators.NewRK4()).States[199]

		for i := range adaptive {
			Expect(fixed[i]).To(BeNumerically("~", adaptive[i], 1e-4*(1+abs(adaptive[i]))))
		}
	})
})

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
