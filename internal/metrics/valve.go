package metrics

import (
	"github.com/san-kum/pipeflow/internal/dynamo"
	"github.com/san-kum/pipeflow/internal/models"
)

// ForValve returns the metrics recorded for piston-valve runs. States with
// any component beyond twice the supply pressure count as unstable.
func ForValve(c models.ValveConstants) []dynamo.Metric {
	return []dynamo.Metric{
		NewFinal("stroke", models.IdxPosition),
		NewPeak("peak_velocity", models.IdxVelocity),
		NewMeanAbs("mean_velocity", models.IdxVelocity),
		NewFinalDiff("pressure_diff", models.IdxP1, models.IdxP2),
		NewPeak("peak_p1", models.IdxP1),
		NewStability(2 * c.SupplyPressure),
	}
}
