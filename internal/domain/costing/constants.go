package costing

// Weights of the logistics cost model
const (
	CostPerSecond            = 0.1
	CostPerMj                = 0.1
	CostPerIngredientPerSize = 0.1
	CostPerProductPerSize    = 0.2
	CostPerItem              = 0.02
	CostPerFluid             = 0.0005
	CostPerPollution         = 0.01

	CostLowerLimit              = -10.0
	CostLimitWhenGeneratesOnMap = 1e4

	MiningPenalty                  = 1.0
	MiningMaxDensityForPenalty     = 2000.0
	MiningMaxExtraPenaltyForRarity = 10.0
)
