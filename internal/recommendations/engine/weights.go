package engine

// Weights holds every contribution and distance band used by Score.
type Weights struct {
	SteelExact   int
	SteelPartial int

	InputInRange int
	InputNear    int

	OutputInRange int
	OutputNear    int
	OutputFar     int

	// NearBand and FarBand are inclusive distances to the nearer range bound.
	NearBand float64
	FarBand  float64

	MaxScore int
}

// DefaultWeights is the fixed scoring table.
var DefaultWeights = Weights{
	SteelExact:    40,
	SteelPartial:  20,
	InputInRange:  25,
	InputNear:     15,
	OutputInRange: 35,
	OutputNear:    20,
	OutputFar:     10,
	NearBand:      5,
	FarBand:       10,
	MaxScore:      100,
}

// MaxResults caps the ranked shortlist.
const MaxResults = 5
