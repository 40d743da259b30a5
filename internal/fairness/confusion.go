package fairness

// epsilon stabilizes every rate denominator so empty counts resolve to ~0
// instead of dividing by zero.
const epsilon = 1e-6

// Confusion holds the 2x2 confusion counts of actual vs predicted outcomes
// for one group, in fixed [negative, positive] label order.
type Confusion struct {
	TN int
	FP int
	FN int
	TP int
}

func (m Confusion) TPR() float64 {
	return float64(m.TP) / (float64(m.TP+m.FN) + epsilon)
}

func (m Confusion) FPR() float64 {
	return float64(m.FP) / (float64(m.FP+m.TN) + epsilon)
}

func (m Confusion) FNR() float64 {
	return float64(m.FN) / (float64(m.FN+m.TP) + epsilon)
}

func (m Confusion) FDR() float64 {
	return float64(m.FP) / (float64(m.FP+m.TP) + epsilon)
}

func (m Confusion) PPV() float64 {
	return float64(m.TP) / (float64(m.TP+m.FP) + epsilon)
}

func (m Confusion) Accuracy() float64 {
	return float64(m.TP+m.TN) / (float64(m.TP+m.TN+m.FP+m.FN) + epsilon)
}
