package dataset

// LabeledExample is one evaluated prediction: the true (golden) label and
// the classifier's predicted label
type LabeledExample struct {
	Actual    bool `json:"actual"`
	Predicted bool `json:"predicted"`
}

// SubgroupSample holds every labeled example observed for one subgroup value
type SubgroupSample struct {
	Group    string           `json:"group"`
	Examples []LabeledExample `json:"examples"`
}

// Len returns the number of examples in the sample
func (s SubgroupSample) Len() int {
	return len(s.Examples)
}

// Positives counts examples whose true label is positive
func (s SubgroupSample) Positives() int {
	n := 0
	for _, ex := range s.Examples {
		if ex.Actual {
			n++
		}
	}
	return n
}

// Negatives counts examples whose true label is negative
func (s SubgroupSample) Negatives() int {
	return len(s.Examples) - s.Positives()
}
