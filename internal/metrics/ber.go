package metrics

import (
	"math/rand"

	"github.com/fairbench/berq/internal/dataset"
	"github.com/fairbench/berq/internal/errors"
)

// EstimateBER computes the Balanced Error Rate for one subgroup sample.
//
// The sample is partitioned by true label, both classes are balanced to the
// minority class size m by uniform sampling without replacement, and
// BER = (FNR + FPR) / 2 is computed over the balanced sets. A class that is
// already at size m is used whole, so the rng is never consulted for it;
// with |P| = |N| the result is identical across seeds. The rng must be
// non-nil whenever the classes are unbalanced.
//
// The input is not mutated.
func EstimateBER(sample dataset.SubgroupSample, rng *rand.Rand) (*BERResult, error) {
	if err := ValidateSample(sample); err != nil {
		return nil, err
	}

	var positives, negatives []dataset.LabeledExample
	for _, ex := range sample.Examples {
		if ex.Actual {
			positives = append(positives, ex)
		} else {
			negatives = append(negatives, ex)
		}
	}

	m := len(positives)
	if len(negatives) < m {
		m = len(negatives)
	}

	falseNegatives := countMispredictions(positives, m, rng)
	falsePositives := countMispredictions(negatives, m, rng)

	fnr := float64(falseNegatives) / float64(m)
	fpr := float64(falsePositives) / float64(m)

	return &BERResult{
		Group:     sample.Group,
		BER:       (fnr + fpr) / 2,
		FNR:       fnr,
		FPR:       fpr,
		NPositive: m,
		NNegative: m,
	}, nil
}

// ValidateSample checks that a subgroup sample can support a balanced
// estimate: non-empty with at least one example of each true-label class
func ValidateSample(sample dataset.SubgroupSample) error {
	if sample.Len() == 0 {
		return errors.DataInsufficientf("subgroup %q has no examples", sample.Group)
	}
	pos := sample.Positives()
	if pos == 0 {
		return errors.DataInsufficientf(
			"subgroup %q has no positive true labels (BER undefined)", sample.Group)
	}
	if pos == sample.Len() {
		return errors.DataInsufficientf(
			"subgroup %q has no negative true labels (BER undefined)", sample.Group)
	}
	return nil
}

// countMispredictions draws m examples from class without replacement and
// counts how many were predicted as the opposite class. When the class is
// already at size m no draw happens and the count is exact.
func countMispredictions(class []dataset.LabeledExample, m int, rng *rand.Rand) int {
	wrong := 0
	if len(class) == m {
		for _, ex := range class {
			if ex.Predicted != ex.Actual {
				wrong++
			}
		}
		return wrong
	}

	for _, idx := range rng.Perm(len(class))[:m] {
		if class[idx].Predicted != class[idx].Actual {
			wrong++
		}
	}
	return wrong
}
