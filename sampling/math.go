// Package sampling implements the data-availability-sampling math: the
// worst-case adversary model, miss-probability formulas, and the
// required-sample-count planner.
package sampling

import (
	"fmt"
	"math"

	"github.com/animica/da/daerrors"
)

// Model names the probability law a Plan's sample count was checked against.
type Model string

const (
	ModelBinomial       Model = "binomial"
	ModelHypergeometric Model = "hypergeometric"
)

// Plan is the outcome of planning samples against a worst-case withholding
// adversary that breaks StripesBroken stripes by withholding n-k+1 leaves
// from each.
type Plan struct {
	Samples int
	// Model names the law Samples was checked against: the binomial closed
	// form for the degenerate zero-risk early returns, the hypergeometric
	// exact form otherwise. In the hypergeometric case Samples equals the
	// binomial estimate, which always meets the hypergeometric target.
	Model         Model
	BadLeaves     int
	TotalLeaves   int
	BadFraction   float64
	StripesBroken int
	Note          string
}

// BadLeavesPerBrokenStripe is n - k + 1, the minimum leaves an adversary
// must withhold from one stripe to make it unrecoverable.
func BadLeavesPerBrokenStripe(k, n int) int {
	return n - k + 1
}

// MissProbabilityBinomial is the with-replacement closed form (1-f)^s.
func MissProbabilityBinomial(badFraction float64, samples int) float64 {
	return math.Pow(1-badFraction, float64(samples))
}

// MissProbabilityHypergeometric is the without-replacement exact form
// C(total-bad, s) / C(total, s), computed via the product form to avoid
// overflowing factorials for realistic leaf counts.
func MissProbabilityHypergeometric(totalLeaves, badLeaves, samples int) (float64, error) {
	if samples < 0 || samples > totalLeaves {
		return 0, fmt.Errorf("%w: samples %d out of range [0,%d]", daerrors.ErrValidation, samples, totalLeaves)
	}
	good := totalLeaves - badLeaves
	if samples > good {
		return 0, nil
	}
	// Product form: prod_{i=0}^{s-1} (good-i)/(total-i).
	p := 1.0
	for i := 0; i < samples; i++ {
		p *= float64(good-i) / float64(totalLeaves-i)
	}
	return p, nil
}

// PlanSamples computes a Plan for a matrix of the given shape under the
// worst-case adversary that breaks stripesBroken stripes (default 1),
// targeting miss probability at most pTarget.
func PlanSamples(k, n, stripes, stripesBroken int, pTarget float64) (Plan, error) {
	if k < 1 || n <= k {
		return Plan{}, fmt.Errorf("%w: invalid erasure shape k=%d n=%d", daerrors.ErrValidation, k, n)
	}
	if stripes < 0 {
		return Plan{}, fmt.Errorf("%w: negative stripe count %d", daerrors.ErrValidation, stripes)
	}
	if stripesBroken <= 0 {
		stripesBroken = 1
	}
	if pTarget <= 0 || pTarget >= 1 {
		return Plan{}, fmt.Errorf("%w: target miss probability %g must be in (0,1)", daerrors.ErrValidation, pTarget)
	}

	total := stripes * n
	if total == 0 {
		return Plan{Samples: 0, Model: ModelBinomial, TotalLeaves: 0, Note: "empty matrix"}, nil
	}
	if stripesBroken > stripes {
		stripesBroken = stripes
	}

	bad := stripesBroken * BadLeavesPerBrokenStripe(k, n)
	if bad > total {
		bad = total
	}

	if bad == 0 {
		return Plan{Samples: 0, Model: ModelBinomial, TotalLeaves: total, Note: "no withheld leaves under this adversary model"}, nil
	}

	f := float64(bad) / float64(total)

	// With-replacement closed form gives the initial estimate.
	samples := int(math.Ceil(math.Log(pTarget) / math.Log(1-f)))
	if samples < 0 {
		samples = 0
	}

	// Check against the exact hypergeometric law, raising the count until
	// it meets pTarget. That law is always <= the binomial law for the same
	// sample count, so the binomial estimate already meets the target and
	// is returned unchanged; when it is >= total the check does not run.
	for samples < total {
		miss, err := MissProbabilityHypergeometric(total, bad, samples)
		if err != nil {
			return Plan{}, err
		}
		if miss <= pTarget {
			break
		}
		samples++
	}

	return Plan{
		Samples:       samples,
		Model:         ModelHypergeometric,
		BadLeaves:     bad,
		TotalLeaves:   total,
		BadFraction:   f,
		StripesBroken: stripesBroken,
	}, nil
}
