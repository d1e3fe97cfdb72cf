// Package pricing computes monthly rent from asset and tenant parameters.
//
// All factors are fixed-point integers at scale 10^18. Every multiplication
// is immediately followed by a division by the scale so intermediate values
// stay at a constant scale, and the factor order (usage, condition, user
// score, duration) is fixed: integer truncation happens at each step, so
// reordering the operations changes outputs. Arithmetic runs over
// math/big.Int so intermediate products cannot overflow.
package pricing

import (
	"math/big"

	"github.com/rentora/rentora/internal/models"
)

// scale is the fixed-point scale factor (10^18).
var scale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Surcharge and discount bounds, as scale fractions.
var (
	usageSurchargeMax     = fraction(30, 100) // up to +30% toward the cap
	overCapPenaltyMax     = fraction(20, 100) // up to +20% past the cap
	conditionSurchargeMax = fraction(20, 100) // up to +20% at full wear
	scoreDiscountMax      = fraction(15, 100) // up to -15% at top score
)

// Duration step discount factors.
var (
	durationFactor24 = fraction(85, 100)
	durationFactor12 = fraction(90, 100)
	durationFactor6  = fraction(95, 100)
)

// fraction returns scale * num / den.
func fraction(num, den int64) *big.Int {
	return new(big.Int).Div(new(big.Int).Mul(scale, big.NewInt(num)), big.NewInt(den))
}

// mulScale returns x * f / scale, the single fixed-point step.
func mulScale(x, f *big.Int) *big.Int {
	r := new(big.Int).Mul(x, f)

	return r.Div(r, scale)
}

// Monthly returns the monthly rent for an asset. base is the asset's value
// in the smallest currency unit and wear its 0-100 condition score;
// currentUsage/usageCap, userScore and durationMonths describe the tenancy.
// The function is pure and safe for concurrent use.
func Monthly(base int64, wear int, currentUsage, usageCap int64, userScore, durationMonths int) (int64, error) {
	if base <= 0 {
		return 0, models.Validationf("base value must be positive")
	}

	if currentUsage < 0 || usageCap < 0 {
		return 0, models.Validationf("usage values must be non-negative")
	}

	if userScore < 0 || userScore > models.MaxUserScore {
		return 0, models.Validationf("user score must be between 0 and %d", models.MaxUserScore)
	}

	if durationMonths <= 0 {
		return 0, models.Validationf("duration must be positive")
	}

	price := big.NewInt(base)
	price = mulScale(price, usageFactor(currentUsage, usageCap))
	price = mulScale(price, conditionFactor(wear))
	price = mulScale(price, scoreFactor(userScore))
	price = mulScale(price, durationFactor(durationMonths))
	price.Div(price, big.NewInt(12))

	return price.Int64(), nil
}

// usageFactor surcharges linearly up to +30% as usage approaches the cap,
// multiplied by an over-cap penalty of up to +20% linear in the overshoot.
// A zero cap means usage has no effect.
func usageFactor(currentUsage, usageCap int64) *big.Int {
	if usageCap == 0 {
		return new(big.Int).Set(scale)
	}

	toward := ratioCapped(currentUsage, usageCap)
	f := new(big.Int).Add(new(big.Int).Set(scale), mulScale(new(big.Int).Set(usageSurchargeMax), toward))

	if currentUsage > usageCap {
		over := ratioCapped(currentUsage-usageCap, usageCap)
		penalty := new(big.Int).Add(new(big.Int).Set(scale), mulScale(new(big.Int).Set(overCapPenaltyMax), over))
		f = mulScale(f, penalty)
	}

	return f
}

// ratioCapped returns min(num/den, 1) at fixed-point scale.
func ratioCapped(num, den int64) *big.Int {
	r := new(big.Int).Mul(big.NewInt(num), scale)
	r.Div(r, big.NewInt(den))

	if r.Cmp(scale) > 0 {
		r.Set(scale)
	}

	return r
}

// conditionFactor surcharges linearly up to +20% at a wear score of 100.
// Wear is clamped to [0, 100].
func conditionFactor(wear int) *big.Int {
	if wear < 0 {
		wear = 0
	}

	if wear > models.MaxCondition {
		wear = models.MaxCondition
	}

	surcharge := new(big.Int).Mul(conditionSurchargeMax, big.NewInt(int64(wear)))
	surcharge.Div(surcharge, big.NewInt(int64(models.MaxCondition)))

	return surcharge.Add(surcharge, scale)
}

// scoreFactor discounts linearly up to -15% at the top user score.
func scoreFactor(userScore int) *big.Int {
	discount := new(big.Int).Mul(scoreDiscountMax, big.NewInt(int64(userScore)))
	discount.Div(discount, big.NewInt(int64(models.MaxUserScore)))

	return new(big.Int).Sub(scale, discount)
}

// durationFactor applies the step discounts for longer commitments.
func durationFactor(durationMonths int) *big.Int {
	switch {
	case durationMonths >= 24:
		return durationFactor24
	case durationMonths >= 12:
		return durationFactor12
	case durationMonths >= 6:
		return durationFactor6
	default:
		return scale
	}
}
