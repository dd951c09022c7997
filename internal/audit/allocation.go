package audit

import "math"

// Allocation holds the price roles inferred from an untagged token sequence.
// A nil field means no token could be assigned to that role.
type Allocation struct {
	ListPrice       *float64
	DiscountPercent *float64
	UnitPrice       *float64
	Amount          *float64
}

// Empty reports whether no role received a token.
func (a Allocation) Empty() bool {
	return a.ListPrice == nil && a.DiscountPercent == nil && a.UnitPrice == nil && a.Amount == nil
}

// AllocatePrices infers which raw token is the list price, discount, unit
// price and extended amount when the extractor did not tag them. tokens must
// already be cleaned with zeros discarded (see CleanTokens) and keep reading
// order. Each token is assigned at most once; ties break on first occurrence,
// so the result is deterministic and idempotent.
//
// By token count:
//
//	0 or 1: nothing assigned.
//	2: unit price = smaller token, amount = larger.
//	3: amount = largest; unit price = remaining token closest to
//	   amount/quantity (the larger one when quantity is unusable); the
//	   leftover becomes the discount when below both the unit price and
//	   cfg.DiscountMax, otherwise the list price.
//	4+: amount = largest; unit price as above; discount = smallest
//	   remaining; list price = first remaining.
func AllocatePrices(tokens []float64, quantity float64, cfg Config) Allocation {
	var alloc Allocation
	if len(tokens) < 2 {
		return alloc
	}

	used := make([]bool, len(tokens))

	switch {
	case len(tokens) >= 4:
		alloc.Amount = claim(tokens, used, argMax(tokens, used))
		alloc.UnitPrice = claim(tokens, used, pickUnitIndex(tokens, used, *alloc.Amount, quantity))
		alloc.DiscountPercent = claim(tokens, used, argMin(tokens, used))
		alloc.ListPrice = claim(tokens, used, firstFree(used))

	case len(tokens) == 3:
		alloc.Amount = claim(tokens, used, argMax(tokens, used))
		alloc.UnitPrice = claim(tokens, used, pickUnitIndex(tokens, used, *alloc.Amount, quantity))
		leftover := claim(tokens, used, firstFree(used))
		if *leftover < *alloc.UnitPrice && *leftover < cfg.DiscountMax {
			alloc.DiscountPercent = leftover
		} else {
			alloc.ListPrice = leftover
		}

	case len(tokens) == 2:
		alloc.UnitPrice = claim(tokens, used, argMin(tokens, used))
		alloc.Amount = claim(tokens, used, argMax(tokens, used))
	}

	return alloc
}

// pickUnitIndex selects the unassigned token closest to amount/quantity, or
// the largest unassigned token when quantity is zero or negative.
func pickUnitIndex(tokens []float64, used []bool, amount, quantity float64) int {
	if quantity <= 0 {
		return argMax(tokens, used)
	}
	target := amount / quantity
	best := -1
	for i, p := range tokens {
		if used[i] {
			continue
		}
		if best == -1 || math.Abs(p-target) < math.Abs(tokens[best]-target) {
			best = i
		}
	}
	return best
}

func argMax(tokens []float64, used []bool) int {
	best := -1
	for i, p := range tokens {
		if used[i] {
			continue
		}
		if best == -1 || p > tokens[best] {
			best = i
		}
	}
	return best
}

func argMin(tokens []float64, used []bool) int {
	best := -1
	for i, p := range tokens {
		if used[i] {
			continue
		}
		if best == -1 || p < tokens[best] {
			best = i
		}
	}
	return best
}

func firstFree(used []bool) int {
	for i, u := range used {
		if !u {
			return i
		}
	}
	return -1
}

// claim marks the token at idx as used and returns a copy of its value.
func claim(tokens []float64, used []bool, idx int) *float64 {
	if idx < 0 {
		return nil
	}
	used[idx] = true
	v := tokens[idx]
	return &v
}
