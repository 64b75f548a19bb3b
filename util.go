package quad

// DifferenceU128 subtracts the smaller of a and b from the larger.
func DifferenceU128(a, b U128) U128 {
	if a.LessThan(b) {
		return b.Sub(a)
	}
	return a.Sub(b)
}

func LargerU128(a, b U128) U128 {
	if a.LessThan(b) {
		return b
	}
	return a
}

func SmallerU128(a, b U128) U128 {
	if b.LessThan(a) {
		return b
	}
	return a
}

// lostOf returns whichever of the error budgets is worse.
func lostOf(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}

// clampLost converts a count of untrusted bits into the stored form.
func clampLost(n int) uint8 {
	if n < 0 {
		return 0
	} else if n > mantBits {
		return mantBits
	}
	return uint8(n)
}
