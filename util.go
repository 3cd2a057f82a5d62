package symcode

import (
	mathbits "math/bits"
)

// bitWidth returns ceil(log2(n)), the number of bits needed to give each of n
// items a distinct index.  bitWidth(0) and bitWidth(1) are both 0.
func bitWidth(n int) byte {
	if n <= 1 {
		return 0
	}
	return byte(mathbits.Len64(uint64(n - 1)))
}
