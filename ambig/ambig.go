// Package ambig implements matching over the IUPAC nucleotide alphabet.
// Each symbol is encoded as a 4-bit mask (A=1, C=2, G=4, T=8) and two
// symbols match when their masks intersect. Bytes outside the alphabet
// carry an empty mask and never match anything.
package ambig

const (
	maskA = 1
	maskC = 2
	maskG = 4
	maskT = 8
)

var mask [256]byte

func add(c byte, bits byte) {
	mask[c] = bits
	mask[c|32] = bits // lowercase
}

func init() {
	add('A', maskA)
	add('C', maskC)
	add('G', maskG)
	add('T', maskT)
	add('U', maskT)

	add('R', maskA|maskG)
	add('Y', maskC|maskT)
	add('S', maskC|maskG)
	add('W', maskA|maskT)
	add('K', maskG|maskT)
	add('M', maskA|maskC)
	add('B', maskC|maskG|maskT)
	add('D', maskA|maskG|maskT)
	add('H', maskA|maskC|maskT)
	add('V', maskA|maskC|maskG)
	add('N', maskA|maskC|maskG|maskT)
}

// Matches reports whether bases a and b are compatible under IUPAC
// ambiguity rules, e.g. Matches('R', 'A') is true since R = A|G.
// Gaps and stray bytes have no mask and always report false.
func Matches(a, b byte) bool {
	return mask[a]&mask[b] != 0
}

// IsTransversion reports whether the substitution a->b crosses the
// purine/pyrimidine boundary. Only meaningful for differing bases; a
// non-nucleotide first argument reports false.
func IsTransversion(a, b byte) bool {
	u := a &^ 32
	v := b &^ 32
	switch u {
	case 'A':
		return v != 'G'
	case 'C':
		return v != 'T'
	case 'G':
		return v != 'A'
	case 'T', 'U':
		return v != 'C'
	}
	return false
}
