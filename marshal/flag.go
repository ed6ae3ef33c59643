package marshal

// FlagMax is the largest option value a flag position holds.
const FlagMax = 4

// EncodeFlag packs three options into the composite native flag.
func EncodeFlag(opt0, opt1, opt2 uint8) int32 {
	return int32(opt0) + 10*int32(opt1) + 100*int32(opt2)
}

// DecodeFlag splits a composite flag into its three positions.
func DecodeFlag(flag int32) (opt0, opt1, opt2 uint8) {
	return uint8(flag % 10), uint8((flag / 10) % 10), uint8(flag / 100)
}

// FlagInRange reports whether flag decodes to options within [0, FlagMax].
func FlagInRange(flag int32) bool {
	if flag < 0 || flag > EncodeFlag(FlagMax, FlagMax, FlagMax) {
		return false
	}
	a, b, c := DecodeFlag(flag)
	return a <= FlagMax && b <= FlagMax && c <= FlagMax
}
