package amount

import "strings"

// formatFractional left pads the fractional digits to FractionalCount and drops trailing zeros
func formatFractional(str string) string {
	str = strings.Repeat("0", FractionalCount-len(str)) + str
	return strings.TrimRight(str, "0")
}

// padFractional right pads the fractional digits to FractionalCount
func padFractional(str string) string {
	return str + strings.Repeat("0", FractionalCount-len(str))
}
