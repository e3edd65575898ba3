package tool

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// NaturalCompare orders strings the way a human would read them: runs of
// digits compare by numeric value and whitespace is ignored.
// It returns -1, 0 or 1.
func NaturalCompare(a, b string) int {
	i, j := 0, 0
	for {
		for i < len(a) && isSpace(a[i]) {
			i++
		}
		for j < len(b) && isSpace(b[j]) {
			j++
		}

		if i >= len(a) || j >= len(b) {
			switch {
			case i >= len(a) && j >= len(b):
				return 0
			case i >= len(a):
				return -1
			default:
				return 1
			}
		}

		if isDigit(a[i]) && isDigit(b[j]) {
			endA, endB := digitRunEnd(a, i), digitRunEnd(b, j)
			if result := compareDigits(a[i:endA], b[j:endB]); result != 0 {
				return result
			}
			i, j = endA, endB
			continue
		}

		if a[i] < b[j] {
			return -1
		} else if a[i] > b[j] {
			return 1
		}
		i++
		j++
	}
}

// NaturalLess is NaturalCompare shaped for sort.Slice.
func NaturalLess(a, b string) bool {
	return NaturalCompare(a, b) < 0
}

func digitRunEnd(s string, start int) int {
	end := start
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	return end
}

// compareDigits compares two runs of ASCII digits by numeric value.
// Runs of any length are accepted, leading zeros are ignored.
func compareDigits(a, b string) int {
	a, b = trimZeros(a), trimZeros(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

func trimZeros(s string) string {
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return s
}
