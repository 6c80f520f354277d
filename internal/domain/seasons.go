package domain

// MonthNames maps month numbers to English names, used for calendar keys and
// weather summaries.
var MonthNames = [13]string{"",
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the English name for a month in 1..12, or "" otherwise.
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return MonthNames[m]
}

// SeasonForMonth maps a month to its meteorological season: Dec-Feb Winter,
// Mar-May Spring, Jun-Aug Summer, Sep-Nov Fall.
func SeasonForMonth(m int) string {
	switch m {
	case 12, 1, 2:
		return "Winter"
	case 3, 4, 5:
		return "Spring"
	case 6, 7, 8:
		return "Summer"
	case 9, 10, 11:
		return "Fall"
	default:
		return ""
	}
}
