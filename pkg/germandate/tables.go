package germandate

import "time"

// Tables holds the month and weekday names a Parser recognises.
// Keys are lower case; lookups fold the input to lower case.
type Tables struct {
	Months      map[string]time.Month
	MonthAbbr   map[string]time.Month
	Weekdays    map[string]time.Weekday
	WeekdayAbbr map[string]time.Weekday
}

// German is the default table set. It accepts the ASCII spelling "Maerz" and
// the Austrian "Jänner" next to the standard names.
var German = Tables{
	Months: map[string]time.Month{
		"januar":    time.January,
		"jänner":    time.January,
		"februar":   time.February,
		"märz":      time.March,
		"maerz":     time.March,
		"april":     time.April,
		"mai":       time.May,
		"juni":      time.June,
		"juli":      time.July,
		"august":    time.August,
		"september": time.September,
		"oktober":   time.October,
		"november":  time.November,
		"dezember":  time.December,
	},
	MonthAbbr: map[string]time.Month{
		"jan.":  time.January,
		"jan":   time.January,
		"feb.":  time.February,
		"feb":   time.February,
		"mär.":  time.March,
		"mär":   time.March,
		"mrz.":  time.March,
		"apr.":  time.April,
		"apr":   time.April,
		"mai":   time.May,
		"jun.":  time.June,
		"jun":   time.June,
		"jul.":  time.July,
		"jul":   time.July,
		"aug.":  time.August,
		"aug":   time.August,
		"sep.":  time.September,
		"sep":   time.September,
		"sept.": time.September,
		"okt.":  time.October,
		"okt":   time.October,
		"nov.":  time.November,
		"nov":   time.November,
		"dez.":  time.December,
		"dez":   time.December,
	},
	Weekdays: map[string]time.Weekday{
		"montag":     time.Monday,
		"dienstag":   time.Tuesday,
		"mittwoch":   time.Wednesday,
		"donnerstag": time.Thursday,
		"freitag":    time.Friday,
		"samstag":    time.Saturday,
		"sonnabend":  time.Saturday,
		"sonntag":    time.Sunday,
	},
	WeekdayAbbr: map[string]time.Weekday{
		"mo":  time.Monday,
		"mo.": time.Monday,
		"di":  time.Tuesday,
		"di.": time.Tuesday,
		"mi":  time.Wednesday,
		"mi.": time.Wednesday,
		"do":  time.Thursday,
		"do.": time.Thursday,
		"fr":  time.Friday,
		"fr.": time.Friday,
		"sa":  time.Saturday,
		"sa.": time.Saturday,
		"so":  time.Sunday,
		"so.": time.Sunday,
	},
}
