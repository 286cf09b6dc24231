package domain

// Rating is one of five ordered labels describing how a saved recipe turned
// out. Records always store a label from this closed set, never an arbitrary
// string; the HTTP layer maps labels to and from integers 1-5.
type Rating string

const (
	RatingUndecided   Rating = "undecided"
	RatingMeh         Rating = "meh"
	RatingOkay        Rating = "okay"
	RatingSatisfied   Rating = "satisfied"
	RatingWouldRepeat Rating = "would repeat"
)

var ratingByValue = map[int]Rating{
	1: RatingUndecided,
	2: RatingMeh,
	3: RatingOkay,
	4: RatingSatisfied,
	5: RatingWouldRepeat,
}

var valueByRating = map[Rating]int{
	RatingUndecided:   1,
	RatingMeh:         2,
	RatingOkay:        3,
	RatingSatisfied:   4,
	RatingWouldRepeat: 5,
}

// RatingFromValue maps an integer 1-5 to its label. Out-of-range values
// resolve to the lowest label rather than failing.
func RatingFromValue(v int) Rating {
	if r, ok := ratingByValue[v]; ok {
		return r
	}
	return RatingUndecided
}

// IsValidRatingValue reports whether v maps to a label without fallback.
func IsValidRatingValue(v int) bool {
	_, ok := ratingByValue[v]
	return ok
}

// Value returns the integer 1-5 for a label; unknown labels count as lowest.
func (r Rating) Value() int {
	if v, ok := valueByRating[r]; ok {
		return v
	}
	return 1
}

// Valid reports whether r belongs to the closed label set.
func (r Rating) Valid() bool {
	_, ok := valueByRating[r]
	return ok
}

// ParseRating returns the label matching s, or (RatingUndecided, false) when
// s is not one of the five labels.
func ParseRating(s string) (Rating, bool) {
	r := Rating(s)
	if r.Valid() {
		return r, true
	}
	return RatingUndecided, false
}
