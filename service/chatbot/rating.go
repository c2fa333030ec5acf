package chatbot

import (
	"bealive-agent-backend/dao"
	"math"
)

// NoRating marks a review without an explicit rating; the rating is then inferred from
// the review's positivity.
const NoRating = -1

const userPositivityFloor = 0.2

// InferRating maps a positivity in [0,1] to a 1 to 5 rating.
func InferRating(positivity float64) int {
	return int(min(max(math.Round(positivity*5), 1), 5))
}

// StoredRating is the rating recorded on the review row.
func StoredRating(rating int, positivity float64) int {
	if rating == NoRating {
		return InferRating(positivity)
	}
	return rating
}

// Contribution is the weight a review adds to an activity: the mean of the explicit rating
// and the scaled positivity, or the rounded scaled positivity when none was given. Unlike
// the stored rating it is not clamped to 1..5.
func Contribution(rating int, positivity float64) float64 {
	if rating == NoRating {
		return math.Round(positivity * 5)
	}
	return (float64(rating) + positivity*5) / 2
}

// ActivityUpdate smooths the activity's cumulative rating towards contribution and
// the host's towards the new activity rating.
func ActivityUpdate(contribution float64) dao.ActivityRatingUpdate {
	return func(activityOld, hostOld float64) (float64, float64) {
		activityNew := 0.5*activityOld + 0.5*contribution
		return activityNew, 0.9*hostOld + 0.1*activityNew
	}
}

// UserUpdate smooths a participant's cumulative rating. Positivity is floored at 0.2.
func UserUpdate(rating int, positivity float64) dao.UserRatingUpdate {
	s := max(positivity, userPositivityFloor)
	r := StoredRating(rating, s)
	contribution := (float64(r) + s*5) / 2
	return func(old float64) float64 {
		return 0.8*old + 0.2*contribution
	}
}
