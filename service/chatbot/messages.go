package chatbot

// Replies shown to the user.
const (
	MsgError = "Error during execution."

	MsgNoActivityFound    = "No activity was found with those characteristics"
	MsgInvalidDateRange   = "The dates of your search are not valid: the end date is before the start date or already in the past."
	MsgUserInfoFailed     = "There was a database error while obtaining your information"
	MsgActivitiesFailed   = "There was a database error while obtaining activities"
	MsgRecommendFailed    = "There was a database error while obtaining recommended activities."
	MsgNoCompanyInfo      = "No relevant company information found."
	MsgCompanyInfoFailed  = "An error occurred while searching the company information."
	MsgHostActivityFailed = "An error occurred while obtaining the list of your activities."
	MsgNoHostActivity     = "You don't have any activities with that name."

	MsgDeleteNoActivity   = "You have no activity with that name"
	MsgAlreadyFinished    = "The activity already finished"
	MsgDeleteFailed       = "An error occurred while deleting the activity."
	MsgDeleteIndexFailed  = "An error occurred while removing the activity from the search index."
	MsgActivityRemoved    = "Activity removed successfully"
	MsgOpenActivityFailed = "An error occurred while obtaining the list of available activities."
	MsgNoOpenActivity     = "There are no available activities with that name."
	MsgDuplicate          = "You may already have a reservation for that activity."
	MsgNotOpen            = "That activity is no longer open for reservations."
	MsgOwnActivity        = "You cannot reserve a spot in your own activity."
	MsgReserveFailed      = "An error occurred while inserting the reservation."
	MsgReserved           = "Your reservation has been made"

	MsgReservationsFailed = "An error occurred while obtaining the list of reservations."
	MsgNoPending          = "There are currently no pending reservations for that activity"
	MsgNoReservationUser  = "You don't have any reservations with that username for that activity."
	MsgActivityFull       = "That activity is already full or no longer open."
	MsgAcceptFailed       = "An error occurred while accepting the reservation."
	MsgAccepted           = "The reservation has been successfully accepted"
	MsgNowFull            = "The activity is now full."
	MsgRejectFailed       = "An error occurred while rejecting the reservation."
	MsgRejected           = "The reservation has been successfully rejected"

	MsgNoReservations     = "You currently have no reservations for that activity."
	MsgListReservFailed   = "An error occurred while obtaining the reservations."
	MsgNoReviews          = "You currently have no reviews for that activity"
	MsgListReviewsFailed  = "An error occurred while obtaining the reviews."
	MsgCountFailed        = "An error occurred while obtaining the information about the activity."
	MsgFormatFailed       = "An error occurred while preparing the answer."
	MsgAttendedFailed     = "An error occurred while retrieving your activities."
	MsgNotAttended        = "You haven't attended any finished activities with that name."
	MsgNoFinishedActivity = "You don't have any finished activities with that name."
	MsgNoParticipant      = "You don't have any participants with that username for that activity."
	MsgParticipantsFailed = "An error occurred while obtaining the participants of the activity."
	MsgSentimentFailed    = "An error occurred while analysing the review."
	MsgAlreadyReviewed    = "You have already left that review."
	MsgNotEligible        = "Reviews can only be left for finished activities with a confirmed reservation."
	MsgReviewFailed       = "An error occurred while inserting the review."
	MsgReviewed           = "The review was inserted successfully"
)
