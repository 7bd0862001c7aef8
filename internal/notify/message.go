package notify

import (
	"fmt"
	"net/url"
	"strconv"
)

// Message is a single outbound notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Confirmation builds the message asking the author of reviewID to confirm
// their address. confirmURL is the absolute URL of the confirmation endpoint.
func Confirmation(confirmURL, email, token string, reviewID int64) Message {
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", token)
	q.Set("review", strconv.FormatInt(reviewID, 10))

	link := confirmURL + "?" + q.Encode()

	return Message{
		To:      email,
		Subject: "Confirm your review",
		Body: fmt.Sprintf(
			"Thanks for your review. Confirm your email address to publish it:\n\n%s\n\nIf you did not write this review, ignore this message.",
			link,
		),
	}
}
