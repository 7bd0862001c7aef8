package ratings

import "strings"

// Direction is a vote's effect on a review's rating.
type Direction int

const (
	Upvote   Direction = 1
	Downvote Direction = -1
)

// ParseDirection accepts "up" or "down", case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Upvote, nil
	case "down":
		return Downvote, nil
	default:
		return 0, ErrInvalidDirection
	}
}

// ParseLegacyValue decodes the legacy val query parameter, where "1" means a
// downvote and any other value an upvote.
func ParseLegacyValue(val string) Direction {
	if val == "1" {
		return Downvote
	}
	return Upvote
}

// Delta is the rating change applied by the vote.
func (d Direction) Delta() int {
	return int(d)
}

func (d Direction) String() string {
	if d == Downvote {
		return "down"
	}
	return "up"
}
