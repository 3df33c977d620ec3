package model

import (
	"fmt"
	"math"
)

// defaultShareVirality is assumed for records without a score.
const defaultShareVirality = 900

// ShareURL returns the public link for a record.
func ShareURL(v Video) string {
	switch p := v.Variant.(type) {
	case Clip:
		return fmt.Sprintf("https://www.tiktok.com/@%s/video/%s", v.Author, v.ID)
	case Stream:
		return "https://www.twitch.tv/" + p.UserName
	case Post:
		handle := p.Handle
		if handle == "" {
			handle = v.Author
		}
		return fmt.Sprintf("https://x.com/%s/status/%s", trimAt(handle), v.ID)
	case VOD:
		if p.URL != "" {
			return p.URL
		}
	case Live, Recommendation, nil:
	}
	return "https://www.youtube.com/watch?v=" + v.MediaID()
}

// SharePoints returns the WALLER points earned by sharing v. Sharing early,
// before a clip is viral, pays more; the floor is 10.
func SharePoints(v Video) int {
	score := v.Virality()
	if score == 0 {
		score = defaultShareVirality
	}
	points := int(math.Round(100 - float64(score)/10))
	if points < 10 {
		return 10
	}
	return points
}

func trimAt(s string) string {
	if len(s) > 0 && s[0] == '@' {
		return s[1:]
	}
	return s
}
