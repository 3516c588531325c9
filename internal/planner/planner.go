// Package planner derives retrieval parameters from the user's query text
// before any model call happens. Meeting references and summarization intent
// are cheap to detect lexically, and getting them right up front decides
// whether a search pulls five chunks or a whole meeting.
package planner

import (
	"regexp"
	"strings"
)

// meetingIDPattern matches canonical meeting identifiers embedded anywhere
// in a query, e.g. "summarize meeting_ab12cd34 for me".
var meetingIDPattern = regexp.MustCompile(`meeting_([a-f0-9]{8})`)

// comprehensiveKeywords signal that the user wants broad coverage rather
// than a targeted lookup.
var comprehensiveKeywords = []string{
	"summarize",
	"summary",
	"all",
	"entire",
	"complete",
	"overview",
	"everything",
	"full",
}

const (
	// KFocused is the chunk count for ordinary targeted questions.
	KFocused = 5
	// KBroad is the chunk count for comprehensive queries without a
	// specific meeting.
	KBroad = 20
	// KMeeting is the chunk count when a single meeting is summarized;
	// large enough to cover any transcript we index.
	KMeeting = 100
)

// RetrievalPlan tells the search layer how many chunks to fetch and
// whether to restrict the search to one meeting.
type RetrievalPlan struct {
	// K is the number of chunks to retrieve.
	K int
	// MeetingID restricts retrieval to a single meeting when non-empty.
	MeetingID string
	// Comprehensive reports whether broad-coverage intent was detected.
	Comprehensive bool
}

// Plan inspects the query and returns the retrieval parameters.
//
// A query that names a meeting ID and asks for comprehensive coverage gets
// the whole meeting (K=100, filtered). Comprehensive intent without a
// meeting ID widens the search (K=20). Everything else stays focused (K=5).
func Plan(query string) RetrievalPlan {
	lower := strings.ToLower(query)

	var meetingID string
	if m := meetingIDPattern.FindString(lower); m != "" {
		meetingID = m
	}

	comprehensive := false
	for _, kw := range comprehensiveKeywords {
		if strings.Contains(lower, kw) {
			comprehensive = true
			break
		}
	}

	switch {
	case meetingID != "" && comprehensive:
		return RetrievalPlan{K: KMeeting, MeetingID: meetingID, Comprehensive: true}
	case comprehensive:
		return RetrievalPlan{K: KBroad, Comprehensive: true}
	default:
		return RetrievalPlan{K: KFocused}
	}
}
