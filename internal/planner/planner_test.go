package planner

import "testing"

func TestPlan(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		wantK         int
		wantMeetingID string
	}{
		{
			name:          "summarize specific meeting",
			query:         "Summarize meeting_ab12cd34",
			wantK:         100,
			wantMeetingID: "meeting_ab12cd34",
		},
		{
			name:  "targeted question",
			query: "What time is it?",
			wantK: 5,
		},
		{
			name:  "comprehensive without meeting",
			query: "Give me a complete overview",
			wantK: 20,
		},
		{
			name:          "uppercase meeting reference",
			query:         "Please give me a SUMMARY of Meeting_AB12CD34",
			wantK:         100,
			wantMeetingID: "meeting_ab12cd34",
		},
		{
			name:  "meeting id without comprehensive intent",
			query: "What did Alice say in meeting_ab12cd34 about budgets?",
			wantK: 5,
		},
		{
			name:  "everything keyword",
			query: "Tell me everything discussed last week",
			wantK: 20,
		},
		{
			name:  "malformed meeting id ignored",
			query: "summarize meeting_xyz",
			wantK: 20,
		},
		{
			name:  "empty query",
			query: "",
			wantK: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Plan(tt.query)
			if plan.K != tt.wantK {
				t.Errorf("K = %d, want %d", plan.K, tt.wantK)
			}
			if plan.MeetingID != tt.wantMeetingID {
				t.Errorf("MeetingID = %q, want %q", plan.MeetingID, tt.wantMeetingID)
			}
		})
	}
}
