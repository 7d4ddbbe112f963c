package domain

import "goalplan/internal/platform/wizard"

const ReviewCommentLimit = 200

// ReviewSubmission is the feedback sent to /objectives/{oid}/review/.
type ReviewSubmission struct {
	Difficulty string `json:"difficulty"`
	Interest   string `json:"interest"`
	Time       string `json:"time"`
	Comment    string `json:"comment"`
}

// ExtensionRequest is the body of /goals/{id}/extend/.
type ExtensionRequest struct {
	Extension string `json:"extension"`
	Level     string `json:"level"`
	Priority  string `json:"priority"`
	Comment   string `json:"comment"`
}

func ReviewWizard() wizard.Definition {
	return wizard.Definition{
		Name:  "review",
		Title: "Update Your Objective",
		Steps: []wizard.Step{
			{Field: "difficulty", Title: "How hard was this objective?", Options: []string{"Very Hard", "Too Easy", "Just Right"}, Required: true},
			{Field: "interest", Title: "Did you enjoy it?", Options: []string{"Liked it", "Bored", "Neutral"}, Required: true},
			{Field: "time", Title: "How was the time you had?", Options: []string{"Too short", "Too long", "Perfect"}, Required: true},
			{Field: "comment", Title: "Anything else? (optional)", MaxLen: ReviewCommentLimit},
		},
	}
}

func ExtensionWizard() wizard.Definition {
	return wizard.Definition{
		Name:  "extension",
		Title: "Extend Objectives",
		Steps: []wizard.Step{
			{Field: "extension", Title: "Step 1: Extend your goal", Options: []string{"1 week", "1 month"}, Required: true},
			{Field: "level", Title: "Step 2: Goal difficulty", Options: []string{"easier", "harder", "same"}, Required: true},
			{Field: "priority", Title: "Step 3: Prioritize objectives", Options: []string{
				"Focus on the most important objectives first",
				"Balance easy and hard objectives",
				"Try more challenging objectives for faster progress",
				"Follow the same order as previous plan",
			}, Required: true},
			{Field: "comment", Title: "Step 4: Additional comments"},
		},
	}
}

func ReviewFromAnswers(a wizard.Answers) ReviewSubmission {
	return ReviewSubmission{Difficulty: a["difficulty"], Interest: a["interest"], Time: a["time"], Comment: a["comment"]}
}

func ExtensionFromAnswers(a wizard.Answers) ExtensionRequest {
	return ExtensionRequest{Extension: a["extension"], Level: a["level"], Priority: a["priority"], Comment: a["comment"]}
}
