package analyses

import "time"

// MissingKeywords groups keyword gaps the way the scoring prompt asks for
// them. Order within each list is the backend's emission order.
type MissingKeywords struct {
	Skills     []string `json:"skills"`
	Tools      []string `json:"tools"`
	SoftSkills []string `json:"softSkills"`
}

// Report is the normalized, schema-validated result of one analysis.
// It is immutable once built by NormalizeReport.
type Report struct {
	ATSScore        int             `json:"atsScore"`
	MissingKeywords MissingKeywords `json:"missingKeywords"`
	Suggestions     []string        `json:"suggestions"`
	Strengths       []string        `json:"strengths"`
}

// Analysis is the persisted record: the submitted texts kept verbatim for
// history plus the report fields. ID and CreatedAt are assigned by the repo
// at insert time; UserID is set once at creation and never reassigned.
type Analysis struct {
	ID                 string `json:"id"`
	UserID             string `json:"userId"`
	ResumeText         string `json:"resumeText"`
	JobDescriptionText string `json:"jobDescriptionText"`
	Report
	CreatedAt time.Time `json:"createdAt"`
}
