package models

import "time"

// Workspace is the single persisted dashboard state of a user. Datasets
// live in their own documents under the workspace.
type Workspace struct {
	GenerationID string                   `firestore:"generationId" json:"generationId"`
	Prompt       string                   `firestore:"prompt" json:"prompt"`
	Provider     string                   `firestore:"provider" json:"provider"`
	Plan         Plan                     `firestore:"plan" json:"plan"`
	Datasets     map[string]DatasetResult `firestore:"-" json:"datasets"`
	Notes        []string                 `firestore:"notes" json:"notes"`
	UpdatedAt    time.Time                `firestore:"updatedAt" json:"updatedAt"`
}

// Generation records one plan generation request.
type Generation struct {
	GenerationID string    `firestore:"generationId" json:"generationId"`
	Prompt       string    `firestore:"prompt" json:"prompt"`
	Provider     string    `firestore:"provider" json:"provider"`
	Title        string    `firestore:"title" json:"title"`
	Fallback     bool      `firestore:"fallback" json:"fallback"`
	Note         string    `firestore:"note,omitempty" json:"note,omitempty"`
	Dropped      int       `firestore:"dropped" json:"dropped"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
	ExpiresAt    time.Time `firestore:"expiresAt" json:"expiresAt"`
}
