package domain

import "time"

// RenderEvent records a single badge render for usage analytics.
type RenderEvent struct {
	ID         string      `firestore:"id" json:"id"`
	Feature    FeatureType `firestore:"feature" json:"feature"`
	Username   string      `firestore:"username,omitempty" json:"username,omitempty"`
	Theme      Theme       `firestore:"theme,omitempty" json:"theme,omitempty"`
	Referer    string      `firestore:"referer,omitempty" json:"referer,omitempty"`
	UserAgent  string      `firestore:"userAgent,omitempty" json:"userAgent,omitempty"`
	IPHash     string      `firestore:"ipHash,omitempty" json:"ipHash,omitempty"`
	FromGitHub bool        `firestore:"fromGithub" json:"fromGithub"`
	RenderedAt time.Time   `firestore:"renderedAt" json:"renderedAt"`
}

// VillageRecord is the persisted state of a user's village.
type VillageRecord struct {
	Username  string    `firestore:"username" json:"username"`
	Commits   int       `firestore:"commits" json:"commits"`
	Visitors  int64     `firestore:"visitors" json:"visitors"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}
