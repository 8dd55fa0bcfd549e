package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type SubmissionStatus string

const (
	StatusSubmitted SubmissionStatus = "submitted"
	StatusFlagged   SubmissionStatus = "flagged"
	StatusGraded    SubmissionStatus = "graded"
)

type SubmissionKind string

const (
	KindFile SubmissionKind = "file"
	KindText SubmissionKind = "text"
)

// Submission is one assignment artifact, owned by an account through the
// email value alone (no foreign key — the owning account may not exist).
// File uploads are stored on disk under StoredName, a generated unique
// object name; OriginalName is kept as metadata only. Version backs the
// optimistic concurrency check on the flag transition.
type Submission struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Email   string `json:"email" gorm:"not null;index;size:255"`
	Subject string `json:"subject" gorm:"not null;size:200;index"`

	Kind         SubmissionKind `json:"kind" gorm:"not null;size:10"`
	OriginalName string         `json:"original_name" gorm:"size:255"`
	StoredName   string         `json:"stored_name" gorm:"index;size:100"`
	Text         string         `json:"text,omitempty" gorm:"type:text"`
	Meta         datatypes.JSON `json:"meta,omitempty"`

	Status     SubmissionStatus `json:"status" gorm:"default:submitted;index;size:20"`
	FraudScore int              `json:"fraud_score" gorm:"default:0"`
	Feedback   string           `json:"feedback" gorm:"type:text;default:''"`

	Version    int       `json:"version" gorm:"default:1"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime;index"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Submission) TableName() string {
	return "submissions"
}

// SetMeta stores free-form metadata, silently dropping it when it
// cannot be encoded.
func (s *Submission) SetMeta(meta map[string]interface{}) {
	data, err := json.Marshal(meta)
	if err != nil {
		return
	}
	s.Meta = datatypes.JSON(data)
}

// ArtifactName is the name a notification or export refers to: the
// original upload name for files, the subject for inline text.
func (s *Submission) ArtifactName() string {
	if s.Kind == KindFile {
		return s.OriginalName
	}
	return s.Subject
}
