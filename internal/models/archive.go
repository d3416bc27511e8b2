package models

import "time"

// ArchiveStatus tracks a background archive job.
type ArchiveStatus string

const (
	ArchiveQueued    ArchiveStatus = "queued"
	ArchiveCompleted ArchiveStatus = "completed"
	ArchiveFailed    ArchiveStatus = "failed"
)

// ArchiveJob is one requested snapshot of the appointment book, rendered in
// the background and served through a signed download link.
type ArchiveJob struct {
	ID          string        `json:"id"`
	Format      string        `json:"format"`
	Status      ArchiveStatus `json:"status"`
	File        string        `json:"file,omitempty"`
	DownloadURL string        `json:"download_url,omitempty"`
	Error       string        `json:"error,omitempty"`
	ExpiresAt   *time.Time    `json:"expires_at,omitempty"`
	RequestedAt time.Time     `json:"requested_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}
