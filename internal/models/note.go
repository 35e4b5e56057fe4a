// Package models defines the domain types shared across roamshare packages.
package models

import "time"

// NoteMetadata is a lightweight description of a note file.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Link represents a directed edge between two notes.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Wave lists the notes admitted during one traversal round.
type Wave struct {
	Number int      `json:"number"`
	Notes  []string `json:"notes"`
}
