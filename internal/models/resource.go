package models

import "time"

type Resource struct {
	ID          int64     `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Type        string    `json:"type" yaml:"type"`
	Difficulty  string    `json:"difficulty" yaml:"difficulty"`
	Specialties []string  `json:"specialties" yaml:"specialties"`
	Rating      float64   `json:"rating" yaml:"rating"`
	Downloads   int       `json:"downloads" yaml:"downloads"`
	FileSize    string    `json:"file_size" yaml:"file_size"`
	Author      string    `json:"author" yaml:"author"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
	Thumbnail   string    `json:"thumbnail" yaml:"thumbnail"`
	IsNew       bool      `json:"is_new" yaml:"is_new"`
	IsFeatured  bool      `json:"is_featured" yaml:"is_featured"`
	IsSaved     bool      `json:"is_saved" yaml:"-"`
}

type ResourceFilter struct {
	Search       string
	Specialties  []string
	ContentTypes []string
	Difficulties []string
	SortBy       string // popular, newest, rating, downloads, alphabetical
}

type SavedResource struct {
	ProfileID  int64     `json:"profile_id"`
	ResourceID int64     `json:"resource_id"`
	Folder     string    `json:"folder"`
	SavedAt    time.Time `json:"saved_at"`
}

// SavedItem is a library resource as stored in a profile's personal library.
type SavedItem struct {
	Resource
	Folder  string    `json:"folder"`
	SavedAt time.Time `json:"saved_at"`
}
