package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book is a catalog entry. AvailableCopies never exceeds TotalCopies and never
// drops below zero; only the borrow and return flows change it.
type Book struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title           string    `gorm:"index;size:512;not null" json:"title"`
	Author          string    `gorm:"index;size:150;not null" json:"author"`
	Genre           string    `gorm:"index;size:150;not null" json:"genre"`
	Rating          float64   `gorm:"not null" json:"rating"`
	CoverURL        string    `gorm:"type:text" json:"cover_url"`
	CoverColor      string    `gorm:"size:7" json:"cover_color"` // Hex color, e.g. "#c4214c"
	VideoURL        string    `gorm:"type:text" json:"video_url"`
	Description     string    `gorm:"type:text" json:"description"`
	Summary         string    `gorm:"type:text" json:"summary"`
	TotalCopies     int       `gorm:"not null;default:1" json:"total_copies"`
	AvailableCopies int       `gorm:"not null;default:0" json:"available_copies"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}

func (Book) TableName() string {
	return "books"
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// BookFilter selects which column a catalog search matches against.
type BookFilter string

const (
	BookFilterAll    BookFilter = "all"
	BookFilterTitle  BookFilter = "title"
	BookFilterAuthor BookFilter = "author"
	BookFilterGenre  BookFilter = "genre"
	BookFilterRating BookFilter = "rating" // minimum rating
)

// ParseBookFilter maps user input to a filter, falling back to BookFilterAll.
func ParseBookFilter(s string) BookFilter {
	switch f := BookFilter(s); f {
	case BookFilterTitle, BookFilterAuthor, BookFilterGenre, BookFilterRating:
		return f
	default:
		return BookFilterAll
	}
}
