package model

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// Category groups business listings; seeded once and read-only afterwards
type Category struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex:categories_name_key"`
	Slug      string    `json:"slug" gorm:"type:varchar(120);not null;uniqueIndex:categories_slug_key"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns the identifier and derives the slug from the name
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	return nil
}

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpacing  = regexp.MustCompile(`[-\s]+`)
)

// Slugify lowercases name, strips accents and punctuation, and joins words with hyphens.
// "Books & Stationery" becomes "books-stationery".
func Slugify(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, name)
	if err != nil {
		ascii = name
	}

	s := nonSlugChars.ReplaceAllString(strings.ToLower(ascii), "")
	s = slugSpacing.ReplaceAllString(strings.TrimSpace(s), "-")
	return strings.Trim(s, "-")
}
