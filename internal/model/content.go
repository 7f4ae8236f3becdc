package model

import "time"

// University is a partner institution shown on the public site.
type University struct {
	Document `bson:",inline"`

	Name        string   `json:"name" bson:"name" validate:"required,max=200"`
	Slug        string   `json:"slug" bson:"slug" validate:"required,max=200"`
	Country     string   `json:"country" bson:"country" validate:"required,max=80"`
	City        string   `json:"city,omitempty" bson:"city,omitempty" validate:"max=80"`
	Ranking     int      `json:"ranking,omitempty" bson:"ranking,omitempty" validate:"gte=0"`
	Description string   `json:"description,omitempty" bson:"description,omitempty" validate:"max=10000"`
	Programs    []string `json:"programs,omitempty" bson:"programs,omitempty" validate:"max=200"`
	TuitionFrom float64  `json:"tuitionFrom,omitempty" bson:"tuitionFrom,omitempty" validate:"gte=0"`
	Currency    string   `json:"currency,omitempty" bson:"currency,omitempty" validate:"omitempty,len=3"`
	Website     string   `json:"website,omitempty" bson:"website,omitempty" validate:"omitempty,url"`
	Featured    bool     `json:"featured" bson:"featured"`
	Published   bool     `json:"published" bson:"published"`
}

// Update is a news item or announcement.
type Update struct {
	Document `bson:",inline"`

	Title       string     `json:"title" bson:"title" validate:"required,max=200"`
	Slug        string     `json:"slug" bson:"slug" validate:"required,max=200"`
	Summary     string     `json:"summary,omitempty" bson:"summary,omitempty" validate:"max=1000"`
	Body        string     `json:"body,omitempty" bson:"body,omitempty"`
	Category    string     `json:"category,omitempty" bson:"category,omitempty" validate:"max=80"`
	Published   bool       `json:"published" bson:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" bson:"publishedAt,omitempty"`
}

// SuccessStory is a student testimonial.
type SuccessStory struct {
	Document `bson:",inline"`

	StudentName string `json:"studentName" bson:"studentName" validate:"required,max=120"`
	Slug        string `json:"slug" bson:"slug" validate:"required,max=200"`
	University  string `json:"university" bson:"university" validate:"required,max=200"`
	Country     string `json:"country,omitempty" bson:"country,omitempty" validate:"max=80"`
	Program     string `json:"program,omitempty" bson:"program,omitempty" validate:"max=200"`
	Story       string `json:"story" bson:"story" validate:"required,max=10000"`
	Featured    bool   `json:"featured" bson:"featured"`
	Published   bool   `json:"published" bson:"published"`
}

// ContentPage is an editable static page (destinations, scholarships, partnership).
type ContentPage struct {
	Document `bson:",inline"`

	Slug            string `json:"slug" bson:"slug" validate:"required,max=200"`
	Title           string `json:"title" bson:"title" validate:"required,max=200"`
	Section         string `json:"section,omitempty" bson:"section,omitempty" validate:"max=80"`
	Body            string `json:"body,omitempty" bson:"body,omitempty"`
	MetaTitle       string `json:"metaTitle,omitempty" bson:"metaTitle,omitempty" validate:"max=200"`
	MetaDescription string `json:"metaDescription,omitempty" bson:"metaDescription,omitempty" validate:"max=400"`
	Published       bool   `json:"published" bson:"published"`
}
