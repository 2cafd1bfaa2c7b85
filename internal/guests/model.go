package guests

import "time"

// Guest is a registered hotel guest. Balance carries money across visits:
// positive values are stored credit in USD, negative values are debt owed
// to the property.
type Guest struct {
	ID          int64     `json:"id"`
	Document    string    `json:"document"`
	Names       string    `json:"names"`
	Phone       string    `json:"phone"`
	BirthDate   string    `json:"birth_date"`
	Nationality string    `json:"nationality"`
	Profession  string    `json:"profession"`
	Vehicle     string    `json:"vehicle"`
	Balance     float64   `json:"balance"`
	CreatedAt   time.Time `json:"created_at"`
}

// Input carries the fields accepted on create and update.
type Input struct {
	Document    string
	Names       string
	Phone       string
	BirthDate   string
	Nationality string
	Profession  string
	Vehicle     string
}
