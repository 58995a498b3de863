package domain

import "time"

// Pillar is one of the four BaZi pillars (year, month, day, hour).
type Pillar struct {
	Stem        string   `json:"stem"`
	Branch      string   `json:"branch"`
	HiddenStems []string `json:"hidden_stems,omitempty"`
	TenGod      string   `json:"ten_god,omitempty"`
}

// BirthData is the input for a BaZi computation.
type BirthData struct {
	Year     int
	Month    int
	Day      int
	Hour     int
	Minute   int
	Gender   Gender
	Location string
}

// BaZiProfile is the user's own birth-data profile as computed by the remote service.
type BaZiProfile struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Birth              BirthData `json:"-"`
	YearPillar         Pillar    `json:"year_pillar"`
	MonthPillar        Pillar    `json:"month_pillar"`
	DayPillar          Pillar    `json:"day_pillar"`
	HourPillar         Pillar    `json:"hour_pillar"`
	DayMaster          string    `json:"day_master"`
	BaziString         string    `json:"bazi_string"`
	PrimaryElement     string    `json:"primary_element,omitempty"`
	PersonalitySummary string    `json:"personality_summary,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}
