package domain

import "time"

// Visibility controls who besides the creator can see a character.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
	VisibilitySynced  Visibility = "synced"
)

// CreationMode records how a character was conceived.
type CreationMode string

const (
	ModeRealPerson CreationMode = "real_person"
	ModeOriginal   CreationMode = "original"
	ModeConcept    CreationMode = "concept"
	ModeVirtualIP  CreationMode = "virtual_ip"
)

// Gender is used for BaZi computation on the remote side.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// CharacterProfile is the BaZi projection carried by every character.
type CharacterProfile struct {
	BaziString         string `json:"bazi_string"`
	DayMaster          string `json:"day_master"`
	PrimaryElement     string `json:"primary_element,omitempty"`
	PersonalitySummary string `json:"personality_summary,omitempty"`
}

// Character is the client's read-only projection of a server-side character.
type Character struct {
	ID                   string           `json:"id"`
	CreatorID            string           `json:"creator_id,omitempty"`
	Name                 string           `json:"name"`
	Description          string           `json:"description,omitempty"`
	CreationMode         CreationMode     `json:"creation_mode,omitempty"`
	GreetingMessage      string           `json:"greeting_message,omitempty"`
	PersonalityTraits    []string         `json:"personality_traits,omitempty"`
	Tags                 []string         `json:"tags"`
	InteractionCount     int              `json:"interaction_count"`
	FavoriteCount        int              `json:"favorite_count"`
	Visibility           Visibility       `json:"visibility"`
	DeepDialogueUnlocked bool             `json:"deep_dialogue_unlocked"`
	AvatarURL            string           `json:"avatar_url,omitempty"`
	Profile              CharacterProfile `json:"profile"`
	CreatedAt            time.Time        `json:"created_at"`
}

// CharacterPage is one page of a character listing.
type CharacterPage struct {
	Characters []Character
	Total      int
	Page       int // 1-based
	PageSize   int
}

// HasNext reports whether a page after this one exists.
func (p CharacterPage) HasNext() bool {
	return p.Page*p.PageSize < p.Total
}

// HasPrev reports whether a page before this one exists.
func (p CharacterPage) HasPrev() bool {
	return p.Page > 1
}
