package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// pythonISOLayout matches datetime.isoformat() output for naive timestamps.
const pythonISOLayout = "2006-01-02T15:04:05.999999999"

// wireTime accepts RFC 3339 timestamps and zone-less ISO timestamps, which are read as UTC.
type wireTime struct {
	time.Time
}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed.UTC()
		return nil
	}
	parsed, err := time.ParseInLocation(pythonISOLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

func (t wireTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// ── Requests ─────────────────────────────────────────────────────────────────

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Username string `json:"username" validate:"required,min=3,max=50"`
}

type createCharacterRequest struct {
	CharacterName     string   `json:"character_name" validate:"required,min=1,max=100"`
	CreationMode      string   `json:"creation_mode" validate:"required,oneof=real_person original concept virtual_ip"`
	Description       *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	BirthYear         int      `json:"birth_year" validate:"gte=1900,lte=2100"`
	BirthMonth        int      `json:"birth_month" validate:"gte=1,lte=12"`
	BirthDay          int      `json:"birth_day" validate:"gte=1,lte=31"`
	BirthHour         *int     `json:"birth_hour,omitempty" validate:"omitempty,gte=0,lte=23"`
	BirthMinute       *int     `json:"birth_minute,omitempty" validate:"omitempty,gte=0,lte=59"`
	Gender            string   `json:"gender" validate:"oneof=male female other"`
	GreetingMessage   *string  `json:"greeting_message,omitempty" validate:"omitempty,max=500"`
	PersonalityTraits []string `json:"personality_traits"`
	Tags              []string `json:"tags"`
	VisibilityStatus  string   `json:"visibility_status" validate:"oneof=private public synced"`
}

type sendMessageRequest struct {
	CharacterID string `json:"character_id" validate:"required"`
	Message     string `json:"message" validate:"required,min=1,max=2000"`
}

type createProfileRequest struct {
	BirthYear        int      `json:"birth_year" validate:"gte=1900,lte=2100"`
	BirthMonth       int      `json:"birth_month" validate:"gte=1,lte=12"`
	BirthDay         int      `json:"birth_day" validate:"gte=1,lte=31"`
	BirthHour        int      `json:"birth_hour" validate:"gte=0,lte=23"`
	BirthMinute      int      `json:"birth_minute" validate:"gte=0,lte=59"`
	Gender           string   `json:"gender" validate:"required,oneof=male female other"`
	BirthLocation    *string  `json:"birth_location,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Latitude         *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	UseTrueSolarTime bool     `json:"use_true_solar_time"`
}

// ── Responses ────────────────────────────────────────────────────────────────

type tokenResponse struct {
	AccessToken string `json:"access_token" validate:"required"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id" validate:"required"`
}

// meResponse accepts both a flat user object and the {"user": {...}} envelope
// returned by hosted auth providers.
type meResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	User     *struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		UserMetadata struct {
			Username string `json:"username"`
		} `json:"user_metadata"`
	} `json:"user"`
}

type identityResponse struct {
	ID       string `validate:"required"`
	Email    string
	Username string
}

func (m meResponse) normalize() identityResponse {
	if m.User != nil {
		return identityResponse{ID: m.User.ID, Email: m.User.Email, Username: m.User.UserMetadata.Username}
	}
	return identityResponse{ID: m.ID, Email: m.Email, Username: m.Username}
}

type pillarResponse struct {
	Stem        string   `json:"stem"`
	Branch      string   `json:"branch"`
	HiddenStems []string `json:"hidden_stems"`
	TenGod      *string  `json:"ten_god"`
}

type profileResponse struct {
	ID                 string         `json:"id"`
	UserID             string         `json:"user_id"`
	BirthYear          int            `json:"birth_year"`
	BirthMonth         int            `json:"birth_month"`
	BirthDay           int            `json:"birth_day"`
	BirthHour          int            `json:"birth_hour"`
	BirthMinute        int            `json:"birth_minute"`
	Gender             string         `json:"gender"`
	YearPillar         pillarResponse `json:"year_pillar"`
	MonthPillar        pillarResponse `json:"month_pillar"`
	DayPillar          pillarResponse `json:"day_pillar"`
	HourPillar         pillarResponse `json:"hour_pillar"`
	DayMaster          string         `json:"day_master"`
	BaziString         string         `json:"bazi_string"`
	PrimaryElement     *string        `json:"primary_element"`
	PersonalitySummary *string        `json:"personality_summary"`
	CreatedAt          wireTime       `json:"created_at"`
}

type characterResponse struct {
	ID                   string          `json:"id" validate:"required"`
	CreatorID            string          `json:"creator_id"`
	CharacterName        string          `json:"character_name" validate:"required"`
	CreationMode         string          `json:"creation_mode"`
	Description          *string         `json:"description"`
	BaziProfile          profileResponse `json:"bazi_profile"`
	GreetingMessage      *string         `json:"greeting_message"`
	PersonalityTraits    []string        `json:"personality_traits"`
	Tags                 []string        `json:"tags"`
	InteractionCount     int             `json:"interaction_count" validate:"gte=0"`
	FavoriteCount        int             `json:"favorite_count" validate:"gte=0"`
	VisibilityStatus     string          `json:"visibility_status"`
	DeepDialogueUnlocked bool            `json:"deep_dialogue_unlocked"`
	AvatarURL            *string         `json:"avatar_url"`
	CreatedAt            wireTime        `json:"created_at"`
}

// characterListResponse holds the listing body. Servers may echo page and
// page_size; the page is always described by the request instead.
type characterListResponse struct {
	Characters []characterResponse `json:"characters" validate:"dive"`
	Total      int                 `json:"total" validate:"gte=0"`
}

type chatMessageResponse struct {
	ID             string   `json:"id" validate:"required"`
	ConversationID string   `json:"conversation_id"`
	CharacterID    string   `json:"character_id"`
	UserID         string   `json:"user_id"`
	Message        string   `json:"message"`
	Response       string   `json:"response"`
	CreatedAt      wireTime `json:"created_at"`
}

type conversationResponse struct {
	ID          string                `json:"id"`
	CharacterID string                `json:"character_id"`
	Messages    []chatMessageResponse `json:"messages" validate:"dive"`
}

type conversationListResponse struct {
	Conversations []struct {
		ID          string   `json:"id" validate:"required"`
		CharacterID string   `json:"character_id" validate:"required"`
		UpdatedAt   wireTime `json:"updated_at"`
		Characters  *struct {
			CharacterName string `json:"character_name"`
		} `json:"characters"`
	} `json:"conversations" validate:"dive"`
}

// errorResponse is the FastAPI error body. Detail is a string for raised
// HTTPExceptions and a list of field errors for request validation failures.
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

func (e errorResponse) message() string {
	if len(e.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}
	var fields []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(e.Detail, &fields); err == nil && len(fields) > 0 {
		var buf bytes.Buffer
		for i, f := range fields {
			if i > 0 {
				buf.WriteString("; ")
			}
			if len(f.Loc) > 0 {
				fmt.Fprintf(&buf, "%v: ", f.Loc[len(f.Loc)-1])
			}
			buf.WriteString(f.Msg)
		}
		return buf.String()
	}
	return string(e.Detail)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
