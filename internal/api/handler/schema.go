package handler

import (
	"time"

	"github.com/xwanai/xwan-client/internal/api/backend"
	"github.com/xwanai/xwan-client/internal/core/domain"
)

// isoLayout mirrors Python's naive datetime.isoformat(), which is what the
// hosted service emits.
const isoLayout = "2006-01-02T15:04:05.000000"

func isoTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// ── Requests ─────────────────────────────────────────────────────────────────

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Username string `json:"username" validate:"required,min=3,max=50"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createCharacterRequest struct {
	CharacterName     string   `json:"character_name" validate:"required,min=1,max=100"`
	CreationMode      string   `json:"creation_mode" validate:"required,oneof=real_person original concept virtual_ip"`
	Description       string   `json:"description" validate:"max=2000"`
	BirthYear         int      `json:"birth_year" validate:"gte=1900,lte=2100"`
	BirthMonth        int      `json:"birth_month" validate:"gte=1,lte=12"`
	BirthDay          int      `json:"birth_day" validate:"gte=1,lte=31"`
	BirthHour         *int     `json:"birth_hour" validate:"omitempty,gte=0,lte=23"`
	BirthMinute       *int     `json:"birth_minute" validate:"omitempty,gte=0,lte=59"`
	Gender            string   `json:"gender" validate:"omitempty,oneof=male female other"`
	GreetingMessage   string   `json:"greeting_message" validate:"max=500"`
	PersonalityTraits []string `json:"personality_traits"`
	Tags              []string `json:"tags"`
	VisibilityStatus  string   `json:"visibility_status" validate:"omitempty,oneof=private public synced"`
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
	BirthLocation    string   `json:"birth_location"`
	Longitude        *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Latitude         *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	UseTrueSolarTime *bool    `json:"use_true_solar_time"`
}

// ── Responses ────────────────────────────────────────────────────────────────

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type messageResponse struct {
	Message string `json:"message"`
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
	CreatedAt          string         `json:"created_at"`
	UpdatedAt          string         `json:"updated_at"`
}

type characterResponse struct {
	ID                   string          `json:"id"`
	CreatorID            string          `json:"creator_id"`
	CharacterName        string          `json:"character_name"`
	CreationMode         string          `json:"creation_mode"`
	Description          *string         `json:"description"`
	BaziProfile          profileResponse `json:"bazi_profile"`
	GreetingMessage      *string         `json:"greeting_message"`
	PersonalityTraits    []string        `json:"personality_traits"`
	Tags                 []string        `json:"tags"`
	InteractionCount     int             `json:"interaction_count"`
	FavoriteCount        int             `json:"favorite_count"`
	VisibilityStatus     string          `json:"visibility_status"`
	DeepDialogueUnlocked bool            `json:"deep_dialogue_unlocked"`
	AvatarURL            *string         `json:"avatar_url"`
	CreatedAt            string          `json:"created_at"`
	UpdatedAt            string          `json:"updated_at"`
}

type characterListResponse struct {
	Characters []characterResponse `json:"characters"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
}

type chatMessageResponse struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	CharacterID    string `json:"character_id"`
	UserID         string `json:"user_id"`
	Message        string `json:"message"`
	Response       string `json:"response"`
	CreatedAt      string `json:"created_at"`
}

type conversationResponse struct {
	ID          string                `json:"id"`
	CharacterID string                `json:"character_id"`
	UserID      string                `json:"user_id"`
	Messages    []chatMessageResponse `json:"messages"`
	CreatedAt   string                `json:"created_at"`
	UpdatedAt   string                `json:"updated_at"`
}

type conversationSummary struct {
	ID          string `json:"id"`
	CharacterID string `json:"character_id"`
	UserID      string `json:"user_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	Characters  struct {
		CharacterName string  `json:"character_name"`
		AvatarURL     *string `json:"avatar_url"`
	} `json:"characters"`
}

type conversationListResponse struct {
	Conversations []conversationSummary `json:"conversations"`
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toPillarResponse(p domain.Pillar) pillarResponse {
	hidden := p.HiddenStems
	if hidden == nil {
		hidden = []string{}
	}
	return pillarResponse{Stem: p.Stem, Branch: p.Branch, HiddenStems: hidden, TenGod: strPtr(p.TenGod)}
}

func chartResponse(id, userID string, birth backend.Birth, chart backend.Chart, created, updated time.Time) profileResponse {
	return profileResponse{
		ID:                 id,
		UserID:             userID,
		BirthYear:          birth.Year,
		BirthMonth:         birth.Month,
		BirthDay:           birth.Day,
		BirthHour:          birth.Hour,
		BirthMinute:        birth.Minute,
		Gender:             string(birth.Gender),
		YearPillar:         toPillarResponse(chart.Year),
		MonthPillar:        toPillarResponse(chart.Month),
		DayPillar:          toPillarResponse(chart.Day),
		HourPillar:         toPillarResponse(chart.Hour),
		DayMaster:          chart.DayMaster,
		BaziString:         chart.BaziString,
		PrimaryElement:     strPtr(chart.PrimaryElement),
		PersonalitySummary: strPtr(chart.PersonalitySummary),
		CreatedAt:          isoTime(created),
		UpdatedAt:          isoTime(updated),
	}
}

func toProfileResponse(p *backend.Profile) profileResponse {
	return chartResponse(p.ID, p.UserID, p.Birth, p.Chart, p.CreatedAt, p.UpdatedAt)
}

func toCharacterResponse(c *backend.Character) characterResponse {
	return characterResponse{
		ID:                   c.ID,
		CreatorID:            c.CreatorID,
		CharacterName:        c.Name,
		CreationMode:         string(c.Mode),
		Description:          strPtr(c.Description),
		BaziProfile:          chartResponse(c.ID, c.CreatorID, c.Birth, c.Chart, c.CreatedAt, c.UpdatedAt),
		GreetingMessage:      strPtr(c.GreetingMessage),
		PersonalityTraits:    c.PersonalityTraits,
		Tags:                 c.Tags,
		InteractionCount:     c.InteractionCount,
		FavoriteCount:        c.FavoriteCount,
		VisibilityStatus:     string(c.Visibility),
		DeepDialogueUnlocked: c.DeepDialogueUnlocked,
		CreatedAt:            isoTime(c.CreatedAt),
		UpdatedAt:            isoTime(c.UpdatedAt),
	}
}

func toChatMessageResponse(e backend.Exchange) chatMessageResponse {
	return chatMessageResponse{
		ID:             e.ID,
		ConversationID: e.ConversationID,
		CharacterID:    e.CharacterID,
		UserID:         e.UserID,
		Message:        e.Message,
		Response:       e.Response,
		CreatedAt:      isoTime(e.CreatedAt),
	}
}
