package remote

import (
	"github.com/xwanai/xwan-client/internal/core/domain"
	"github.com/xwanai/xwan-client/internal/core/ports"
)

func toCreateCharacterRequest(in ports.CreateCharacterInput) createCharacterRequest {
	gender := string(in.Gender)
	if gender == "" {
		gender = string(domain.GenderOther)
	}
	visibility := string(in.Visibility)
	if visibility == "" {
		visibility = string(domain.VisibilityPrivate)
	}
	traits := in.PersonalityTraits
	if traits == nil {
		traits = []string{}
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	return createCharacterRequest{
		CharacterName:     in.Name,
		CreationMode:      string(in.Mode),
		Description:       optional(in.Description),
		BirthYear:         in.BirthYear,
		BirthMonth:        in.BirthMonth,
		BirthDay:          in.BirthDay,
		BirthHour:         in.BirthHour,
		BirthMinute:       in.BirthMinute,
		Gender:            gender,
		GreetingMessage:   optional(in.GreetingMessage),
		PersonalityTraits: traits,
		Tags:              tags,
		VisibilityStatus:  visibility,
	}
}

func toCreateProfileRequest(in ports.CreateProfileInput) createProfileRequest {
	return createProfileRequest{
		BirthYear:        in.BirthYear,
		BirthMonth:       in.BirthMonth,
		BirthDay:         in.BirthDay,
		BirthHour:        in.BirthHour,
		BirthMinute:      in.BirthMinute,
		Gender:           string(in.Gender),
		BirthLocation:    optional(in.BirthLocation),
		Longitude:        in.Longitude,
		Latitude:         in.Latitude,
		UseTrueSolarTime: in.UseTrueSolarTime,
	}
}

func toCharacter(r characterResponse) domain.Character {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return domain.Character{
		ID:                   r.ID,
		CreatorID:            r.CreatorID,
		Name:                 r.CharacterName,
		Description:          deref(r.Description),
		CreationMode:         domain.CreationMode(r.CreationMode),
		GreetingMessage:      deref(r.GreetingMessage),
		PersonalityTraits:    r.PersonalityTraits,
		Tags:                 tags,
		InteractionCount:     r.InteractionCount,
		FavoriteCount:        r.FavoriteCount,
		Visibility:           domain.Visibility(r.VisibilityStatus),
		DeepDialogueUnlocked: r.DeepDialogueUnlocked,
		AvatarURL:            deref(r.AvatarURL),
		Profile: domain.CharacterProfile{
			BaziString:         r.BaziProfile.BaziString,
			DayMaster:          r.BaziProfile.DayMaster,
			PrimaryElement:     deref(r.BaziProfile.PrimaryElement),
			PersonalitySummary: deref(r.BaziProfile.PersonalitySummary),
		},
		CreatedAt: r.CreatedAt.Time,
	}
}

func toCharacterPage(r characterListResponse, f ports.ListCharactersFilter) *domain.CharacterPage {
	items := make([]domain.Character, 0, len(r.Characters))
	for _, c := range r.Characters {
		items = append(items, toCharacter(c))
	}
	return &domain.CharacterPage{Characters: items, Total: r.Total, Page: f.Page, PageSize: f.PageSize}
}

func toMessage(r chatMessageResponse) domain.Message {
	return domain.Message{
		ID:           r.ID,
		UserText:     r.Message,
		ResponseText: r.Response,
		CreatedAt:    r.CreatedAt.Time,
	}
}

func toPillar(p pillarResponse) domain.Pillar {
	return domain.Pillar{Stem: p.Stem, Branch: p.Branch, HiddenStems: p.HiddenStems, TenGod: deref(p.TenGod)}
}

func toProfile(r profileResponse) *domain.BaZiProfile {
	return &domain.BaZiProfile{
		ID:     r.ID,
		UserID: r.UserID,
		Birth: domain.BirthData{
			Year:   r.BirthYear,
			Month:  r.BirthMonth,
			Day:    r.BirthDay,
			Hour:   r.BirthHour,
			Minute: r.BirthMinute,
			Gender: domain.Gender(r.Gender),
		},
		YearPillar:         toPillar(r.YearPillar),
		MonthPillar:        toPillar(r.MonthPillar),
		DayPillar:          toPillar(r.DayPillar),
		HourPillar:         toPillar(r.HourPillar),
		DayMaster:          r.DayMaster,
		BaziString:         r.BaziString,
		PrimaryElement:     deref(r.PrimaryElement),
		PersonalitySummary: deref(r.PersonalitySummary),
		CreatedAt:          r.CreatedAt.Time,
	}
}
