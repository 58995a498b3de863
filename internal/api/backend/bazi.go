package backend

import (
	"fmt"

	"github.com/xwanai/xwan-client/internal/core/domain"
)

var (
	stems    = [10]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}
	branches = [12]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

	// stemElement indexes wood, fire, earth, metal, water.
	elementNames = [5]string{"木", "火", "土", "金", "水"}

	hiddenStems = map[string][]string{
		"子": {"癸"},
		"丑": {"己", "癸", "辛"},
		"寅": {"甲", "丙", "戊"},
		"卯": {"乙"},
		"辰": {"戊", "乙", "癸"},
		"巳": {"丙", "戊", "庚"},
		"午": {"丁", "己"},
		"未": {"己", "丁", "乙"},
		"申": {"庚", "壬", "戊"},
		"酉": {"辛"},
		"戌": {"戊", "辛", "丁"},
		"亥": {"壬", "甲"},
	}

	summaries = map[string]string{
		"木": "性格积极上进，富有创造力，善于沟通。",
		"火": "热情开朗，充满活力，具有领导魅力。",
		"土": "稳重踏实，值得信赖，具有包容心。",
		"金": "果断刚毅，原则性强，追求完美。",
		"水": "聪慧灵活，适应力强，富有智慧。",
	}
)

// Chart is a computed set of four pillars.
type Chart struct {
	Year, Month, Day, Hour domain.Pillar
	DayMaster              string
	BaziString             string
	PrimaryElement         string
	PersonalitySummary     string
}

// computeChart derives a simplified chart from a civil date and hour. The year
// changes on 1 January and months on the first of the month; true solar time
// and solar terms are not applied.
func computeChart(year, month, day, hour int) Chart {
	yearStem := mod(year-4, 10)
	yearBranch := mod(year-4, 12)

	// January maps to 寅; the 寅 month stem follows the year stem.
	monthBranch := mod(month+1, 12)
	firstMonthStem := mod(yearStem%5*2+2, 10)
	monthStem := mod(firstMonthStem+month-1, 10)

	dayIndex := mod(julianDay(year, month, day)+49, 60)
	dayStem := dayIndex % 10
	dayBranch := dayIndex % 12

	hourBranch := (hour + 1) / 2 % 12
	hourStem := mod(dayStem%5*2+hourBranch, 10)

	c := Chart{
		Year:      pillar(yearStem, yearBranch, dayStem),
		Month:     pillar(monthStem, monthBranch, dayStem),
		Day:       pillar(dayStem, dayBranch, dayStem),
		Hour:      pillar(hourStem, hourBranch, dayStem),
		DayMaster: stems[dayStem],
	}
	c.Day.TenGod = "日主"
	c.BaziString = fmt.Sprintf("%s%s %s%s %s%s %s%s",
		c.Year.Stem, c.Year.Branch, c.Month.Stem, c.Month.Branch,
		c.Day.Stem, c.Day.Branch, c.Hour.Stem, c.Hour.Branch)
	c.PrimaryElement = elementNames[dayStem/2]
	c.PersonalitySummary = summaries[c.PrimaryElement]
	return c
}

func pillar(stem, branch, dayStem int) domain.Pillar {
	return domain.Pillar{
		Stem:        stems[stem],
		Branch:      branches[branch],
		HiddenStems: append([]string(nil), hiddenStems[branches[branch]]...),
		TenGod:      tenGod(dayStem, stem),
	}
}

// tenGod names the relation of stem to the day master.
func tenGod(dayStem, stem int) string {
	self, other := dayStem/2, stem/2
	samePolarity := dayStem%2 == stem%2
	pick := func(same, diff string) string {
		if samePolarity {
			return same
		}
		return diff
	}
	switch mod(other-self, 5) {
	case 0:
		return pick("比肩", "劫财")
	case 1: // day master produces
		return pick("食神", "伤官")
	case 2: // day master controls
		return pick("偏财", "正财")
	case 3: // controls day master
		return pick("七杀", "正官")
	default: // produces day master
		return pick("偏印", "正印")
	}
}

// julianDay returns the Julian day number of a Gregorian date.
func julianDay(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
