package agent

import (
	"fmt"
	"strings"
)

type Mood string

type Category string

const (
	MoodHappy    Mood = "Happy"
	MoodSad      Mood = "Sad"
	MoodStressed Mood = "Stressed"
	MoodExcited  Mood = "Excited"
	MoodNeutral  Mood = "Neutral"
)

const (
	CategoryComedy     Category = "Comedy"
	CategoryPolitics   Category = "Politics"
	CategoryBusiness   Category = "Business"
	CategorySports     Category = "Sports"
	CategoryTechnology Category = "Technology"
)

// moodCategories is the closed mood-to-category table. It is the contract the
// reasoning step is prompted with, but the code enforces it: exactly one
// category per mood, nothing outside this table.
var moodCategories = map[Mood]Category{
	MoodHappy:    CategoryComedy,
	MoodSad:      CategoryPolitics,
	MoodStressed: CategoryBusiness,
	MoodExcited:  CategorySports,
	MoodNeutral:  CategoryTechnology,
}

// moodOrder keeps prompts and schemas deterministic.
var moodOrder = []Mood{MoodHappy, MoodSad, MoodStressed, MoodExcited, MoodNeutral}

func Moods() []string {
	out := make([]string, len(moodOrder))
	for i, m := range moodOrder {
		out[i] = string(m)
	}
	return out
}

func CategoryFor(mood Mood) (Category, bool) {
	c, ok := moodCategories[mood]
	return c, ok
}

// Policy resolves inferred mood labels to categories. Labels outside the
// closed table take the fallback mood.
type Policy struct {
	fallback Mood
}

func NewPolicy(fallback string) Policy {
	if _, ok := moodCategories[Mood(fallback)]; !ok {
		fallback = string(MoodNeutral)
	}
	return Policy{fallback: Mood(fallback)}
}

// Resolve maps a label to its mood and category, case-insensitively.
func (p Policy) Resolve(label string) (Mood, Category) {
	label = strings.TrimSpace(label)
	for m, c := range moodCategories {
		if strings.EqualFold(label, string(m)) {
			return m, c
		}
	}
	return p.fallback, moodCategories[p.fallback]
}

// Query builds the retrieval query for a category.
func Query(category Category) string {
	return fmt.Sprintf("latest %s news", strings.ToLower(string(category)))
}
