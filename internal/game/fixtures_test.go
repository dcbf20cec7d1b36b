package game

func intPtr(n int) *int { return &n }

// threePairLevel is a timed level with two hints and one distractor.
func threePairLevel() Level {
	return Level{
		ID:         1,
		Name:       "Basics",
		Difficulty: DifficultyEasy,
		Pairs: []Pair{
			{
				Right:       Right{ID: "r-speech", Title: "Freedom of speech", Article: "19"},
				Duty:        Duty{ID: "d-respect", Title: "Respect others' views"},
				Explanation: "Free speech comes with respecting the speech of others.",
			},
			{
				Right:       Right{ID: "r-education", Title: "Right to education", Article: "21A"},
				Duty:        Duty{ID: "d-learn", Title: "Help children get an education"},
				Explanation: "Parents must give children the chance to learn.",
			},
			{
				Right: Right{ID: "r-equality", Title: "Right to equality", Article: "14"},
				Duty:  Duty{ID: "d-harmony", Title: "Promote harmony"},
			},
		},
		Distractors: []Distractor{{ID: "x-tax", Title: "Pay no taxes"}},
		TimeLimit:   intPtr(180),
		Hints:       2,
	}
}
