package models

import "testing"

func TestScoreAnswers(t *testing.T) {
	questions := []Question{
		{Text: "q1", Choices: []string{"a", "b", "c"}, Correct: 1},
		{Text: "q2", Choices: []string{"a", "b"}, Correct: 0},
		{Text: "q3", Choices: []string{"a", "b", "c", "d"}, Correct: 3},
	}
	tests := []struct {
		name    string
		answers []int
		want    int
	}{
		{"all correct", []int{1, 0, 3}, 3},
		{"all wrong", []int{0, 1, 0}, 0},
		{"partial", []int{1, 1, 3}, 2},
		{"short answer list", []int{1}, 1},
		{"empty", []int{}, 0},
		{"out of range pick", []int{5, 0, -1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreAnswers(questions, tt.answers); got != tt.want {
				t.Errorf("score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestQuizQuestionsRoundTrip(t *testing.T) {
	quiz := Quiz{}
	original := []Question{
		{Text: "What is 2+2?", Choices: []string{"3", "4"}, Correct: 1},
	}
	if err := quiz.SetQuestions(original); err != nil {
		t.Fatal(err)
	}
	decoded, err := quiz.GetQuestions()
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 1 || decoded[0].Text != original[0].Text || decoded[0].Correct != 1 {
		t.Fatalf("decoded = %+v", decoded)
	}
}
