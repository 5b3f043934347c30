// grader.go
package main

import (
	"errors"
	"fmt"
	"math"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizResult struct {
	Score   float64 `json:"score"`
	Passed  bool    `json:"passed"`
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
}

// submitQuiz grades answers positionally against the quiz's questions
// (ordered by ascending id) and appends a QuizAttempt. A count mismatch is
// rejected outright and persists nothing. Access gating lives in the
// caller, not here.
func submitQuiz(db *gorm.DB, user User, quizID uint, answers []int) (*QuizResult, error) {
	var quiz Quiz
	if err := db.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz %d: %w", quizID, errNotFound)
		}
		return nil, err
	}

	var questions []Question
	if err := db.Where("quiz_id = ?", quiz.ID).Order("id asc").Find(&questions).Error; err != nil {
		return nil, err
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("quiz has no questions: %w", errBadRequest)
	}
	if len(answers) != len(questions) {
		return nil, fmt.Errorf("answer count mismatch: %w", errBadRequest)
	}

	correct := 0
	for i, q := range questions {
		if answers[i] == q.CorrectIndex {
			correct++
		}
	}

	score := math.Round(float64(correct)/float64(len(questions))*100*100) / 100
	passed := score >= float64(quiz.PassPercent)

	attempt := QuizAttempt{
		UserID:  user.ID,
		QuizID:  quiz.ID,
		Score:   score,
		Passed:  passed,
		Answers: datatypes.NewJSONType(answers),
	}
	if err := db.Create(&attempt).Error; err != nil {
		return nil, err
	}

	return &QuizResult{
		Score:   score,
		Passed:  passed,
		Correct: correct,
		Total:   len(questions),
	}, nil
}
