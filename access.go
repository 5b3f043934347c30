// access.go
package main

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// LessonView is what a permitted reader gets back: the lesson body plus the
// id of the quiz linked to it, if any.
type LessonView struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	OrderIndex int    `json:"order_index"`
	QuizID     *uint  `json:"quiz_id"`
}

type QuestionView struct {
	ID      uint     `json:"id"`
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
}

// QuizView withholds each question's correct index.
type QuizView struct {
	ID          uint           `json:"id"`
	Title       string         `json:"title"`
	PassPercent int            `json:"pass_percent"`
	LessonID    *uint          `json:"lesson_id"`
	Questions   []QuestionView `json:"questions"`
}

// checkLessonAccess gates lesson content by subscription state. A
// non-subscriber may only read the lesson with the smallest order index in
// its course; existence is checked before the subscription rule. The check
// is re-run on every request, subscription state is never cached.
func checkLessonAccess(db *gorm.DB, user User, lessonID uint) (*LessonView, error) {
	var lesson Lesson
	if err := db.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lesson %d: %w", lessonID, errNotFound)
		}
		return nil, err
	}

	if !user.IsSubscriber {
		var first Lesson
		err := db.Where("course_id = ?", lesson.CourseID).
			Order("order_index asc").
			First(&first).Error
		if err != nil {
			return nil, err
		}
		if lesson.ID != first.ID {
			return nil, fmt.Errorf("subscribe to access this lesson: %w", errForbidden)
		}
	}

	view := LessonView{
		ID:         lesson.ID,
		Title:      lesson.Title,
		Content:    lesson.Content,
		OrderIndex: lesson.OrderIndex,
	}

	var quiz Quiz
	err := db.Where("lesson_id = ?", lesson.ID).First(&quiz).Error
	switch {
	case err == nil:
		view.QuizID = &quiz.ID
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no linked quiz
	default:
		return nil, err
	}

	return &view, nil
}

// checkQuizAccess gates quizzes: subscribers only, no exceptions. Returns
// the quiz with its questions ordered by id, choices included and correct
// answers withheld.
func checkQuizAccess(db *gorm.DB, user User, quizID uint) (*QuizView, error) {
	var quiz Quiz
	if err := db.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz %d: %w", quizID, errNotFound)
		}
		return nil, err
	}

	if !user.IsSubscriber {
		return nil, fmt.Errorf("subscribe to access quizzes: %w", errForbidden)
	}

	var questions []Question
	if err := db.Where("quiz_id = ?", quiz.ID).Order("id asc").Find(&questions).Error; err != nil {
		return nil, err
	}

	view := QuizView{
		ID:          quiz.ID,
		Title:       quiz.Title,
		PassPercent: quiz.PassPercent,
		LessonID:    quiz.LessonID,
		Questions:   make([]QuestionView, 0, len(questions)),
	}
	for _, q := range questions {
		view.Questions = append(view.Questions, QuestionView{
			ID:      q.ID,
			Text:    q.Text,
			Choices: q.Choices.Data(),
		})
	}

	return &view, nil
}
