package service

import (
	"devlingo_backend/internal/model"
	"devlingo_backend/internal/repository"
	"devlingo_backend/internal/util"
)

// ProgressOverview is the dashboard payload.
// swagger:model ProgressOverview
type ProgressOverview struct {
	CurrentLevel  string              `json:"currentLevel"`
	XP            int                 `json:"xp"`
	TotalAnswered int64               `json:"totalAnswered"`
	TotalCorrect  int64               `json:"totalCorrect"`
	AccuracyPct   float64             `json:"accuracyPct"`
	SkillAccuracy map[string]float64  `json:"skillAccuracy"`
	RecentQuizzes []model.QuizResult  `json:"recentQuizzes"`
	RecentExams   []model.ExamAttempt `json:"recentExams"`
}

// ProgressService 汇总学习数据，并提供历史清空
type ProgressService struct {
	UserRepo     *repository.UserRepository
	ResponseRepo *repository.ResponseRepository
	QuizRepo     *repository.QuizRepository
	ExamRepo     *repository.ExamRepository
	SpeakingRepo *repository.SpeakingRepository
}

func NewProgressService(
	userRepo *repository.UserRepository,
	responseRepo *repository.ResponseRepository,
	quizRepo *repository.QuizRepository,
	examRepo *repository.ExamRepository,
	speakingRepo *repository.SpeakingRepository,
) *ProgressService {
	return &ProgressService{
		UserRepo:     userRepo,
		ResponseRepo: responseRepo,
		QuizRepo:     quizRepo,
		ExamRepo:     examRepo,
		SpeakingRepo: speakingRepo,
	}
}

func (s *ProgressService) Overview(userID uint) (*ProgressOverview, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	total, correct, err := s.ResponseRepo.CountCorrectByUser(userID)
	if err != nil {
		return nil, err
	}

	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total) * 100
	}

	skillAccuracy := map[string]float64{}
	if totals, err := s.QuizRepo.TotalsBySkill(userID); err == nil {
		for _, t := range totals {
			if t.Total > 0 {
				skillAccuracy[t.Skill] = float64(t.Score) / float64(t.Total) * 100
			}
		}
	}

	quizzes, err := s.QuizRepo.ListByUser(userID, 5)
	if err != nil {
		return nil, err
	}
	exams, err := s.ExamRepo.ListByUser(userID, 5)
	if err != nil {
		return nil, err
	}

	return &ProgressOverview{
		CurrentLevel:  user.CurrentLevel,
		XP:            user.XP,
		TotalAnswered: total,
		TotalCorrect:  correct,
		AccuracyPct:   accuracy,
		SkillAccuracy: skillAccuracy,
		RecentQuizzes: quizzes,
		RecentExams:   exams,
	}, nil
}

// ClearHistory wipes all learning records of one user and resets the
// profile level to the default. The account itself stays.
func (s *ProgressService) ClearHistory(userID uint) error {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		return util.ErrUserNotFound
	}

	if err := s.ResponseRepo.DeleteAllByUser(userID); err != nil {
		return err
	}
	if err := s.QuizRepo.DeleteAllByUser(userID); err != nil {
		return err
	}
	if err := s.ExamRepo.DeleteAllByUser(userID); err != nil {
		return err
	}
	if err := s.SpeakingRepo.DeleteAllByUser(userID); err != nil {
		return err
	}

	return s.UserRepo.UpdateCurrentLevel(userID, "A2")
}
