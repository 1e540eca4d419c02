package controller

import (
	"time"

	"gala/repository"
	"gala/scoring"
	"gala/service"
	"gala/utils"
)

type GalaResponse struct {
	Id    int     `json:"id" binding:"required"`
	Name  string  `json:"nom" binding:"required"`
	Year  int     `json:"annee" binding:"required"`
	Venue *string `json:"lieu"`
	Date  *string `json:"date_gala"`
}

type CompanyResponse struct {
	Id     int     `json:"id" binding:"required"`
	Name   string  `json:"nom" binding:"required"`
	City   *string `json:"ville"`
	Sector *string `json:"secteur"`
}

type ProgressResponse struct {
	Percent   float64        `json:"percent" binding:"required"`
	Completed int            `json:"completed" binding:"required"`
	Total     int            `json:"total" binding:"required"`
	Status    scoring.Status `json:"status" binding:"required"`
}

type CategoryProgressResponse struct {
	Percent               float64        `json:"percent" binding:"required"`
	CompletedParticipants int            `json:"completed_participants" binding:"required"`
	TotalParticipants     int            `json:"total_participants" binding:"required"`
	Recorded              int            `json:"recorded" binding:"required"`
	Total                 int            `json:"total" binding:"required"`
	Status                scoring.Status `json:"status" binding:"required"`
}

type GalaLockResponse struct {
	GalaId   int       `json:"gala_id" binding:"required"`
	LockedAt time.Time `json:"locked_at" binding:"required"`
	LockedBy *int      `json:"locked_by"`
}

func toGalaResponse(gala *repository.Gala) *GalaResponse {
	if gala == nil {
		return nil
	}
	return &GalaResponse{
		Id:    gala.Id,
		Name:  gala.Name,
		Year:  gala.Year,
		Venue: gala.Venue,
		Date:  gala.Date,
	}
}

func toCompanyResponse(company *repository.Company) *CompanyResponse {
	if company == nil {
		return nil
	}
	return &CompanyResponse{
		Id:     company.Id,
		Name:   company.Name,
		City:   company.City,
		Sector: company.Sector,
	}
}

func toParticipantProgressResponse(progress scoring.ParticipantProgress) *ProgressResponse {
	return &ProgressResponse{
		Percent:   progress.Percent,
		Completed: progress.Completed,
		Total:     progress.Total,
		Status:    progress.Status,
	}
}

func toCategoryProgressResponse(progress scoring.CategoryProgress) *CategoryProgressResponse {
	return &CategoryProgressResponse{
		Percent:               progress.Percent,
		CompletedParticipants: progress.CompletedParticipants,
		TotalParticipants:     progress.TotalParticipants,
		Recorded:              progress.Recorded,
		Total:                 progress.Total,
		Status:                progress.Status,
	}
}

func toGalaLockResponse(lock *repository.GalaLock) *GalaLockResponse {
	if lock == nil {
		return nil
	}
	return &GalaLockResponse{
		GalaId:   lock.GalaId,
		LockedAt: lock.LockedAt,
		LockedBy: lock.LockedBy,
	}
}

func lockedAt(lock *repository.GalaLock) *time.Time {
	if lock == nil {
		return nil
	}
	return &lock.LockedAt
}

func submittedAt(submission *repository.Submission) *time.Time {
	if submission == nil {
		return nil
	}
	return &submission.SubmittedAt
}

type GalaSummaryResponse struct {
	GalaResponse
	Locked      bool       `json:"locked" binding:"required"`
	LockedAt    *time.Time `json:"locked_at"`
	LockedBy    *int       `json:"locked_by"`
	Submissions int        `json:"submissions" binding:"required"`
}

func toGalaSummaryResponse(summary *service.GalaSummary) *GalaSummaryResponse {
	response := &GalaSummaryResponse{
		GalaResponse: *toGalaResponse(summary.Gala),
		Locked:       summary.Lock != nil,
		LockedAt:     lockedAt(summary.Lock),
		Submissions:  summary.Submissions,
	}
	if summary.Lock != nil {
		response.LockedBy = summary.Lock.LockedBy
	}
	return response
}

func toGalaSummaryResponses(summaries []*service.GalaSummary) []*GalaSummaryResponse {
	return utils.Map(summaries, toGalaSummaryResponse)
}
