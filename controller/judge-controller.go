package controller

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gala/app_error"
	"gala/repository"
	"gala/scoring"
	"gala/service"
	"gala/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type JudgeController struct {
	judgeService   *service.JudgeService
	scoringService *service.ScoringService
}

func NewJudgeController(db *gorm.DB, dispatcher *service.Dispatcher) *JudgeController {
	return &JudgeController{
		judgeService:   service.NewJudgeService(db),
		scoringService: service.NewScoringService(db, dispatcher),
	}
}

func setupJudgeController(db *gorm.DB, dispatcher *service.Dispatcher) []RouteInfo {
	e := NewJudgeController(db, dispatcher)
	basePath := "/judge/galas"
	categoryPath := "/:gala_id/categories/:gala_category_id/participants"
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: e.getGalasHandler()},
		{Method: "GET", Path: "/:gala_id", HandlerFunc: e.getGalaHandler()},
		{Method: "GET", Path: categoryPath, HandlerFunc: e.getCategoryParticipantsHandler()},
		{Method: "GET", Path: categoryPath + "/:participant_id", HandlerFunc: e.getParticipantViewHandler()},
		{Method: "PATCH", Path: categoryPath + "/:participant_id/questions/:question_id", HandlerFunc: e.updateNoteHandler()},
		{Method: "POST", Path: "/:gala_id/submit", HandlerFunc: e.submitGalaHandler()},
		{Method: "PUT", Path: "/:gala_id/favorite", HandlerFunc: e.setFavoriteHandler()},
		{Method: "DELETE", Path: "/:gala_id/favorite", HandlerFunc: e.clearFavoriteHandler()},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
		routes[i].Authenticated = true
		routes[i].RoleRequired = []repository.Role{repository.RoleJudge}
	}
	return routes
}

// @id GetJudgeGalas
// @Description Lists every gala the judge is assigned to with per-category progress
// @Tags judge
// @Produce json
// @Success 200 {array} JudgeGalaResponse
// @Router /judge/galas [get]
// @Security BearerAuth
func (e *JudgeController) getGalasHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		galas, err := e.judgeService.GetJudgeProgress(c, getCaller(c), nil)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, utils.Map(galas, toJudgeGalaResponse))
	}
}

// @id GetJudgeGala
// @Description Progress of the judge on one gala
// @Tags judge
// @Produce json
// @Param gala_id path int true "Gala Id"
// @Success 200 {object} JudgeGalaResponse
// @Router /judge/galas/{gala_id} [get]
// @Security BearerAuth
func (e *JudgeController) getGalaHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		galaId, ok := intParam(c, "gala_id")
		if !ok {
			return
		}
		galas, err := e.judgeService.GetJudgeProgress(c, getCaller(c), &galaId)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, toJudgeGalaResponse(galas[0]))
	}
}

// @id GetCategoryParticipants
// @Description Participants of an assigned category with the judge's progress on each
// @Tags judge
// @Produce json
// @Param gala_id path int true "Gala Id"
// @Param gala_category_id path int true "Gala Category Id"
// @Success 200 {object} CategoryParticipantsResponse
// @Router /judge/galas/{gala_id}/categories/{gala_category_id}/participants [get]
// @Security BearerAuth
func (e *JudgeController) getCategoryParticipantsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		galaId, ok := intParam(c, "gala_id")
		if !ok {
			return
		}
		galaCategoryId, ok := intParam(c, "gala_category_id")
		if !ok {
			return
		}
		participants, err := e.judgeService.ListCategoryParticipants(c, getCaller(c), galaId, galaCategoryId)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, toCategoryParticipantsResponse(participants))
	}
}

// @id GetParticipantView
// @Description Questions of a participant with the judge's notes, followed by the shared narrative questions
// @Tags judge
// @Produce json
// @Param gala_id path int true "Gala Id"
// @Param gala_category_id path int true "Gala Category Id"
// @Param participant_id path int true "Participant Id"
// @Success 200 {object} ParticipantViewResponse
// @Router /judge/galas/{gala_id}/categories/{gala_category_id}/participants/{participant_id} [get]
// @Security BearerAuth
func (e *JudgeController) getParticipantViewHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		galaId, ok := intParam(c, "gala_id")
		if !ok {
			return
		}
		galaCategoryId, ok := intParam(c, "gala_category_id")
		if !ok {
			return
		}
		participantId, ok := intParam(c, "participant_id")
		if !ok {
			return
		}
		view, err := e.judgeService.GetParticipantView(c, getCaller(c), galaId, galaCategoryId, participantId)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, toParticipantViewResponse(view))
	}
}

// @id UpdateNote
// @Description Records the judge's value and/or comment for a question. Absent fields keep their stored value.
// @Tags judge
// @Accept json
// @Produce json
// @Param gala_id path int true "Gala Id"
// @Param gala_category_id path int true "Gala Category Id"
// @Param participant_id path int true "Participant Id"
// @Param question_id path int true "Question Id"
// @Param body body NoteUpdate true "Note fields"
// @Success 200 {object} NoteResponse
// @Router /judge/galas/{gala_id}/categories/{gala_category_id}/participants/{participant_id}/questions/{question_id} [patch]
// @Security BearerAuth
func (e *JudgeController) updateNoteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		galaId, ok := intParam(c, "gala_id")
		if !ok {
			return
		}
		galaCategoryId, ok := intParam(c, "gala_category_id")
		if !ok {
			return
		}
		participantId, ok := intParam(c, "participant_id")
		if !ok {
			return
		}
		questionId, ok := intParam(c, "question_id")
		if !ok {
			return
		}
		input, err := parseNoteUpdate(c)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		input.GalaId = galaId
		input.GalaCategoryId = galaCategoryId
		input.ParticipantId = participantId
		input.QuestionId = questionId

		snapshot, err := e.scoringService.UpsertNote(c, getCaller(c), input)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, toNoteResponse(snapshot))
	}
}

// @id SubmitGala
// @Description Finalizes the judge's scoring for a gala. Every assigned participant must be fully scored.
// @Tags judge
// @Produce json
// @Param gala_id path int true "Gala Id"
// @Success 201 {object} SubmissionResponse
// @Router /judge/galas/{gala_id}/submit [post]
// @Security BearerAuth
func (e *JudgeController) submitGalaHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		galaId, ok := intParam(c, "gala_id")
		if !ok {
			return
		}
		submission, err := e.scoringService.SubmitGala(c, getCaller(c), galaId)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, &SubmissionResponse{GalaId: submission.GalaId, SubmittedAt: submission.SubmittedAt})
	}
}

// @id SetFavorite
// @Description Sets the judge's favorite participant for the gala, replacing any previous pick
// @Tags judge
// @Accept json
// @Produce json
// @Param gala_id path int true "Gala Id"
// @Param body body FavoriteUpdate true "Favorite participant"
// @Success 200 {object} FavoriteResponse
// @Router /judge/galas/{gala_id}/favorite [put]
// @Security BearerAuth
func (e *JudgeController) setFavoriteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		galaId, ok := intParam(c, "gala_id")
		if !ok {
			return
		}
		var body FavoriteUpdate
		if err := c.ShouldBindJSON(&body); err != nil {
			app_error.Respond(c, app_error.Validation("participant_id is required"))
			return
		}
		favorite, err := e.scoringService.SetFavorite(c, getCaller(c), galaId, body.ParticipantId)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, &FavoriteResponse{
			GalaId:        favorite.GalaId,
			ParticipantId: &favorite.ParticipantId,
			CreatedAt:     &favorite.CreatedAt,
		})
	}
}

// @id ClearFavorite
// @Description Clears the judge's favorite for the gala
// @Tags judge
// @Param gala_id path int true "Gala Id"
// @Success 204
// @Router /judge/galas/{gala_id}/favorite [delete]
// @Security BearerAuth
func (e *JudgeController) clearFavoriteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		galaId, ok := intParam(c, "gala_id")
		if !ok {
			return
		}
		if _, err := e.scoringService.ClearFavorite(c, getCaller(c), galaId); err != nil {
			app_error.Respond(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// NoteUpdate documents the note payload. The handler reads it key by key so that an absent
// field and an explicit null can be told apart.
type NoteUpdate struct {
	Value               *float64 `json:"valeur"`
	Comment             *string  `json:"commentaire"`
	TargetParticipantId *int     `json:"target_participant_id"`
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

// parseNoteValue accepts a number, a numeric string, an empty string or null.
func parseNoteValue(raw json.RawMessage) (*float64, error) {
	if isNull(raw) {
		return nil, nil
	}
	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return &number, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, app_error.Validation("invalid note value")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	number, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, app_error.Validation("invalid note value")
	}
	return &number, nil
}

func parseNoteUpdate(c *gin.Context) (service.NoteInput, error) {
	input := service.NoteInput{}
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		return input, app_error.Validation("invalid request body")
	}
	if raw, ok := body["valeur"]; ok {
		value, err := parseNoteValue(raw)
		if err != nil {
			return input, err
		}
		input.Value = service.Optional[float64]{Set: true, Value: value}
	}
	if raw, ok := body["commentaire"]; ok {
		input.Comment = service.Optional[string]{Set: true}
		if !isNull(raw) {
			var comment string
			if err := json.Unmarshal(raw, &comment); err != nil {
				return input, app_error.Validation("invalid comment")
			}
			input.Comment.Value = &comment
		}
	}
	if raw, ok := body["target_participant_id"]; ok && !isNull(raw) {
		var target int
		if err := json.Unmarshal(raw, &target); err != nil {
			return input, app_error.Validation("invalid target participant")
		}
		input.TargetParticipantId = &target
	}
	return input, nil
}

type FavoriteUpdate struct {
	ParticipantId int `json:"participant_id" binding:"required"`
}

type FavoriteResponse struct {
	GalaId        int        `json:"gala_id" binding:"required"`
	ParticipantId *int       `json:"participant_id"`
	CreatedAt     *time.Time `json:"created_at"`
}

type SubmissionResponse struct {
	GalaId      int       `json:"gala_id" binding:"required"`
	SubmittedAt time.Time `json:"submitted_at" binding:"required"`
}

type JudgeCategoryResponse struct {
	Id            int                       `json:"id" binding:"required"`
	Name          string                    `json:"nom" binding:"required"`
	DisplayOrder  *int                      `json:"ordre_affichage"`
	IsNarrative   bool                      `json:"narratif" binding:"required"`
	QuestionCount int                       `json:"question_count" binding:"required"`
	Progress      *CategoryProgressResponse `json:"progress" binding:"required"`
}

type JudgeGalaResponse struct {
	GalaResponse
	Categories            []*JudgeCategoryResponse `json:"categories" binding:"required"`
	Percent               float64                  `json:"percent" binding:"required"`
	Recorded              int                      `json:"recorded" binding:"required"`
	Total                 int                      `json:"total" binding:"required"`
	Status                scoring.Status           `json:"status" binding:"required"`
	Locked                bool                     `json:"locked" binding:"required"`
	LockedAt              *time.Time               `json:"locked_at"`
	Submitted             bool                     `json:"submitted" binding:"required"`
	SubmittedAt           *time.Time               `json:"submitted_at"`
	FavoriteParticipantId *int                     `json:"favorite_participant_id"`
}

func toJudgeGalaResponse(gala *service.JudgeGalaProgress) *JudgeGalaResponse {
	return &JudgeGalaResponse{
		GalaResponse: *toGalaResponse(gala.Gala),
		Categories: utils.Map(gala.Categories, func(category *service.JudgeCategoryProgress) *JudgeCategoryResponse {
			return &JudgeCategoryResponse{
				Id:            category.GalaCategory.Id,
				Name:          category.GalaCategory.CategoryName(),
				DisplayOrder:  category.GalaCategory.DisplayOrder,
				IsNarrative:   category.GalaCategory.IsNarrative,
				QuestionCount: category.QuestionCount,
				Progress:      toCategoryProgressResponse(category.Progress),
			}
		}),
		Percent:               gala.Progress.Percent,
		Recorded:              gala.Progress.Recorded,
		Total:                 gala.Progress.Total,
		Status:                gala.Progress.Status,
		Locked:                gala.Lock != nil,
		LockedAt:              lockedAt(gala.Lock),
		Submitted:             gala.Submission != nil,
		SubmittedAt:           submittedAt(gala.Submission),
		FavoriteParticipantId: gala.FavoriteParticipantId,
	}
}

type ParticipantEntryResponse struct {
	Id         int               `json:"id" binding:"required"`
	Company    *CompanyResponse  `json:"compagnie" binding:"required"`
	Progress   *ProgressResponse `json:"progress" binding:"required"`
	IsFavorite bool              `json:"is_favorite" binding:"required"`
}

type CategoryParticipantsResponse struct {
	Gala          *GalaResponse               `json:"gala" binding:"required"`
	CategoryId    int                         `json:"gala_categorie_id" binding:"required"`
	CategoryName  string                      `json:"categorie" binding:"required"`
	QuestionCount int                         `json:"question_count" binding:"required"`
	Participants  []*ParticipantEntryResponse `json:"participants" binding:"required"`
	Progress      *CategoryProgressResponse   `json:"progress" binding:"required"`
	Locked        bool                        `json:"locked" binding:"required"`
	Submitted     bool                        `json:"submitted" binding:"required"`
}

func toCategoryParticipantsResponse(participants *service.CategoryParticipants) *CategoryParticipantsResponse {
	return &CategoryParticipantsResponse{
		Gala:          toGalaResponse(participants.Gala),
		CategoryId:    participants.GalaCategory.Id,
		CategoryName:  participants.GalaCategory.CategoryName(),
		QuestionCount: participants.QuestionCount,
		Participants: utils.Map(participants.Participants, func(entry *service.ParticipantProgressEntry) *ParticipantEntryResponse {
			return &ParticipantEntryResponse{
				Id:         entry.Participant.Id,
				Company:    toCompanyResponse(entry.Participant.Company),
				Progress:   toParticipantProgressResponse(entry.Progress),
				IsFavorite: entry.IsFavorite,
			}
		}),
		Progress:  toCategoryProgressResponse(participants.Progress),
		Locked:    participants.Locked,
		Submitted: participants.Submitted,
	}
}

type QuestionViewResponse struct {
	Id                 int      `json:"id" binding:"required"`
	Order              int      `json:"ordre" binding:"required"`
	Text               string   `json:"texte" binding:"required"`
	Weight             float64  `json:"ponderation" binding:"required"`
	Value              *float64 `json:"note"`
	Comment            *string  `json:"commentaire"`
	Source             *string  `json:"source"`
	Shared             bool     `json:"shared" binding:"required"`
	ScopeParticipantId int      `json:"scope_participant_id" binding:"required"`
	CountsForProgress  bool     `json:"counts_for_progress" binding:"required"`
}

type ViewProgressResponse struct {
	Percent   float64 `json:"percent" binding:"required"`
	Completed int     `json:"completed" binding:"required"`
	Total     int     `json:"total" binding:"required"`
	Extra     int     `json:"extra" binding:"required"`
}

type ParticipantViewResponse struct {
	Gala         *GalaResponse           `json:"gala" binding:"required"`
	CategoryId   int                     `json:"gala_categorie_id" binding:"required"`
	CategoryName string                  `json:"categorie" binding:"required"`
	Id           int                     `json:"id" binding:"required"`
	Company      *CompanyResponse        `json:"compagnie" binding:"required"`
	Questions    []*QuestionViewResponse `json:"questions" binding:"required"`
	Progress     *ViewProgressResponse   `json:"progress" binding:"required"`
	Locked       bool                    `json:"locked" binding:"required"`
	Submitted    bool                    `json:"submitted" binding:"required"`
	IsFavorite   bool                    `json:"is_favorite" binding:"required"`
}

func toQuestionViewResponse(view *scoring.QuestionView) *QuestionViewResponse {
	return &QuestionViewResponse{
		Id:                 view.QuestionId,
		Order:              view.Order,
		Text:               view.Text,
		Weight:             view.Weight,
		Value:              view.Value,
		Comment:            view.Comment,
		Source:             view.Source,
		Shared:             view.Shared,
		ScopeParticipantId: view.ScopeParticipantId,
		CountsForProgress:  view.CountsForProgress,
	}
}

func toParticipantViewResponse(view *service.ParticipantView) *ParticipantViewResponse {
	return &ParticipantViewResponse{
		Gala:         toGalaResponse(view.Gala),
		CategoryId:   view.GalaCategory.Id,
		CategoryName: view.GalaCategory.CategoryName(),
		Id:           view.Participant.Id,
		Company:      toCompanyResponse(view.Participant.Company),
		Questions:    utils.Map(view.Questions, toQuestionViewResponse),
		Progress: &ViewProgressResponse{
			Percent:   view.Progress.Percent,
			Completed: view.Progress.Completed,
			Total:     view.Progress.Total,
			Extra:     view.Progress.Extra,
		},
		Locked:     view.Locked,
		Submitted:  view.Submitted,
		IsFavorite: view.IsFavorite,
	}
}

type NoteResponse struct {
	Value               *float64          `json:"valeur"`
	Comment             *string           `json:"commentaire"`
	TargetParticipantId int               `json:"target_participant_id" binding:"required"`
	SavedAt             time.Time         `json:"saved_at" binding:"required"`
	Progress            *ProgressResponse `json:"progress" binding:"required"`
}

func toNoteResponse(snapshot *service.NoteSnapshot) *NoteResponse {
	return &NoteResponse{
		Value:               snapshot.Note.Value,
		Comment:             snapshot.Note.Comment,
		TargetParticipantId: snapshot.TargetParticipantId,
		SavedAt:             snapshot.Note.UpdatedAt,
		Progress:            toParticipantProgressResponse(snapshot.Progress),
	}
}
