package controller

import (
	"net/http"

	"gala/app_error"
	"gala/repository"
	"gala/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminController struct {
	resultService *service.ResultService
	lockService   *service.LockService
	galaService   *service.GalaService
	hub           *ResultsHub
}

func NewAdminController(db *gorm.DB, dispatcher *service.Dispatcher, results *service.ResultsCache) *AdminController {
	resultService := service.NewResultService(db, results)
	return &AdminController{
		resultService: resultService,
		lockService:   service.NewLockService(db, dispatcher),
		galaService:   service.NewGalaService(db, dispatcher),
		hub:           NewResultsHub(resultService),
	}
}

func setupAdminController(db *gorm.DB, dispatcher *service.Dispatcher, results *service.ResultsCache) []RouteInfo {
	e := NewAdminController(db, dispatcher, results)
	basePath := "/admin"
	questionPath := "/galas/:gala_id/categories/:gala_category_id/questions"
	routes := []RouteInfo{
		{Method: "GET", Path: "/results", HandlerFunc: e.getResultsHandler()},
		{Method: "GET", Path: "/results/ws", HandlerFunc: e.hub.WebSocketHandler},
		{Method: "GET", Path: "/galas", HandlerFunc: e.getGalasHandler()},
		{Method: "PATCH", Path: "/galas/:gala_id", HandlerFunc: e.updateGalaHandler()},
		{Method: "POST", Path: "/galas/:gala_id/lock", HandlerFunc: e.lockGalaHandler()},
		{Method: "DELETE", Path: "/galas/:gala_id/lock", HandlerFunc: e.unlockGalaHandler()},
		{Method: "POST", Path: questionPath, HandlerFunc: e.createQuestionHandler()},
		{Method: "PATCH", Path: questionPath + "/:question_id", HandlerFunc: e.updateQuestionHandler()},
		{Method: "DELETE", Path: questionPath + "/:question_id", HandlerFunc: e.deleteQuestionHandler()},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
		routes[i].Authenticated = true
		routes[i].RoleRequired = []repository.Role{repository.RoleAdmin}
	}
	return routes
}

// @id GetResults
// @Description Ranked results of a gala with category and judge progress
// @Tags admin
// @Produce json
// @Param gala_id query int true "Gala Id"
// @Param categorie_id query int false "Gala Category Id"
// @Success 200 {object} service.Results
// @Router /admin/results [get]
// @Security BearerAuth
func (e *AdminController) getResultsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		galaId, ok := optionalIntQuery(c, "gala_id")
		if !ok {
			return
		}
		if galaId == nil {
			app_error.Respond(c, app_error.Validation("gala_id is required"))
			return
		}
		categoryId, ok := optionalIntQuery(c, "categorie_id")
		if !ok {
			return
		}
		results, err := e.resultService.GetResults(c, getCaller(c), *galaId, categoryId)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

// @id GetAdminGalas
// @Description Lists galas with their lock state and number of judge submissions
// @Tags admin
// @Produce json
// @Success 200 {array} GalaSummaryResponse
// @Router /admin/galas [get]
// @Security BearerAuth
func (e *AdminController) getGalasHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		galas, err := e.galaService.ListGalas(c, getCaller(c))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, toGalaSummaryResponses(galas))
	}
}

// @id UpdateGala
// @Description Updates a gala's details. Refused while the gala is locked.
// @Tags admin
// @Accept json
// @Produce json
// @Param gala_id path int true "Gala Id"
// @Param body body GalaUpdate true "Gala fields"
// @Success 200 {object} GalaResponse
// @Router /admin/galas/{gala_id} [patch]
// @Security BearerAuth
func (e *AdminController) updateGalaHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		galaId, ok := intParam(c, "gala_id")
		if !ok {
			return
		}
		var body GalaUpdate
		if err := c.ShouldBindJSON(&body); err != nil {
			app_error.Respond(c, app_error.Validation("invalid request body"))
			return
		}
		gala, err := e.galaService.UpdateGala(c, getCaller(c), galaId, service.GalaUpdate{
			Name:  body.Name,
			Year:  body.Year,
			Venue: body.Venue,
			Date:  body.Date,
		})
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, toGalaResponse(gala))
	}
}

// @id LockGala
// @Description Locks a gala. No judge can change notes, favorites or submissions until it is unlocked.
// @Tags admin
// @Produce json
// @Param gala_id path int true "Gala Id"
// @Success 201 {object} GalaLockResponse
// @Router /admin/galas/{gala_id}/lock [post]
// @Security BearerAuth
func (e *AdminController) lockGalaHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		galaId, ok := intParam(c, "gala_id")
		if !ok {
			return
		}
		lock, err := e.lockService.LockGala(c, getCaller(c), galaId)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, toGalaLockResponse(lock))
	}
}

// @id UnlockGala
// @Description Unlocks a gala
// @Tags admin
// @Param gala_id path int true "Gala Id"
// @Success 204
// @Router /admin/galas/{gala_id}/lock [delete]
// @Security BearerAuth
func (e *AdminController) unlockGalaHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		galaId, ok := intParam(c, "gala_id")
		if !ok {
			return
		}
		if err := e.lockService.UnlockGala(c, getCaller(c), galaId); err != nil {
			app_error.Respond(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @id CreateQuestion
// @Description Adds a question to a gala category
// @Tags admin
// @Accept json
// @Produce json
// @Param gala_id path int true "Gala Id"
// @Param gala_category_id path int true "Gala Category Id"
// @Param body body QuestionUpdate true "Question"
// @Success 201 {object} QuestionResponse
// @Router /admin/galas/{gala_id}/categories/{gala_category_id}/questions [post]
// @Security BearerAuth
func (e *AdminController) createQuestionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		galaId, ok := intParam(c, "gala_id")
		if !ok {
			return
		}
		galaCategoryId, ok := intParam(c, "gala_category_id")
		if !ok {
			return
		}
		var body QuestionUpdate
		if err := c.ShouldBindJSON(&body); err != nil {
			app_error.Respond(c, app_error.Validation("invalid request body"))
			return
		}
		question, err := e.galaService.CreateQuestion(c, getCaller(c), galaId, galaCategoryId, body.toInput())
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, toQuestionResponse(question))
	}
}

// @id UpdateQuestion
// @Description Updates a question's text or weight
// @Tags admin
// @Accept json
// @Produce json
// @Param gala_id path int true "Gala Id"
// @Param gala_category_id path int true "Gala Category Id"
// @Param question_id path int true "Question Id"
// @Param body body QuestionUpdate true "Question fields"
// @Success 200 {object} QuestionResponse
// @Router /admin/galas/{gala_id}/categories/{gala_category_id}/questions/{question_id} [patch]
// @Security BearerAuth
func (e *AdminController) updateQuestionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		galaId, ok := intParam(c, "gala_id")
		if !ok {
			return
		}
		galaCategoryId, ok := intParam(c, "gala_category_id")
		if !ok {
			return
		}
		questionId, ok := intParam(c, "question_id")
		if !ok {
			return
		}
		var body QuestionUpdate
		if err := c.ShouldBindJSON(&body); err != nil {
			app_error.Respond(c, app_error.Validation("invalid request body"))
			return
		}
		question, err := e.galaService.UpdateQuestion(c, getCaller(c), galaId, galaCategoryId, questionId, body.toInput())
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, toQuestionResponse(question))
	}
}

// @id DeleteQuestion
// @Description Deletes a question and the notes recorded against it
// @Tags admin
// @Param gala_id path int true "Gala Id"
// @Param gala_category_id path int true "Gala Category Id"
// @Param question_id path int true "Question Id"
// @Success 204
// @Router /admin/galas/{gala_id}/categories/{gala_category_id}/questions/{question_id} [delete]
// @Security BearerAuth
func (e *AdminController) deleteQuestionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		galaId, ok := intParam(c, "gala_id")
		if !ok {
			return
		}
		galaCategoryId, ok := intParam(c, "gala_category_id")
		if !ok {
			return
		}
		questionId, ok := intParam(c, "question_id")
		if !ok {
			return
		}
		if err := e.galaService.DeleteQuestion(c, getCaller(c), galaId, galaCategoryId, questionId); err != nil {
			app_error.Respond(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type GalaUpdate struct {
	Name  *string `json:"nom"`
	Year  *int    `json:"annee"`
	Venue *string `json:"lieu"`
	Date  *string `json:"date_gala"`
}

type QuestionUpdate struct {
	Text   *string  `json:"texte"`
	Weight *float64 `json:"ponderation"`
}

func (q *QuestionUpdate) toInput() service.QuestionInput {
	return service.QuestionInput{Text: q.Text, Weight: q.Weight}
}

type QuestionResponse struct {
	Id             int     `json:"id" binding:"required"`
	GalaCategoryId int     `json:"gala_categorie_id" binding:"required"`
	Text           string  `json:"texte" binding:"required"`
	Weight         float64 `json:"ponderation" binding:"required"`
}

func toQuestionResponse(question *repository.Question) *QuestionResponse {
	return &QuestionResponse{
		Id:             question.Id,
		GalaCategoryId: question.GalaCategoryId,
		Text:           question.Text,
		Weight:         question.Weight,
	}
}
