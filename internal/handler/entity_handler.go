package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/guardforce-admin/internal/form"
	"github.com/noah-isme/guardforce-admin/internal/models"
	"github.com/noah-isme/guardforce-admin/internal/notify"
	"github.com/noah-isme/guardforce-admin/internal/service"
	"github.com/noah-isme/guardforce-admin/internal/store"
	"github.com/noah-isme/guardforce-admin/internal/workspace"
	appErrors "github.com/noah-isme/guardforce-admin/pkg/errors"
	"github.com/noah-isme/guardforce-admin/pkg/response"
)

const contextEntityKey = "entity"

// reserved list query keys; every other key is a field filter
var listKeys = map[string]struct{}{
	"page": {}, "per_page": {}, "search": {}, "sort": {}, "order": {}, "include": {},
}

// EntityHandler serves the list, form and transition endpoints of every workspace entity.
type EntityHandler struct {
	notifier notify.Notifier
	exports  *service.ExportService
}

// NewEntityHandler constructs an entity handler. Form notifications are also sent to notifier.
func NewEntityHandler(notifier notify.Notifier, exports *service.ExportService) *EntityHandler {
	return &EntityHandler{notifier: notifier, exports: exports}
}

// Bind pins the entity served by a route group.
func (h *EntityHandler) Bind(e workspace.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextEntityKey, e)
		c.Next()
	}
}

func entityFrom(c *gin.Context) workspace.Entity {
	e, _ := c.MustGet(contextEntityKey).(workspace.Entity)
	return e
}

// List godoc
// @Summary List records
// @Description Fetch a page into the entity container. Unreserved query keys filter by field.
// @Tags Entities
// @Produce json
// @Param entity path string true "Resource, e.g. duties"
// @Param page query int false "Page"
// @Param per_page query int false "Page size"
// @Param search query string false "Free-text search"
// @Param sort query string false "Sort field"
// @Param order query string false "asc or desc"
// @Param include query string false "Comma separated relations"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /{entity} [get]
func (h *EntityHandler) List(c *gin.Context) {
	e := entityFrom(c)
	items, page, err := e.List(c.Request.Context(), listParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, &page)
}

// State godoc
// @Summary Container snapshot
// @Tags Entities
// @Produce json
// @Param entity path string true "Resource"
// @Success 200 {object} response.Envelope
// @Router /{entity}/state [get]
func (h *EntityHandler) State(c *gin.Context) {
	e := entityFrom(c)
	response.JSON(c, http.StatusOK, e.State(), nil, map[string]interface{}{"actions": e.Actions()})
}

// ClearError godoc
// @Summary Clear the container error
// @Tags Entities
// @Param entity path string true "Resource"
// @Success 204
// @Router /{entity}/state/error [delete]
func (h *EntityHandler) ClearError(c *gin.Context) {
	entityFrom(c).ClearError()
	response.NoContent(c)
}

// Lookup godoc
// @Summary Typeahead options
// @Description Empty q returns the dialog-open page. Other query keys scope the options.
// @Tags Entities
// @Produce json
// @Param entity path string true "Resource"
// @Param q query string false "Search text"
// @Success 200 {object} response.Envelope
// @Router /{entity}/lookup [get]
func (h *EntityHandler) Lookup(c *gin.Context) {
	scope := map[string]string{}
	for key, values := range c.Request.URL.Query() {
		if key == "q" || len(values) == 0 || strings.TrimSpace(values[0]) == "" {
			continue
		}
		scope[key] = values[0]
	}
	items, err := entityFrom(c).Lookup(c.Request.Context(), c.Query("q"), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Export godoc
// @Summary Export the loaded page
// @Tags Entities
// @Produce octet-stream
// @Param entity path string true "Resource"
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /{entity}/export [get]
func (h *EntityHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnsupported, "Exports are disabled."))
		return
	}
	e := entityFrom(c)
	result, err := h.exports.Export(e.Name(), c.DefaultQuery("format", "csv"), e.Items())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("X-Export-Id", result.StoredAs)
	response.Attachment(c, result.FileName, result.ContentType, result.Body)
}

// Get godoc
// @Summary Get one record
// @Tags Entities
// @Produce json
// @Param entity path string true "Resource"
// @Param id path int true "Record ID"
// @Param include query string false "Comma separated relations"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /{entity}/{id} [get]
func (h *EntityHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rec, err := entityFrom(c).Get(c.Request.Context(), id, splitList(c.QueryArray("include")))
	if err != nil {
		respondError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}

// Create godoc
// @Summary Submit the create form
// @Tags Entities
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param entity path string true "Resource"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /{entity} [post]
func (h *EntityHandler) Create(c *gin.Context) {
	h.submit(c, 0)
}

// Update godoc
// @Summary Submit the edit form
// @Description Fields omitted from the body keep the stored values.
// @Tags Entities
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param entity path string true "Resource"
// @Param id path int true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /{entity}/{id} [put]
func (h *EntityHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.submit(c, id)
}

// notifications returns a per-request recorder fanned out to the shared notifier.
func (h *EntityHandler) notifications() (*notify.Recorder, notify.Notifier) {
	recorder := notify.NewRecorder(false)
	if h.notifier == nil {
		return recorder, recorder
	}
	return recorder, notify.Multi{recorder, h.notifier}
}

func (h *EntityHandler) submit(c *gin.Context, id int64) {
	recorder, n := h.notifications()

	rec, err := entityFrom(c).Submit(c.Request.Context(), id, func(values interface{}) error {
		if c.Request.ContentLength == 0 {
			return nil
		}
		return c.ShouldBind(values)
	}, n)

	meta := map[string]interface{}{"notifications": recorder.Notifications()}
	if err != nil {
		respondError(c, err, meta)
		return
	}
	if id == 0 {
		response.Created(c, rec, meta)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil, meta)
}

// Delete godoc
// @Summary Delete a record
// @Tags Entities
// @Param entity path string true "Resource"
// @Param id path int true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /{entity}/{id} [delete]
func (h *EntityHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	e := entityFrom(c)
	recorder, n := h.notifications()
	ctx := c.Request.Context()
	if err := e.Delete(ctx, id); err != nil {
		n.Error(ctx, "Error", appErrors.Message(err, "Failed to delete "+e.Label()+". Please try again."))
		respondError(c, err, map[string]interface{}{"notifications": recorder.Notifications()})
		return
	}
	n.Success(ctx, "Success", capitalize(e.Label())+" deleted successfully")
	response.JSON(c, http.StatusOK, gin.H{"id": id}, nil, map[string]interface{}{"notifications": recorder.Notifications()})
}

// Transition godoc
// @Summary Apply a domain action
// @Description Status toggles, check-in/check-out and visibility changes.
// @Tags Entities
// @Accept json
// @Produce json
// @Param entity path string true "Resource"
// @Param id path int true "Record ID"
// @Param action path string true "Action, e.g. status"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 501 {object} response.Envelope
// @Router /{entity}/{id}/{action} [post]
func (h *EntityHandler) Transition(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	payload := map[string]interface{}{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, appErrors.ErrBadRequest.Status, "invalid payload"))
			return
		}
	}
	e := entityFrom(c)
	recorder, n := h.notifications()
	ctx := c.Request.Context()
	rec, err := e.Transition(ctx, id, c.Param("action"), payload)
	if err != nil {
		var verr *form.ValidationError
		if !errors.As(err, &verr) && !errors.Is(err, appErrors.ErrUnsupported) && !errors.Is(err, appErrors.ErrValidation) {
			n.Error(ctx, "Error", appErrors.Message(err, "Failed to update "+e.Label()+" status. Please try again."))
		}
		respondError(c, err, map[string]interface{}{"notifications": recorder.Notifications()})
		return
	}
	n.Success(ctx, "Success", capitalize(e.Label())+" updated successfully")
	response.JSON(c, http.StatusOK, rec, nil, map[string]interface{}{"notifications": recorder.Notifications()})
}

func listParams(c *gin.Context) models.ListParams {
	params := models.ListParams{
		Search:  c.Query("search"),
		Sort:    c.Query("sort"),
		Order:   c.Query("order"),
		Include: splitList(c.QueryArray("include")),
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		params.Page = page
	}
	if size, err := strconv.Atoi(c.Query("per_page")); err == nil {
		params.PerPage = size
	}
	for key, values := range c.Request.URL.Query() {
		if _, reserved := listKeys[key]; reserved || len(values) == 0 {
			continue
		}
		params = params.WithFilter(key, values[0])
	}
	return params
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "invalid id"))
		return 0, false
	}
	return id, true
}

// respondError maps form and container outcomes onto the envelope.
func respondError(c *gin.Context, err error, meta ...map[string]interface{}) {
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error(c, &appErrors.Error{
			Code:    appErrors.ErrValidation.Code,
			Status:  appErrors.ErrValidation.Status,
			Message: "Please correct the highlighted fields.",
			Fields:  verr.Fields,
		}, meta...)
	case errors.Is(err, store.ErrStale):
		response.Error(c, appErrors.Clone(appErrors.ErrConflict, "A newer request superseded this one."), meta...)
	case errors.Is(err, form.ErrBusy):
		response.Error(c, appErrors.Clone(appErrors.ErrConflict, "A submission is already in progress."), meta...)
	case errors.Is(err, form.ErrClosed):
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "The form is not open."), meta...)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, http.StatusGatewayTimeout, "The request was cancelled."), meta...)
	default:
		response.Error(c, err, meta...)
	}
}
