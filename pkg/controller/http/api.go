package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jeetu-ai/jeetu/pkg/domain/model"
	"github.com/jeetu-ai/jeetu/pkg/domain/types"
	"github.com/jeetu-ai/jeetu/pkg/usecase"
	"github.com/jeetu-ai/jeetu/pkg/utils/errutil"
	"github.com/jeetu-ai/jeetu/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

const maxBodySize = 1 << 20

type apiHandler struct {
	uc *usecase.UseCases
}

type userMessageRequest struct {
	Text      string `json:"text"`
	MemoID    string `json:"memo_id"`
	MemoTitle string `json:"memo_title"`
	Origin    string `json:"origin"`
}

type groupMessageRequest struct {
	AuthorID   string         `json:"author_id"`
	AuthorName string         `json:"author_name"`
	Text       string         `json:"text"`
	Members    []model.Member `json:"members"`
}

type completeRequest struct {
	UserName string `json:"user_name"`
}

type actionsResponse struct {
	Actions []*model.ActionItem `json:"actions"`
}

type tasksResponse struct {
	Tasks []*model.SharedTask `json:"tasks"`
}

type sweepResponse struct {
	Sent int `json:"sent"`
}

func (h *apiHandler) postUserMessage(w http.ResponseWriter, r *http.Request) {
	var req userMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	origin, err := types.ParseOrigin(req.Origin)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid origin"), http.StatusBadRequest)
		return
	}

	result, err := h.uc.Extractor.ProcessMessage(r.Context(), chi.URLParam(r, "userID"), req.Text, &usecase.MessageContext{
		MemoID:    req.MemoID,
		MemoTitle: req.MemoTitle,
		Origin:    origin,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (h *apiHandler) listActions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")
	query := r.URL.Query()

	var (
		items []*model.ActionItem
		err   error
	)
	switch {
	case query.Get("memo_id") != "":
		items, err = h.uc.Lifecycle.GetByMemo(ctx, userID, query.Get("memo_id"))
	case query.Get("view") == "" || query.Get("view") == "pending":
		items, err = h.uc.Lifecycle.GetPending(ctx, userID)
	case query.Get("view") == "all":
		items, err = h.uc.Lifecycle.GetAll(ctx, userID)
	default:
		errutil.HandleHTTP(ctx, w, goerr.New("unknown view", goerr.V("view", query.Get("view"))), http.StatusBadRequest)
		return
	}
	if err != nil {
		handleError(w, r, err)
		return
	}

	if items == nil {
		items = []*model.ActionItem{}
	}
	writeJSON(w, r, http.StatusOK, actionsResponse{Actions: items})
}

func (h *apiHandler) actionStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.uc.Lifecycle.Stats(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (h *apiHandler) completeAction(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if !decodeOptionalBody(w, r, &req) {
		return
	}

	result, err := h.uc.Action.Complete(r.Context(),
		chi.URLParam(r, "userID"),
		req.UserName,
		model.ActionItemID(chi.URLParam(r, "actionID")))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (h *apiHandler) cancelAction(w http.ResponseWriter, r *http.Request) {
	item, err := h.uc.Action.Cancel(r.Context(),
		chi.URLParam(r, "userID"),
		model.ActionItemID(chi.URLParam(r, "actionID")))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

func (h *apiHandler) deleteAction(w http.ResponseWriter, r *http.Request) {
	err := h.uc.Action.Delete(r.Context(),
		chi.URLParam(r, "userID"),
		model.ActionItemID(chi.URLParam(r, "actionID")))
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *apiHandler) postGroupMessage(w http.ResponseWriter, r *http.Request) {
	var req groupMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	outcome, err := h.uc.Group.HandleMessage(r.Context(), usecase.GroupMessageInput{
		SessionID:  chi.URLParam(r, "sessionID"),
		AuthorID:   req.AuthorID,
		AuthorName: req.AuthorName,
		Text:       req.Text,
		Members:    req.Members,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, outcome)
}

func (h *apiHandler) listSharedTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.uc.GroupTask.SharedTasks(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []*model.SharedTask{}
	}
	writeJSON(w, r, http.StatusOK, tasksResponse{Tasks: tasks})
}

func (h *apiHandler) sweepReminders(w http.ResponseWriter, r *http.Request) {
	sent, err := h.uc.GroupTask.CheckAndSendReminders(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sweepResponse{Sent: sent})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	return decodeJSON(w, r, v, false)
}

// decodeOptionalBody accepts an empty body and leaves v untouched
func decodeOptionalBody(w http.ResponseWriter, r *http.Request, v any) bool {
	return decodeJSON(w, r, v, true)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return false
	}
	if optional && len(bytes.TrimSpace(body)) == 0 {
		return true
	}
	if err := json.Unmarshal(body, v); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid JSON body"), http.StatusBadRequest)
		return false
	}
	return true
}

// handleError maps use case errors to HTTP status codes
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, usecase.ErrActionNotFound), errors.Is(err, usecase.ErrSharedTaskNotFound):
		status = http.StatusNotFound
	}
	errutil.HandleHTTP(r.Context(), w, err, status)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}
