package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"fittrack-dashboard/dashboard"
	"fittrack-dashboard/insights"
	"fittrack-dashboard/models"
)

// HandleGetState returns the session's full state.
func (d *Deps) HandleGetState(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, sessionFrom(r).Snapshot())
}

// HandleGetInsights returns the derived overview and weekly metrics.
func (d *Deps) HandleGetInsights(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r).Snapshot()
	jsonOK(w, map[string]any{
		"overview": insights.Overview(st),
		"weekly":   insights.Weekly(st),
	})
}

func (d *Deps) HandleCreateActivity(w http.ResponseWriter, r *http.Request) {
	var in dashboard.ActivityInput
	if err := strictDecode(r, &in); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	rec, err := sessionFrom(r).AddActivity(in)
	if errors.Is(err, dashboard.ErrInvalidActivity) {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		d.internalError(w, err)
		return
	}
	jsonStatus(w, http.StatusCreated, rec)
}

func (d *Deps) HandleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	if !sessionFrom(r).DeleteActivity(mux.Vars(r)["id"]) {
		jsonError(w, "Activity not found", http.StatusNotFound)
		return
	}
	jsonOK(w, map[string]any{"success": true})
}

// CreateMealRequest is the JSON body for adding a meal.
type CreateMealRequest struct {
	Slot     models.Slot `json:"slot"`
	Name     string      `json:"name"`
	Calories int         `json:"calories"`
}

func (d *Deps) HandleCreateMeal(w http.ResponseWriter, r *http.Request) {
	var req CreateMealRequest
	if err := strictDecode(r, &req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	sess := sessionFrom(r)
	if err := sess.AddMeal(req.Slot, req.Name, req.Calories); err != nil {
		if errors.Is(err, dashboard.ErrInvalidMeal) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		d.internalError(w, err)
		return
	}
	st := sess.Snapshot()
	jsonStatus(w, http.StatusCreated, map[string]any{"slot": req.Slot, "entries": *st.Meals.Entries(req.Slot)})
}

func (d *Deps) HandleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	index, err := strconv.Atoi(vars["index"])
	if err != nil || !sessionFrom(r).RemoveMeal(models.Slot(vars["slot"]), index) {
		jsonError(w, "Meal not found", http.StatusNotFound)
		return
	}
	jsonOK(w, map[string]any{"success": true})
}

func (d *Deps) HandleResetAPI(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Reset()
	jsonOK(w, sess.Snapshot())
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func jsonOK(w http.ResponseWriter, v any) {
	jsonStatus(w, http.StatusOK, v)
}

func jsonStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	jsonStatus(w, status, map[string]string{"error": msg})
}
