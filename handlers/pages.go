package handlers

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"fittrack-dashboard/dashboard"
	"fittrack-dashboard/insights"
	"fittrack-dashboard/meals"
	"fittrack-dashboard/models"
	"fittrack-dashboard/tmpl"
)

// Validation banners, keyed by the ?error= code a failed form redirects with.
var formErrors = map[string]string{
	"activity": "Please fill all fields",
	"meal":     "Please fill meal name and calories",
}

var activityFilters = []string{"all", "morning", "afternoon", "evening"}

// MealColumn is one slot on the meals page.
type MealColumn struct {
	Slot     models.Slot
	Title    string
	Entries  []string
	Calories int
}

// PageData is the template data shared by every page.
type PageData struct {
	View      View
	Nav       []View
	Today     string
	Error     string
	CSRFField template.HTML
	State     *models.AppState

	// overview
	Overview insights.OverviewSummary

	// activity
	Activity []models.ActivityRecord
	Filter   string
	Filters  []string
	Periods  []models.Period

	// meals
	MealColumns       []MealColumn
	TotalMealCalories int

	// insights
	Weekly     insights.WeeklySummary
	Chart      template.HTML
	ChartName  string
	ExportName string
}

// HandleView renders the page named by the {view} path variable.
func (d *Deps) HandleView(w http.ResponseWriter, r *http.Request) {
	view, ok := ResolveView(mux.Vars(r)["view"])
	if !ok {
		http.NotFound(w, r)
		return
	}

	st := sessionFrom(r).Snapshot()
	data := PageData{
		View:      view,
		Nav:       views,
		Today:     d.now().Format("Monday, Jan 2"),
		Error:     formErrors[r.URL.Query().Get("error")],
		CSRFField: csrf.TemplateField(r),
		State:     st,
	}

	switch view.Name {
	case "overview":
		data.Overview = insights.Overview(st)
	case "activity":
		data.Filter = r.URL.Query().Get("period")
		if data.Filter == "" {
			data.Filter = "all"
		}
		data.Filters = activityFilters
		data.Periods = models.Periods
		data.Activity = filterActivity(st.Activity, data.Filter)
	case "meals":
		for _, slot := range models.Slots {
			data.MealColumns = append(data.MealColumns, MealColumn{
				Slot:     slot,
				Title:    tmpl.Capitalize(string(slot)),
				Entries:  *st.Meals.Entries(slot),
				Calories: meals.SumCalories(&st.Meals, slot),
			})
		}
		data.TotalMealCalories = meals.TotalCalories(&st.Meals)
	case "insights":
		data.Weekly = insights.Weekly(st)
		renderer := d.Charts.Current()
		data.Chart = renderer.WeeklyCalories(st.Weekly.CaloriesBurned)
		data.ChartName = renderer.Name()
		data.ExportName = dashboard.ExportFilename(d.ExportPrefix, d.now())
	}

	d.render(w, view.Name+".html", data)
}

func filterActivity(all []models.ActivityRecord, filter string) []models.ActivityRecord {
	if filter == "" || filter == "all" {
		return all
	}
	var out []models.ActivityRecord
	for _, a := range all {
		if string(a.Period) == filter {
			out = append(out, a)
		}
	}
	return out
}

// HandleAddActivityForm adds an activity from the activity page form.
func (d *Deps) HandleAddActivityForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "activity", "activity")
		return
	}
	in := dashboard.ActivityInput{
		Name:     r.PostForm.Get("name"),
		Period:   models.Period(r.PostForm.Get("period")),
		Duration: formInt(r.PostForm.Get("duration")),
		Calories: formInt(r.PostForm.Get("calories")),
	}
	if _, err := sessionFrom(r).AddActivity(in); err != nil {
		d.Log.Debug("activity rejected", zap.Error(err))
		redirectWithError(w, r, "activity", "activity")
		return
	}
	http.Redirect(w, r, "/activity", http.StatusSeeOther)
}

func (d *Deps) HandleDeleteActivityForm(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).DeleteActivity(mux.Vars(r)["id"])
	http.Redirect(w, r, "/activity", http.StatusSeeOther)
}

// HandleAddMealForm adds a meal from the meals page form.
func (d *Deps) HandleAddMealForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "meals", "meal")
		return
	}
	slot := models.Slot(r.PostForm.Get("slot"))
	if slot == "" {
		slot = models.Breakfast
	}
	err := sessionFrom(r).AddMeal(slot, r.PostForm.Get("name"), formInt(r.PostForm.Get("calories")))
	if err != nil {
		d.Log.Debug("meal rejected", zap.Error(err))
		redirectWithError(w, r, "meals", "meal")
		return
	}
	http.Redirect(w, r, "/meals", http.StatusSeeOther)
}

// HandleRemoveMealForm deletes one meal entry. A stale index is ignored.
func (d *Deps) HandleRemoveMealForm(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if index, err := strconv.Atoi(vars["index"]); err == nil {
		sessionFrom(r).RemoveMeal(models.Slot(vars["slot"]), index)
	}
	http.Redirect(w, r, "/meals", http.StatusSeeOther)
}

// HandleResetForm restores the defaults and returns to the page it came from.
func (d *Deps) HandleResetForm(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).Reset()
	view, ok := ResolveView(r.FormValue("view"))
	if !ok {
		view, _ = ResolveView("")
	}
	http.Redirect(w, r, "/"+view.Name, http.StatusSeeOther)
}

// HandleExport serves the full state as a JSON download.
func (d *Deps) HandleExport(w http.ResponseWriter, r *http.Request) {
	name, body, err := sessionFrom(r).Export(d.ExportPrefix)
	if err != nil {
		d.internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Write(body)
}

func redirectWithError(w http.ResponseWriter, r *http.Request, view, code string) {
	http.Redirect(w, r, "/"+view+"?error="+url.QueryEscape(code), http.StatusSeeOther)
}

// formInt reads a numeric form field; anything unparseable counts as 0.
func formInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func (d *Deps) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := d.Templates.ExecuteTemplate(&buf, name, data); err != nil {
		d.internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// internalError logs the real error and returns a generic message.
func (d *Deps) internalError(w http.ResponseWriter, err error) {
	d.Log.Error("internal error", zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
