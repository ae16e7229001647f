package web

import (
	"bytes"
	"embed"
	"html/template"
	"math"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
	"github.com/danielgonzalesarce/holocron/internal/domain/services"
)

//go:embed templates/*.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// genderOptions lists the gender filter choices in display order.
var genderOptions = []option{
	{Value: "", Label: "All genders"},
	{Value: "male", Label: "Male"},
	{Value: "female", Label: "Female"},
	{Value: "n/a", Label: "N/A"},
	{Value: "hermaphrodite", Label: "Hermaphrodite"},
}

type option struct {
	Value string
	Label string
}

type filterView struct {
	Name      string
	Gender    string
	MinMass   string
	MinHeight string
}

type cardView struct {
	Name      string
	Image     string
	Gender    string
	BirthYear string
	Mass      string
	Height    string
	HairColor string
	EyeColor  string
}

type pageView struct {
	Filters  filterView
	Genders  []option
	Cards    []cardView
	Showing  int
	Total    int
	Loading  bool
	Err      string
	Filtered bool
}

func newPageView(state services.State) pageView {
	v := pageView{
		Filters: filterView{
			Name:      state.Criteria.NameQuery,
			Gender:    state.Criteria.Gender,
			MinMass:   formatThreshold(state.Criteria.MinMass),
			MinHeight: formatThreshold(state.Criteria.MinHeight),
		},
		Genders:  genderOptions,
		Cards:    make([]cardView, 0, len(state.Visible)),
		Showing:  len(state.Visible),
		Total:    len(state.All),
		Loading:  state.Loading,
		Err:      state.Err,
		Filtered: !state.Criteria.IsEmpty(),
	}
	for _, e := range state.Visible {
		v.Cards = append(v.Cards, newCardView(e))
	}
	return v
}

// newCardView hides attributes that hold sentinel values.
func newCardView(e entities.Entity) cardView {
	gender := e.Gender
	if gender == "" {
		gender = "N/A"
	}
	return cardView{
		Name:      e.Name,
		Image:     e.ImageURL,
		Gender:    gender,
		BirthYear: e.BirthYear,
		Mass:      entities.DisplayValue(e.Mass),
		Height:    entities.DisplayValue(e.Height),
		HairColor: entities.DisplayValue(e.HairColor),
		EyeColor:  e.EyeColor,
	}
}

func formatThreshold(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func renderIndex(w http.ResponseWriter, logger *zap.Logger, view pageView) {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, view); err != nil {
		logger.Error("rendering index", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
