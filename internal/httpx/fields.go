package httpx

import (
	"net/url"

	"github.com/AngelCh415/sem_planner/internal/form"
	"github.com/AngelCh415/sem_planner/internal/models"
	"github.com/AngelCh415/sem_planner/internal/render"
)

func fieldsFor(v models.PlanRequest, verr *form.ValidationError) []render.FormField {
	values := form.StringValues(v)
	out := make([]render.FormField, 0, len(form.Fields))
	for _, f := range form.Fields {
		ff := render.FormField{Name: f.Name, Label: f.Label, Value: values[f.Name], Numeric: f.Numeric}
		if verr != nil {
			ff.Error = verr.For(f.Name)
		}
		out = append(out, ff)
	}
	return out
}

// unknownField devuelve el primer campo posteado que el formulario no conoce.
func unknownField(posted url.Values) (string, bool) {
	for name := range posted {
		known := false
		for _, f := range form.Fields {
			if f.Name == name {
				known = true
				break
			}
		}
		if !known {
			return name, true
		}
	}
	return "", false
}
