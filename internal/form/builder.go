package form

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/AngelCh415/sem_planner/internal/models"
	"golang.org/x/net/publicsuffix"
)

type Field struct {
	Name    string // clave JSON del request
	Label   string
	Numeric bool
}

// Orden en que se muestran en el formulario.
var Fields = []Field{
	{Name: "brand_url", Label: "Your Website URL"},
	{Name: "competitor_url", Label: "Competitor's Website URL"},
	{Name: "service_locations", Label: "Service Locations"},
	{Name: "average_product_price", Label: "Average Product Price ($)", Numeric: true},
	{Name: "target_roas_percentage", Label: "Target ROAS (%)", Numeric: true},
	{Name: "search_ads_budget", Label: "Search Ads", Numeric: true},
	{Name: "shopping_ads_budget", Label: "Shopping Ads", Numeric: true},
	{Name: "pmax_ads_budget", Label: "Performance Max", Numeric: true},
}

func Defaults() models.PlanRequest {
	return models.PlanRequest{
		BrandURL:             "https://www.allbirds.com",
		CompetitorURL:        "https://www.rothys.com",
		ServiceLocations:     "USA",
		SearchAdsBudget:      5000,
		ShoppingAdsBudget:    7000,
		PMaxAdsBudget:        8000,
		AverageProductPrice:  110,
		TargetROASPercentage: 400,
	}
}

// Builder guarda la configuración editable del usuario. No hace llamadas de red.
type Builder struct {
	mu sync.Mutex
	v  models.PlanRequest
}

func NewBuilder() *Builder { return &Builder{v: Defaults()} }

// Set aplica la edición de un campo: numéricos via ParseFloat (inválido -> NaN,
// lo rechaza Build), texto tal cual.
func (b *Builder) Set(field, raw string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch field {
	case "brand_url":
		b.v.BrandURL = raw
	case "competitor_url":
		b.v.CompetitorURL = raw
	case "service_locations":
		b.v.ServiceLocations = raw
	case "search_ads_budget":
		b.v.SearchAdsBudget = parseNumber(raw)
	case "shopping_ads_budget":
		b.v.ShoppingAdsBudget = parseNumber(raw)
	case "pmax_ads_budget":
		b.v.PMaxAdsBudget = parseNumber(raw)
	case "average_product_price":
		b.v.AverageProductPrice = parseNumber(raw)
	case "target_roas_percentage":
		b.v.TargetROASPercentage = parseNumber(raw)
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

func (b *Builder) Values() models.PlanRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.v
}

// Build devuelve un PlanRequest completo o *ValidationError. Las reglas de negocio
// quedan del lado del servicio.
func (b *Builder) Build() (models.PlanRequest, error) {
	req := b.Values()
	if err := validateRequest(req); err != nil {
		return models.PlanRequest{}, err
	}
	return req, nil
}

func parseNumber(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// FormatNumber es el inverso de parseNumber para re-pintar el formulario.
func FormatNumber(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// StringValues devuelve los valores por nombre de campo, como se muestran en un input.
func StringValues(v models.PlanRequest) map[string]string {
	return map[string]string{
		"brand_url":              v.BrandURL,
		"competitor_url":         v.CompetitorURL,
		"service_locations":      v.ServiceLocations,
		"search_ads_budget":      FormatNumber(v.SearchAdsBudget),
		"shopping_ads_budget":    FormatNumber(v.ShoppingAdsBudget),
		"pmax_ads_budget":        FormatNumber(v.PMaxAdsBudget),
		"average_product_price":  FormatNumber(v.AverageProductPrice),
		"target_roas_percentage": FormatNumber(v.TargetROASPercentage),
	}
}

// BrandLabel devuelve el dominio registrable de rawURL (www.allbirds.com -> allbirds.com).
func BrandLabel(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	host := strings.ToLower(u.Hostname())
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	return host
}
