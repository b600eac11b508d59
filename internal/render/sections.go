package render

import (
	"fmt"
	"strings"

	"github.com/AngelCh415/sem_planner/internal/models"
)

type Kind string

const (
	SearchCampaign Kind = "search_campaign"
	PMaxThemes     Kind = "pmax_themes"
	ShoppingBid    Kind = "shopping_bid"
)

type Table struct {
	Header []string
	Rows   [][]string
}

type Metric struct {
	Label string
	Value string
	Note  string
}

// Section es un entregable listo para pintar. Solo se llena el cuerpo de su Kind.
type Section struct {
	Kind  Kind
	Title string
	Intro string

	Table       *Table   // SearchCampaign
	Items       []string // PMaxThemes
	Metrics     []Metric // ShoppingBid
	Explanation string   // ShoppingBid
}

const ResultsTitle = "Your Generated SEM Plan"

var searchHeader = []string{"Ad Group", "Theme", "Keywords", "Match Types", "Suggested CPC Range"}

// Sections mapea una respuesta a sus secciones en orden fijo (search, pmax, shopping).
// Cada una se evalúa por separado: si falta, no se pinta nada para ella.
func Sections(resp *models.PlanResponse) []Section {
	if resp == nil {
		return nil
	}
	var out []Section
	if s, ok := searchSection(resp.SearchCampaignPlan); ok {
		out = append(out, s)
	}
	if s, ok := pmaxSection(resp.PMaxPlan); ok {
		out = append(out, s)
	}
	if s, ok := shoppingSection(resp.ShoppingCampaignPlan); ok {
		out = append(out, s)
	}
	return out
}

func searchSection(p *models.SearchCampaignPlan) (Section, bool) {
	if p == nil || p.AdGroups == nil {
		return Section{}, false
	}
	rows := make([][]string, 0, len(p.AdGroups))
	for _, g := range p.AdGroups {
		rows = append(rows, []string{
			g.Name,
			g.Theme,
			JoinList(g.Keywords),
			JoinList(g.SuggestedMatchTypes),
			g.SuggestedCPCRange,
		})
	}
	return Section{
		Kind:  SearchCampaign,
		Title: "Deliverable 1: Search Campaign Structure",
		Table: &Table{Header: append([]string(nil), searchHeader...), Rows: rows},
	}, true
}

func pmaxSection(p *models.PMaxPlan) (Section, bool) {
	if p == nil || p.SearchThemes == nil {
		return Section{}, false
	}
	return Section{
		Kind:  PMaxThemes,
		Title: "Deliverable 2: Performance Max Search Themes",
		Intro: "Use these themes as signals in your PMax asset groups to guide Google's AI towards your most valuable customer queries.",
		Items: append([]string{}, p.SearchThemes...),
	}, true
}

func shoppingSection(p *models.ShoppingCampaignPlan) (Section, bool) {
	if p == nil || p.TargetCPA == nil || p.SuggestedTargetCPC == nil {
		return Section{}, false
	}
	return Section{
		Kind:  ShoppingBid,
		Title: "Deliverable 3: Shopping Campaign Bid Strategy",
		Intro: "This data-driven bid suggestion is calculated to align with your profitability goals.",
		Metrics: []Metric{
			{Label: "Target CPA", Value: Money(*p.TargetCPA), Note: "Max cost per sale to meet ROAS goal."},
			{Label: "Suggested Target CPC", Value: Money(*p.SuggestedTargetCPC), Note: "Recommended bid per click."},
		},
		Explanation: p.Explanation,
	}, true
}

// Money: dos decimales exactos con prefijo de moneda.
func Money(v float64) string { return fmt.Sprintf("$%.2f", v) }

// JoinList respeta el orden del servidor; sin ordenar ni deduplicar.
func JoinList(items []string) string { return strings.Join(items, ", ") }
