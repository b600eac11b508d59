package models

import (
	"encoding/json"
	"fmt"
)

type PlanRequest struct {
	BrandURL             string  `json:"brand_url"`
	CompetitorURL        string  `json:"competitor_url"`
	ServiceLocations     string  `json:"service_locations"`
	SearchAdsBudget      float64 `json:"search_ads_budget"`
	ShoppingAdsBudget    float64 `json:"shopping_ads_budget"`
	PMaxAdsBudget        float64 `json:"pmax_ads_budget"`
	AverageProductPrice  float64 `json:"average_product_price"`
	TargetROASPercentage float64 `json:"target_roas_percentage"`
}

type AdGroup struct {
	Name                string   `json:"ad_group_name"`
	Theme               string   `json:"theme"`
	Keywords            []string `json:"keywords"`
	SuggestedMatchTypes []string `json:"suggested_match_types"`
	SuggestedCPCRange   string   `json:"suggested_cpc_range"`
}

type SearchCampaignPlan struct {
	AdGroups []AdGroup `json:"ad_groups"`
}

type PMaxPlan struct {
	SearchThemes []string `json:"search_themes"`
}

// punteros: distinguir número ausente de 0
type ShoppingCampaignPlan struct {
	TargetCPA          *float64 `json:"target_cpa"`
	SuggestedTargetCPC *float64 `json:"suggested_target_cpc"`
	Explanation        string   `json:"explanation"`
}

// sección nil = nada que renderizar (no es error)
type PlanResponse struct {
	SearchCampaignPlan   *SearchCampaignPlan   `json:"search_campaign_plan,omitempty"`
	PMaxPlan             *PMaxPlan             `json:"pmax_plan,omitempty"`
	ShoppingCampaignPlan *ShoppingCampaignPlan `json:"shopping_campaign_plan,omitempty"`
}

const (
	SectionSearch   = "search_campaign_plan"
	SectionPMax     = "pmax_plan"
	SectionShopping = "shopping_campaign_plan"
)

type DroppedSection struct {
	Key    string
	Reason string
}

// BodyKey identifica en DroppedSection un body JSON que no es objeto.
const BodyKey = "body"

// DecodePlanResponse parsea el body como JSON y decodifica cada sección por separado.
// Una sección con forma inválida queda nil y se reporta en dropped, sin tumbar la respuesta.
// JSON válido que no es objeto ([...], "ok", 42) da un plan vacío; solo un body
// que no es JSON devuelve error.
func DecodePlanResponse(body []byte) (*PlanResponse, []DroppedSection, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		var v any
		if json.Unmarshal(body, &v) == nil {
			return &PlanResponse{}, []DroppedSection{{Key: BodyKey, Reason: fmt.Sprintf("plan response is a JSON %s, not an object", jsonKind(v))}}, nil
		}
		return nil, nil, fmt.Errorf("decode plan response: %w", err)
	}

	out := &PlanResponse{}
	var dropped []DroppedSection

	if raw, ok := present(top, SectionSearch); ok {
		var s SearchCampaignPlan
		if err := json.Unmarshal(raw, &s); err != nil {
			dropped = append(dropped, DroppedSection{Key: SectionSearch, Reason: err.Error()})
		} else {
			out.SearchCampaignPlan = &s
		}
	}
	if raw, ok := present(top, SectionPMax); ok {
		var p PMaxPlan
		if err := json.Unmarshal(raw, &p); err != nil {
			dropped = append(dropped, DroppedSection{Key: SectionPMax, Reason: err.Error()})
		} else {
			out.PMaxPlan = &p
		}
	}
	if raw, ok := present(top, SectionShopping); ok {
		var sh ShoppingCampaignPlan
		switch err := json.Unmarshal(raw, &sh); {
		case err != nil:
			dropped = append(dropped, DroppedSection{Key: SectionShopping, Reason: err.Error()})
		case sh.TargetCPA == nil || sh.SuggestedTargetCPC == nil:
			dropped = append(dropped, DroppedSection{Key: SectionShopping, Reason: "missing target_cpa or suggested_target_cpc"})
		default:
			out.ShoppingCampaignPlan = &sh
		}
	}
	return out, dropped, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	}
	return "value"
}

// existe y no es null
func present(top map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := top[key]
	if !ok || string(raw) == "null" {
		return nil, false
	}
	return raw, true
}
