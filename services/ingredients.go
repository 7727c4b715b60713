package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"food-reels-server/models"
)

// rawIngredient accepts both the {item, quantity} and {name, quantity} shapes;
// quantity may arrive as a string or a number.
type rawIngredient struct {
	Item     string          `json:"item"`
	Name     string          `json:"name"`
	Quantity json.RawMessage `json:"quantity"`
}

// NormalizeIngredients decodes a JSON array of ingredients into the stored shape.
func NormalizeIngredients(raw string) ([]models.Ingredient, error) {
	var items []rawIngredient
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	out := make([]models.Ingredient, 0, len(items))
	for i, it := range items {
		name := strings.TrimSpace(it.Item)
		if name == "" {
			name = strings.TrimSpace(it.Name)
		}
		qty, err := quantityString(it.Quantity)
		if err != nil {
			return nil, fmt.Errorf("ingredient %d: %w", i, err)
		}
		out = append(out, models.Ingredient{Name: name, Quantity: qty})
	}
	return out, nil
}

func quantityString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("quantity must be a string or number")
	}
	return strconv.FormatFloat(n, 'f', -1, 64), nil
}

// parseStringList reads a JSON string array, falling back to a comma-separated list.
func parseStringList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	var parts []string
	if err := json.Unmarshal([]byte(raw), &parts); err != nil {
		parts = strings.Split(raw, ",")
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
