package models

// Ingredient is read-only reference data: canonical name, unit, and
// nutrition per 100 units.
type Ingredient struct {
	ID                    ID     `bson:"_id,omitempty" json:"_id"`
	IngredientName        string `bson:"ingredientName,omitempty" json:"-"`
	LegacyName            string `bson:"name,omitempty" json:"-"`
	Unit                  string `bson:"unit,omitempty" json:"unit"`
	Calories              Number `bson:"calories,omitempty" json:"calories"`
	Protein               Number `bson:"protein,omitempty" json:"protein"`
	Carbs                 Number `bson:"carbs,omitempty" json:"carbs"`
	Fats                  Number `bson:"fats,omitempty" json:"fats"`
	ScientificDescription string `bson:"scientificDescription,omitempty" json:"scientificDescription,omitempty"`
}

// Name prefers the canonical ingredientName over the legacy name field.
// Callers substitute their own fallback when both are empty.
func (i *Ingredient) Name() string {
	if i.IngredientName != "" {
		return i.IngredientName
	}
	return i.LegacyName
}
