package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type Recipe struct {
	ID           ID             `bson:"_id,omitempty" json:"_id"`
	ChefID       ID             `bson:"chefId" json:"chef_id"`
	Title        string         `bson:"title" json:"title"`
	Description  string         `bson:"description,omitempty" json:"description,omitempty"`
	Image        string         `bson:"image" json:"image"`
	Time         string         `bson:"time,omitempty" json:"time,omitempty"`
	Difficulty   int            `bson:"difficulty" json:"difficulty"`
	Tags         TagList        `bson:"tags,omitempty" json:"tags"`
	Ingredients  IngredientList `bson:"ingredients" json:"ingredients"`
	Steps        StepList       `bson:"preparationSteps" json:"preparationSteps"`
	CommentsList []Ref          `bson:"commentsList,omitempty" json:"-"`
	Rating       float64        `bson:"rating" json:"rating"`
	CreatedAt    time.Time      `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// RecipeIngredient is the stored form of one ingredient line: a reference
// plus a quantity. Nutrition detail is resolved at read time, never stored.
type RecipeIngredient struct {
	IngredientID ID     `bson:"ingredientId" json:"ingredient-id"`
	Quantity     Number `bson:"quantity" json:"quantity"`
}

// IngredientList tolerates a corrupt non-array ingredients field: anything
// that is not an array of documents degrades to an empty list instead of
// failing the whole recipe decode.
type IngredientList []RecipeIngredient

func (l *IngredientList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*l = IngredientList{}
	rv := bson.RawValue{Type: t, Value: data}
	arr, ok := rv.ArrayOK()
	if !ok {
		return nil
	}
	values, err := arr.Values()
	if err != nil {
		return nil
	}
	for _, v := range values {
		doc, ok := v.DocumentOK()
		if !ok {
			continue
		}
		var item RecipeIngredient
		if err := bson.Unmarshal(doc, &item); err != nil {
			continue
		}
		*l = append(*l, item)
	}
	return nil
}

// StepList tolerates a corrupt non-array preparationSteps field the same
// way.
type StepList []PrepStep

func (l *StepList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*l = StepList{}
	rv := bson.RawValue{Type: t, Value: data}
	arr, ok := rv.ArrayOK()
	if !ok {
		return nil
	}
	values, err := arr.Values()
	if err != nil {
		return nil
	}
	for _, v := range values {
		var step PrepStep
		if err := step.UnmarshalBSONValue(v.Type, v.Value); err != nil {
			continue
		}
		*l = append(*l, step)
	}
	return nil
}

// TagList tolerates a corrupt non-array tags field, keeping only string
// elements.
type TagList []string

func (l *TagList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*l = TagList{}
	rv := bson.RawValue{Type: t, Value: data}
	arr, ok := rv.ArrayOK()
	if !ok {
		return nil
	}
	values, err := arr.Values()
	if err != nil {
		return nil
	}
	for _, v := range values {
		if s, ok := v.StringValueOK(); ok {
			*l = append(*l, s)
		}
	}
	return nil
}

// PrepStep is one preparation step. Old documents store bare strings,
// newer ones objects with an optional photo; both decode into this.
type PrepStep struct {
	StepNumber  int    `bson:"stepNumber,omitempty" json:"stepNumber,omitempty"`
	Description string `bson:"description" json:"description"`
	Image       string `bson:"image,omitempty" json:"image,omitempty"`
}

func (s *PrepStep) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	if str, ok := rv.StringValueOK(); ok {
		*s = PrepStep{Description: str}
		return nil
	}
	if doc, ok := rv.DocumentOK(); ok {
		type plain PrepStep
		var p plain
		if err := bson.Unmarshal(doc, &p); err != nil {
			*s = PrepStep{}
			return nil
		}
		*s = PrepStep(p)
		return nil
	}
	*s = PrepStep{}
	return nil
}

func (s *PrepStep) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = PrepStep{Description: str}
		return nil
	}
	type plain PrepStep
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		*s = PrepStep{}
		return nil
	}
	*s = PrepStep(p)
	return nil
}
