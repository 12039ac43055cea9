package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIDDecodesObjectIDAndString(t *testing.T) {
	oid := primitive.NewObjectID()
	raw, err := bson.Marshal(bson.M{"a": oid, "b": oid.Hex(), "c": 42})
	require.NoError(t, err)

	var doc struct {
		A ID `bson:"a"`
		B ID `bson:"b"`
		C ID `bson:"c"`
	}
	require.NoError(t, bson.Unmarshal(raw, &doc))

	assert.Equal(t, ID(oid.Hex()), doc.A)
	assert.Equal(t, ID(oid.Hex()), doc.B)
	assert.Equal(t, ID(""), doc.C, "unexpected shape degrades to empty")
}

func TestIDMarshalsHexAsObjectID(t *testing.T) {
	oid := primitive.NewObjectID()
	raw, err := bson.Marshal(bson.M{"id": ID(oid.Hex())})
	require.NoError(t, err)

	got := bson.Raw(raw).Lookup("id")
	gotOID, ok := got.ObjectIDOK()
	require.True(t, ok, "hex-valid ids must store as native ObjectIDs")
	assert.Equal(t, oid, gotOID)
}

func TestRefNormalizesEveryStoredShape(t *testing.T) {
	oid := primitive.NewObjectID()
	raw, err := bson.Marshal(bson.M{
		"refs": bson.A{
			oid,
			oid.Hex(),
			bson.M{"recipeId": oid},
			bson.M{"chefId": oid.Hex()},
			bson.M{"commentId": oid},
			bson.M{"unknownKey": oid.Hex()},
		},
	})
	require.NoError(t, err)

	var doc struct {
		Refs []Ref `bson:"refs"`
	}
	require.NoError(t, bson.Unmarshal(raw, &doc))

	want := Ref(oid.Hex())
	require.Len(t, doc.Refs, 6)
	assert.Equal(t, want, doc.Refs[0])
	assert.Equal(t, want, doc.Refs[1])
	assert.Equal(t, want, doc.Refs[2])
	assert.Equal(t, want, doc.Refs[3])
	assert.Equal(t, want, doc.Refs[4])
	assert.Equal(t, Ref(""), doc.Refs[5])
}

func TestRefJSONShapes(t *testing.T) {
	var refs []Ref
	raw := `["656e1f77bcf86cd799439011",{"ingredientId":"656e1f77bcf86cd799439012"},7]`
	require.NoError(t, json.Unmarshal([]byte(raw), &refs))

	require.Len(t, refs, 3)
	assert.Equal(t, Ref("656e1f77bcf86cd799439011"), refs[0])
	assert.Equal(t, Ref("656e1f77bcf86cd799439012"), refs[1])
	assert.Equal(t, Ref(""), refs[2])
}

func TestNumberCoercion(t *testing.T) {
	d128, err := primitive.ParseDecimal128("2.5")
	require.NoError(t, err)
	raw, err := bson.Marshal(bson.M{
		"double":  12.5,
		"int32":   int32(7),
		"int64":   int64(9),
		"dec":     d128,
		"dot":     "12.5",
		"comma":   "12,5",
		"garbage": "twelve",
		"doc":     bson.M{"x": 1},
	})
	require.NoError(t, err)

	var doc struct {
		Double  Number `bson:"double"`
		Int32   Number `bson:"int32"`
		Int64   Number `bson:"int64"`
		Dec     Number `bson:"dec"`
		Dot     Number `bson:"dot"`
		Comma   Number `bson:"comma"`
		Garbage Number `bson:"garbage"`
		Doc     Number `bson:"doc"`
	}
	require.NoError(t, bson.Unmarshal(raw, &doc))

	assert.Equal(t, 12.5, doc.Double.Float())
	assert.Equal(t, 7.0, doc.Int32.Float())
	assert.Equal(t, 9.0, doc.Int64.Float())
	assert.Equal(t, 2.5, doc.Dec.Float())
	assert.Equal(t, 12.5, doc.Dot.Float())
	assert.Equal(t, 12.5, doc.Comma.Float())
	assert.Equal(t, 0.0, doc.Garbage.Float())
	assert.Equal(t, 0.0, doc.Doc.Float())
}

func TestRateDistinguishesAbsentFromInvalid(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"valid":  4,
		"str":    "3,5",
		"junk":   "x",
		"isnull": nil,
	})
	require.NoError(t, err)

	var doc struct {
		Valid   Rate `bson:"valid"`
		Str     Rate `bson:"str"`
		Junk    Rate `bson:"junk"`
		IsNull  Rate `bson:"isnull"`
		Missing Rate `bson:"missing"`
	}
	require.NoError(t, bson.Unmarshal(raw, &doc))

	assert.Equal(t, NewRate(4), doc.Valid)
	assert.Equal(t, NewRate(3.5), doc.Str)
	assert.False(t, doc.Junk.OK)
	assert.False(t, doc.IsNull.OK)
	assert.False(t, doc.Missing.OK)
}

func TestRateJSONRoundTrip(t *testing.T) {
	out, err := json.Marshal(struct {
		A Rate `json:"a"`
		B Rate `json:"b"`
	}{A: NewRate(4.5), B: Rate{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":4.5,"b":null}`, string(out))

	var got struct {
		A Rate `json:"a"`
		B Rate `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":4.5,"b":null}`), &got))
	assert.Equal(t, NewRate(4.5), got.A)
	assert.False(t, got.B.OK)
}

func TestPrepStepDecodesBareStringAndObject(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"steps": bson.A{
			"Chop the onions",
			bson.M{"stepNumber": 2, "description": "Fry gently", "image": "/img/fry.png"},
		},
	})
	require.NoError(t, err)

	var doc struct {
		Steps []PrepStep `bson:"steps"`
	}
	require.NoError(t, bson.Unmarshal(raw, &doc))

	require.Len(t, doc.Steps, 2)
	assert.Equal(t, PrepStep{Description: "Chop the onions"}, doc.Steps[0])
	assert.Equal(t, PrepStep{StepNumber: 2, Description: "Fry gently", Image: "/img/fry.png"}, doc.Steps[1])
}

func TestPrepStepJSON(t *testing.T) {
	var steps []PrepStep
	raw := `["Mix", {"description":"Bake","image":"/img/bake.png"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &steps))

	require.Len(t, steps, 2)
	assert.Equal(t, "Mix", steps[0].Description)
	assert.Equal(t, "Bake", steps[1].Description)
}

func TestRecipeDecodesCorruptListFields(t *testing.T) {
	oid := primitive.NewObjectID()
	raw, err := bson.Marshal(bson.M{
		"_id":              oid,
		"title":            "Broken Doc",
		"ingredients":      "oops",
		"preparationSteps": 5,
		"tags":             bson.M{"x": 1},
	})
	require.NoError(t, err)

	var rec Recipe
	require.NoError(t, bson.Unmarshal(raw, &rec), "corrupt list fields must degrade, not fail the decode")

	assert.Equal(t, "Broken Doc", rec.Title)
	assert.Empty(t, rec.Ingredients)
	assert.Empty(t, rec.Steps)
	assert.Empty(t, rec.Tags)
}

func TestRecipeListFieldsSkipGarbageElements(t *testing.T) {
	ingOID := primitive.NewObjectID()
	raw, err := bson.Marshal(bson.M{
		"ingredients": bson.A{
			bson.M{"ingredientId": ingOID, "quantity": 200},
			"not-a-document",
		},
		"preparationSteps": bson.A{"Mix", 42, bson.M{"description": "Bake"}},
		"tags":             bson.A{"vegan", 7, "quick"},
	})
	require.NoError(t, err)

	var rec Recipe
	require.NoError(t, bson.Unmarshal(raw, &rec))

	require.Len(t, rec.Ingredients, 1)
	assert.Equal(t, ID(ingOID.Hex()), rec.Ingredients[0].IngredientID)
	assert.Equal(t, 200.0, rec.Ingredients[0].Quantity.Float())

	require.Len(t, rec.Steps, 3)
	assert.Equal(t, "Mix", rec.Steps[0].Description)
	assert.Equal(t, "", rec.Steps[1].Description, "non-decodable step degrades to empty")
	assert.Equal(t, "Bake", rec.Steps[2].Description)

	assert.Equal(t, TagList{"vegan", "quick"}, rec.Tags)
}

func TestDisplayNameFallbackChain(t *testing.T) {
	assert.Equal(t, "nick", (&User{Nickname: "nick", UserName: "uname", Email: "e@x"}).DisplayName())
	assert.Equal(t, "uname", (&User{UserName: "uname", Email: "e@x"}).DisplayName())
	assert.Equal(t, "e@x", (&User{Email: "e@x"}).DisplayName())
}

func TestIngredientNameFallback(t *testing.T) {
	assert.Equal(t, "Flour", (&Ingredient{IngredientName: "Flour", LegacyName: "old"}).Name())
	assert.Equal(t, "old", (&Ingredient{LegacyName: "old"}).Name())
	assert.Equal(t, "", (&Ingredient{}).Name())
}
