package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ID is a document identifier. Stored documents may carry ids as ObjectIDs
// or as plain hex strings; both decode to the hex form. Marshalling writes
// an ObjectID whenever the value parses as one, so round trips keep the
// native type in the database.
type ID string

func (id ID) String() string { return string(id) }

func (id ID) IsZero() bool { return id == "" }

// ObjectID parses the id, reporting whether it is syntactically valid.
func (id ID) ObjectID() (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	return oid, err == nil
}

func (id ID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if oid, ok := id.ObjectID(); ok {
		return bson.MarshalValue(oid)
	}
	return bson.MarshalValue(string(id))
}

func (id *ID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	if oid, ok := rv.ObjectIDOK(); ok {
		*id = ID(oid.Hex())
		return nil
	}
	if s, ok := rv.StringValueOK(); ok {
		*id = ID(s)
		return nil
	}
	// Unexpected shape: leave empty rather than failing the whole decode.
	*id = ""
	return nil
}

// refKeys are the wrapper keys reference lists have historically used.
var refKeys = []string{"recipeId", "chefId", "ingredientId", "commentId"}

// Ref is one entry of a reference list (favorites, followedChefs,
// recipeList, commentsList). Legacy documents mix bare ids with wrapper
// objects like {"recipeId": <id>}; every shape normalizes to the bare hex
// id on load. New writes always use the bare form.
type Ref string

func (r Ref) String() string { return string(r) }

func (r Ref) IsZero() bool { return r == "" }

func (r Ref) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if oid, err := primitive.ObjectIDFromHex(string(r)); err == nil {
		return bson.MarshalValue(oid)
	}
	return bson.MarshalValue(string(r))
}

func (r *Ref) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	if oid, ok := rv.ObjectIDOK(); ok {
		*r = Ref(oid.Hex())
		return nil
	}
	if s, ok := rv.StringValueOK(); ok {
		*r = Ref(s)
		return nil
	}
	if doc, ok := rv.DocumentOK(); ok {
		for _, key := range refKeys {
			v, err := doc.LookupErr(key)
			if err != nil {
				continue
			}
			if oid, ok := v.ObjectIDOK(); ok {
				*r = Ref(oid.Hex())
				return nil
			}
			if s, ok := v.StringValueOK(); ok {
				*r = Ref(s)
				return nil
			}
		}
	}
	*r = ""
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r))
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = Ref(s)
		return nil
	}
	var obj map[string]string
	if err := json.Unmarshal(data, &obj); err == nil {
		for _, key := range refKeys {
			if v, ok := obj[key]; ok {
				*r = Ref(v)
				return nil
			}
		}
	}
	*r = ""
	return nil
}

// Number is a float that tolerates the source data's sloppy typing:
// int32/int64/double, decimal128, and locale-formatted strings with a
// comma decimal separator all coerce; anything else degrades to 0.
type Number float64

func (n Number) Float() float64 { return float64(n) }

func (n *Number) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	*n = Number(coerceRawValue(rv))
	return nil
}

func (n Number) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(float64(n))
}

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number(coerceJSON(data))
	return nil
}

// Rate is an optional 1-5 comment rating. A missing, null, or
// non-coercible value leaves OK false and is excluded from rating math.
type Rate struct {
	Value float64
	OK    bool
}

func NewRate(v float64) Rate { return Rate{Value: v, OK: true} }

func (r Rate) IsZero() bool { return !r.OK }

func (r *Rate) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	if v, ok := coerceRawValueOK(rv); ok {
		*r = Rate{Value: v, OK: true}
	} else {
		*r = Rate{}
	}
	return nil
}

func (r Rate) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !r.OK {
		return bson.MarshalValue(primitive.Null{})
	}
	return bson.MarshalValue(r.Value)
}

func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.OK {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

func (r *Rate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = Rate{}
		return nil
	}
	if v, ok := coerceJSONOK(data); ok {
		*r = Rate{Value: v, OK: true}
	} else {
		*r = Rate{}
	}
	return nil
}

func coerceRawValue(rv bson.RawValue) float64 {
	v, _ := coerceRawValueOK(rv)
	return v
}

func coerceRawValueOK(rv bson.RawValue) (float64, bool) {
	if v, ok := rv.DoubleOK(); ok {
		return v, true
	}
	if v, ok := rv.Int32OK(); ok {
		return float64(v), true
	}
	if v, ok := rv.Int64OK(); ok {
		return float64(v), true
	}
	if d, ok := rv.Decimal128OK(); ok {
		return parseLocaleFloat(d.String())
	}
	if s, ok := rv.StringValueOK(); ok {
		return parseLocaleFloat(s)
	}
	return 0, false
}

func coerceJSON(data []byte) float64 {
	v, _ := coerceJSONOK(data)
	return v
}

func coerceJSONOK(data []byte) (float64, bool) {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return parseLocaleFloat(s)
	}
	return 0, false
}

// parseLocaleFloat accepts "12.5" and the comma form "12,5".
func parseLocaleFloat(s string) (float64, bool) {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
