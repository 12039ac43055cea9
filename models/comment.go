package models

import "time"

// Comment is a user's comment on a recipe, with the author's display
// fields cached at posting time and an optional 1-5 rating.
type Comment struct {
	ID          ID        `bson:"_id,omitempty" json:"_id"`
	RecipeID    ID        `bson:"recipeId" json:"recipe_id"`
	UserID      ID        `bson:"user_id" json:"user_id"`
	UserName    string    `bson:"user_name" json:"user_name"`
	UserAvatar  string    `bson:"user_avatar" json:"user_avatar"`
	Description string    `bson:"description" json:"description"`
	Rate        Rate      `bson:"rate,omitempty" json:"rate"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
