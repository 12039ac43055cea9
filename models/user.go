package models

// User is an identity record. Users and chefs share the same shape but
// live in separate collections; email uniqueness holds per collection.
type User struct {
	ID       ID     `bson:"_id,omitempty" json:"-"`
	Nickname string `bson:"nickname,omitempty" json:"nickname,omitempty"`
	UserName string `bson:"user_name,omitempty" json:"user_name,omitempty"`
	Email    string `bson:"email" json:"email,omitempty"`
	Password string `bson:"password" json:"-"`
	Avatar   string `bson:"user_avatar,omitempty" json:"user_avatar,omitempty"`

	// Reference lists. Legacy data mixes bare ids and wrapper objects;
	// Ref normalizes both on load.
	Favorites     []Ref `bson:"favorites,omitempty" json:"-"`
	FollowedChefs []Ref `bson:"followedChefs,omitempty" json:"-"`
	RecipeList    []Ref `bson:"recipeList,omitempty" json:"-"`

	Followers int `bson:"followers,omitempty" json:"followers,omitempty"`
}

// DisplayName resolves the fallback chain nickname -> user_name -> email.
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	if u.UserName != "" {
		return u.UserName
	}
	return u.Email
}

// AvatarOrDefault substitutes def when no avatar is set.
func (u *User) AvatarOrDefault(def string) string {
	if u.Avatar != "" {
		return u.Avatar
	}
	return def
}
