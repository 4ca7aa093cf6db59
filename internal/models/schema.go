package models

// All lists every table in creation order for AutoMigrate
func All() []interface{} {
	return []interface{}{
		&User{},
		&Follow{},
		&Post{},
		&Comment{},
		&PostLike{},
		&CommentLike{},
	}
}
