package entity

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CategoryInput is the payload for creating or replacing a category.
type CategoryInput struct {
	Name string `json:"name"`
}
