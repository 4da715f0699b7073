package entity

// User is owned by the identity side of the platform. Orders only
// reference it, and reports print its name.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
