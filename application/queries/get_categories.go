package queries

// GetCategoriesQuery asks for every category known to the store
type GetCategoriesQuery struct{}

// Validate validates the GetCategoriesQuery
func (q GetCategoriesQuery) Validate() error {
	return nil
}

// CategoriesList is the public categories payload
type CategoriesList struct {
	Categories []string `json:"categories"`
}
