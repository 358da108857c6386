package places

type searchResponse struct {
	LocalResults []localResult `json:"local_results"`
}

type localResult struct {
	Title    string   `json:"title"`
	Category string   `json:"type"`
	Rating   *float64 `json:"rating"`
	Reviews  *int     `json:"reviews"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Website  string   `json:"website"`
	Address  string   `json:"address"`
	PlaceID  string   `json:"place_id"`
}
