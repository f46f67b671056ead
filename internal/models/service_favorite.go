package models

type ServiceFavorite struct {
	ServiceID string `json:"service_id"`
	Liked     bool   `json:"liked"`
}

type FavoritesResponse struct {
	ServiceIDs []string  `json:"service_ids"`
	Services   []Service `json:"services"`
}
