package dto

type PlaceBidRequestDTO struct {
	Amount float64 `json:"amount" example:"105"`
}

type PlaceBidResponseDTO struct {
	ID        int     `json:"id" example:"1"`
	AuctionID int     `json:"auction_id" example:"1"`
	Amount    float64 `json:"amount" example:"105"`
	CreatedAt string  `json:"created_at" example:"2020-12-09T16:09:57+03:00"`
}

type GetMyBidsResponseDTO struct {
	AuctionID     int     `json:"auction_id" example:"1"`
	AuctionTitle  string  `json:"auction_title"`
	AuctionStatus string  `json:"auction_status" example:"active"`
	Amount        float64 `json:"amount" example:"105"`
	CurrentPrice  float64 `json:"current_price" example:"120"`
	CreatedAt     string  `json:"created_at" example:"2020-12-09T16:09:57+03:00"`
	TimeLeft      int     `json:"time_left" example:"3600"`
	IsHighest     bool    `json:"is_highest" example:"false"`
	IsWinner      bool    `json:"is_winner" example:"false"`
}
