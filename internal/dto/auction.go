package dto

type CreateAuctionRequestDTO struct {
	Title         string   `json:"title" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	StartingPrice float64  `json:"starting_price" example:"100"`
	MinIncrement  float64  `json:"min_increment" example:"5"`
	EndTime       string   `json:"end_time" example:"2020-12-09T16:09:57+03:00"`
	Images        []string `json:"images,omitempty"`
}

type AuctionResponseDTO struct {
	ID            int      `json:"id" example:"1"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	StartingPrice float64  `json:"starting_price" example:"100"`
	CurrentPrice  float64  `json:"current_price" example:"105"`
	MinIncrement  float64  `json:"min_increment" example:"5"`
	EndTime       string   `json:"end_time" example:"2020-12-09T16:09:57+03:00"`
	Status        string   `json:"status" example:"active"`
	Images        []string `json:"images,omitempty"`
}

type AuctionListItemDTO struct {
	ID            int      `json:"id" example:"1"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	StartingPrice float64  `json:"starting_price" example:"100"`
	CurrentPrice  float64  `json:"current_price" example:"105"`
	MinIncrement  float64  `json:"min_increment" example:"5"`
	EndTime       string   `json:"end_time" example:"2020-12-09T16:09:57+03:00"`
	Status        string   `json:"status" example:"active"`
	Images        []string `json:"images,omitempty"`
	TimeLeft      int      `json:"time_left" example:"3600"`
	BidderCount   int      `json:"bidder_count" example:"3"`
}

type PaginationDTO struct {
	Page    int `json:"page" example:"1"`
	PerPage int `json:"per_page" example:"20"`
	Total   int `json:"total" example:"42"`
	Pages   int `json:"pages" example:"3"`
}

type ListAuctionsResponseDTO struct {
	Auctions   []AuctionListItemDTO `json:"auctions"`
	Pagination PaginationDTO        `json:"pagination"`
}

type CurrentBidderDTO struct {
	ID    int    `json:"id,omitempty" example:"5"`
	Login string `json:"login" example:"a***"`
}

type BidHistoryItemDTO struct {
	Amount    float64 `json:"amount" example:"105"`
	CreatedAt string  `json:"created_at" example:"2020-12-09T16:09:57+03:00"`
	Bidder    string  `json:"bidder" example:"a***"`
}

type AuctionDetailResponseDTO struct {
	ID            int                 `json:"id" example:"1"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	StartingPrice float64             `json:"starting_price" example:"100"`
	CurrentPrice  float64             `json:"current_price" example:"105"`
	MinIncrement  float64             `json:"min_increment" example:"5"`
	EndTime       string              `json:"end_time" example:"2020-12-09T16:09:57+03:00"`
	Status        string              `json:"status" example:"active"`
	Images        []string            `json:"images,omitempty"`
	TimeLeft      int                 `json:"time_left" example:"3600"`
	SellerID      int                 `json:"seller_id" example:"7"`
	CurrentBidder *CurrentBidderDTO   `json:"current_bidder,omitempty"`
	BidHistory    []BidHistoryItemDTO `json:"bid_history"`
}
