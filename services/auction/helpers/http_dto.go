package helpers

// Request/Response DTOs
type CreateAuctionRequest struct {
	Title                 string `json:"title" binding:"required"`
	Description           string `json:"description"`
	Currency              string `json:"currency" binding:"required"`
	TotalItems            int    `json:"total_items"`
	RoundsCount           int    `json:"rounds_count" binding:"required,gt=0"`
	ItemsPerRound         int    `json:"items_per_round" binding:"required,gt=0"`
	StartTime             string `json:"start_time" binding:"required"`
	FirstRoundDurationSec int    `json:"first_round_duration_sec" binding:"required,gt=0"`
	RoundDurationSec      int    `json:"round_duration_sec" binding:"required,gt=0"`
	MinIncrement          string `json:"min_increment" binding:"required"`
	StartingPrice         string `json:"starting_price" binding:"required"`
	ReservePrice          string `json:"reserve_price"`
}

type UpdateAuctionRequest struct {
	Title                 *string `json:"title"`
	Description           *string `json:"description"`
	TotalItems            *int    `json:"total_items"`
	RoundsCount           *int    `json:"rounds_count"`
	ItemsPerRound         *int    `json:"items_per_round"`
	StartTime             *string `json:"start_time"`
	FirstRoundDurationSec *int    `json:"first_round_duration_sec"`
	RoundDurationSec      *int    `json:"round_duration_sec"`
	MinIncrement          *string `json:"min_increment"`
	StartingPrice         *string `json:"starting_price"`
	ReservePrice          *string `json:"reserve_price"`
}

type PlaceBidRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

type PlaceBidResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type PostChatRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
}

type CreditRequest struct {
	Currency string `json:"currency" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
}

type AuctionCreatedResponse struct {
	AuctionID string `json:"auction_id"`
	Status    string `json:"status"`
}

type UserResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
