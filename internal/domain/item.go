package domain

type ItemStatus string

const (
	ItemStatusListed   ItemStatus = "listed"
	ItemStatusUnlisted ItemStatus = "unlisted"
)

type Item struct {
	ID                 int32      `json:"id"`
	OwnerID            int32      `json:"owner_id"`
	Owner              *User      `json:"owner,omitempty"` // Populated when fetching item details
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Category           string     `json:"category"`
	DailyPriceCents    int64      `json:"daily_price_cents"`
	DepositCents       int64      `json:"deposit_cents"`
	Photos             []string   `json:"photos"`
	Status             ItemStatus `json:"status"`
	CreatedOn          string     `json:"created_on"`
	UpdatedOn          string     `json:"updated_on"`
}
