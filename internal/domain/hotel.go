package domain

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Hotel struct {
	ID            int64        `json:"id"`
	NameEN        string       `json:"name_en"`
	NameAR        string       `json:"name_ar"`
	AddressEN     *string      `json:"address_en"`
	AddressAR     *string      `json:"address_ar"`
	DescriptionEN *string      `json:"description_en"`
	DescriptionAR *string      `json:"description_ar"`
	TypeID        int64        `json:"type_id"`
	ChainID       *int64       `json:"chain_id"`
	AreaID        int64        `json:"area_id"`
	Stars         *int         `json:"stars"`
	Rank          int          `json:"rank"`
	Status        string       `json:"status"`
	ThumbnailURL  *string      `json:"thumbnail_url"`
	ImageURL      *string      `json:"image_url"` // legacy single-image column
	Images        []HotelImage `json:"images"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// HotelImage entries live in a JSON column on the hotels row, not a child table.
type HotelImage struct {
	URL       string `json:"url"`
	IsPrimary bool   `json:"isPrimary"`
	SortOrder int    `json:"sortOrder"`
}

type Room struct {
	ID       int64         `json:"id"`
	HotelID  int64         `json:"hotel_id"`
	RoomType string        `json:"room_type"`
	Bedding  string        `json:"bedding"`
	View     string        `json:"view"`
	Images   []string      `json:"images"`
	Packages []RoomPackage `json:"packages"`
}

type RoomPackage struct {
	ID                 int64   `json:"id"`
	RoomID             int64   `json:"room_id"`
	MealBoard          string  `json:"meal_board"`
	CancellationPolicy string  `json:"cancellation_policy"`
	FirstPrice         float64 `json:"first_price"`
	BasePrice          float64 `json:"base_price"`
	AlmosaferPoints    float64 `json:"almosafer_points"`
	ShukranPoints      float64 `json:"shukran_points"`
}

// ReviewAggregate is one row per external review source, keyed (hotel_id, source).
type ReviewAggregate struct {
	ID            int64     `json:"id"`
	HotelID       int64     `json:"hotel_id"`
	Source        string    `json:"source"`
	AverageRating float64   `json:"average_rating"`
	TotalReviews  int       `json:"total_reviews"`
	LastUpdated   time.Time `json:"last_updated"`
}

type FAQ struct {
	ID         int64  `json:"id"`
	HotelID    int64  `json:"hotel_id"`
	QuestionEN string `json:"question_en"`
	QuestionAR string `json:"question_ar"`
	AnswerEN   string `json:"answer_en"`
	AnswerAR   string `json:"answer_ar"`
}

// Read models & queries

// NamedRef is the display shape of a referenced master-data row.
type NamedRef struct {
	ID     int64   `json:"id"`
	NameEN string  `json:"name_en"`
	NameAR *string `json:"name_ar,omitempty"`
}

// HotelDetail is a Hotel merged in application code with its related rows.
type HotelDetail struct {
	Hotel
	Type             *NamedRef         `json:"type"`
	Chain            *NamedRef         `json:"chain"`
	Area             *NamedRef         `json:"area"`
	AmenityIDs       []int64           `json:"amenities"`
	Rooms            []Room            `json:"rooms"`
	ReviewAggregates []ReviewAggregate `json:"review_aggregates"`
	FAQs             []FAQ             `json:"faqs"`
}

// HotelSummary is one list row enriched with type/chain/area display names.
type HotelSummary struct {
	Hotel
	Type  *NamedRef `json:"type"`
	Chain *NamedRef `json:"chain"`
	Area  *NamedRef `json:"area"`
}

type HotelFilter struct {
	Search string // case-insensitive substring over name_en OR name_ar
	TypeID *int64
	AreaID *int64
	Status *string
}

// RelatedData carries the form's subordinate collections. A nil field means
// "not submitted, leave the stored rows alone".
type RelatedData struct {
	AmenityIDs       *[]int64
	Rooms            *[]Room
	ImageURLs        *[]string
	ReviewAggregates *[]ReviewAggregate
}
